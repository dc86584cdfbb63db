package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/sangkips/dukahub-api/internal/domain/enum"
	"github.com/sangkips/dukahub-api/internal/domain/repository"
	"github.com/sangkips/dukahub-api/internal/infrastructure/session"
	"github.com/sangkips/dukahub-api/pkg/apperror"
)

// BusinessService handles business creation, ownership and switching
type BusinessService struct {
	businessRepo repository.BusinessRepository
	customerRepo repository.CustomerRepository
	settingsRepo repository.SettingsRepository
	events       session.Bus
}

// NewBusinessService creates a new business service
func NewBusinessService(
	businessRepo repository.BusinessRepository,
	customerRepo repository.CustomerRepository,
	settingsRepo repository.SettingsRepository,
	events session.Bus,
) *BusinessService {
	return &BusinessService{
		businessRepo: businessRepo,
		customerRepo: customerRepo,
		settingsRepo: settingsRepo,
		events:       events,
	}
}

// CreateBusinessInput represents input for creating a business
type CreateBusinessInput struct {
	OwnerID  uuid.UUID
	Name     string
	Settings *entity.BusinessSettings
}

// CreateBusiness creates a business with its default customers. It becomes
// the owner's current business if they have none.
func (s *BusinessService) CreateBusiness(ctx context.Context, input *CreateBusinessInput) (*entity.Business, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "Name is required")
	}

	settings := entity.DefaultBusinessSettings()
	if input.Settings != nil {
		settings = mergeBusinessSettings(settings, *input.Settings)
	}

	business := &entity.Business{
		Name:     name,
		OwnerID:  input.OwnerID,
		Settings: settings,
	}

	if err := s.businessRepo.Create(ctx, business); err != nil {
		return nil, err
	}

	if err := s.customerRepo.EnsureDefaults(ctx, business.ID); err != nil {
		return nil, err
	}

	userSettings, err := s.settingsRepo.GetByUserID(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}
	if userSettings == nil || userSettings.CurrentBusinessID == nil {
		if err := s.settingsRepo.SetCurrentBusiness(ctx, input.OwnerID, &business.ID); err != nil {
			return nil, err
		}
	}

	return business, nil
}

// GetBusiness retrieves a business the user owns
func (s *BusinessService) GetBusiness(ctx context.Context, userID, id uuid.UUID) (*entity.Business, error) {
	business, err := s.businessRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, apperror.NewNotFoundError("Business")
	}
	if business.OwnerID != userID {
		return nil, apperror.ErrForbidden
	}
	return business, nil
}

// ListBusinesses retrieves every business the user owns
func (s *BusinessService) ListBusinesses(ctx context.Context, userID uuid.UUID) ([]entity.Business, error) {
	businesses, err := s.businessRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if businesses == nil {
		businesses = []entity.Business{}
	}
	return businesses, nil
}

// UpdateBusinessInput represents input for updating a business
type UpdateBusinessInput struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Name     string
	Settings *entity.BusinessSettings
}

// UpdateBusiness updates a business's name and settings
func (s *BusinessService) UpdateBusiness(ctx context.Context, input *UpdateBusinessInput) (*entity.Business, error) {
	business, err := s.GetBusiness(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		business.Name = name
	}
	if input.Settings != nil {
		business.Settings = mergeBusinessSettings(business.Settings, *input.Settings)
	}

	if err := s.businessRepo.Update(ctx, business); err != nil {
		return nil, err
	}

	return business, nil
}

// DeleteBusiness deletes a business and everything it owns. Only the owner may.
func (s *BusinessService) DeleteBusiness(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetBusiness(ctx, userID, id); err != nil {
		return err
	}

	userSettings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if userSettings != nil && userSettings.CurrentBusinessID != nil && *userSettings.CurrentBusinessID == id {
		if err := s.settingsRepo.SetCurrentBusiness(ctx, userID, nil); err != nil {
			return err
		}
	}

	return s.businessRepo.Delete(ctx, id)
}

// SwitchBusiness makes id the user's current business
func (s *BusinessService) SwitchBusiness(ctx context.Context, userID, id uuid.UUID) (*entity.Business, error) {
	business, err := s.GetBusiness(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.settingsRepo.SetCurrentBusiness(ctx, userID, &business.ID); err != nil {
		return nil, err
	}

	event := session.NewEvent(enum.SessionBusinessSwitched, &business.ID, map[string]string{"name": business.Name})
	if err := s.events.Publish(ctx, userID, event); err != nil {
		log.Printf("Failed to publish business switch for user %s: %v", userID, err)
	}

	return business, nil
}

// CurrentBusiness returns the user's current business. A user without one
// who owns businesses is switched to the oldest.
func (s *BusinessService) CurrentBusiness(ctx context.Context, userID uuid.UUID) (*entity.Business, error) {
	userSettings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if userSettings != nil && userSettings.CurrentBusinessID != nil {
		business, err := s.businessRepo.GetByID(ctx, *userSettings.CurrentBusinessID)
		if err != nil {
			return nil, err
		}
		if business != nil && business.OwnerID == userID {
			return business, nil
		}
	}

	owned, err := s.businessRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(owned) == 0 {
		return nil, apperror.ErrNoBusiness
	}

	if err := s.settingsRepo.SetCurrentBusiness(ctx, userID, &owned[0].ID); err != nil {
		return nil, err
	}
	return &owned[0], nil
}

// ResolveBusiness picks the business a request acts on: the requested one
// when given, otherwise the user's current business
func (s *BusinessService) ResolveBusiness(ctx context.Context, userID uuid.UUID, requested *uuid.UUID) (*entity.Business, error) {
	if requested != nil {
		return s.GetBusiness(ctx, userID, *requested)
	}
	return s.CurrentBusiness(ctx, userID)
}

// BackfillDefaultCustomers makes sure every business has its default customers
func (s *BusinessService) BackfillDefaultCustomers(ctx context.Context) (int, error) {
	businesses, err := s.businessRepo.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	for _, b := range businesses {
		if err := s.customerRepo.EnsureDefaults(ctx, b.ID); err != nil {
			return 0, err
		}
	}
	return len(businesses), nil
}

func mergeBusinessSettings(base, update entity.BusinessSettings) entity.BusinessSettings {
	if update.Currency != "" {
		base.Currency = update.Currency
	}
	if update.Timezone != "" {
		base.Timezone = update.Timezone
	}
	if update.LowStockThreshold > 0 {
		base.LowStockThreshold = update.LowStockThreshold
	}
	if update.MilestoneInterval > 0 {
		base.MilestoneInterval = update.MilestoneInterval
	}
	return base
}
