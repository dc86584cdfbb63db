package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	domainRepo "github.com/sangkips/dukahub-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type businessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository creates a new business repository
func NewBusinessRepository(db *gorm.DB) domainRepo.BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(ctx context.Context, business *entity.Business) error {
	return translateError(r.db.WithContext(ctx).Create(business).Error)
}

func (r *businessRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	var business entity.Business
	err := r.db.WithContext(ctx).First(&business, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &business, err
}

func (r *businessRepository) Update(ctx context.Context, business *entity.Business) error {
	return translateError(r.db.WithContext(ctx).
		Model(business).
		Select("name", "settings").
		Updates(business).Error)
}

func (r *businessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Business{}, "id = ?", id).Error
}

func (r *businessRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Business, error) {
	var businesses []entity.Business
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&businesses).Error
	return businesses, err
}

func (r *businessRepository) ListAll(ctx context.Context) ([]entity.Business, error) {
	var businesses []entity.Business
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&businesses).Error
	return businesses, err
}

func (r *businessRepository) IsOwner(ctx context.Context, businessID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Business{}).
		Where("id = ? AND owner_id = ?", businessID, userID).
		Count(&count).Error
	return count > 0, err
}

// RaiseMilestone only moves the high-water mark up:
// UPDATE businesses SET highest_milestone = ? WHERE id = ? AND highest_milestone < ?
func (r *businessRepository) RaiseMilestone(ctx context.Context, businessID uuid.UUID, value decimal.Decimal) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Business{}).
		Where("id = ? AND highest_milestone < ?", businessID, value).
		Update("highest_milestone", value)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
