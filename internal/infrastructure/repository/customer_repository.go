package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	domainRepo "github.com/sangkips/dukahub-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return translateError(r.db.WithContext(ctx).Create(customer).Error)
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).Scopes(BusinessScope(ctx)).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(customer).Error)
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(BusinessScope(ctx)).
		Where("is_default = ?", false).
		Delete(&entity.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) List(ctx context.Context, params *domainRepo.CustomerFilterParams) ([]entity.Customer, error) {
	var customers []entity.Customer

	query := r.db.WithContext(ctx).Model(&entity.Customer{}).Scopes(BusinessScope(ctx))

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR phone ILIKE ? OR email ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}

	err := query.Order("is_default DESC, name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepository) EnsureDefaults(ctx context.Context, businessID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, def := range entity.DefaultCustomers(businessID) {
			var existing entity.Customer
			err := tx.
				Where(entity.Customer{BusinessID: businessID, Type: def.Type, IsDefault: true}).
				Attrs(entity.Customer{Name: def.Name}).
				FirstOrCreate(&existing).Error
			if err != nil {
				return translateError(err)
			}
		}
		return nil
	})
}
