package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/sangkips/dukahub-api/internal/domain/enum"
)

// CustomerRepository defines the interface for customer data operations.
// All methods are scoped to the business in the context.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *CustomerFilterParams) ([]entity.Customer, error)
	// EnsureDefaults creates whichever default customers businessID is missing.
	// It ignores the context scope so it can run for any business.
	EnsureDefaults(ctx context.Context, businessID uuid.UUID) error
}

// CustomerFilterParams contains filtering parameters for customer queries
type CustomerFilterParams struct {
	Search string
	Type   enum.CustomerType
}
