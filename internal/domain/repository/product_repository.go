package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
)

// ProductRepository defines the interface for product data operations.
// All methods are scoped to the business in the context.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDs retrieves multiple products by their IDs in a single query
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	// Update writes only the columns named in update. See ProductUpdate.
	Update(ctx context.Context, product *entity.Product, update ProductUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, error)
	// GetLowStock returns products whose quantity is below threshold
	GetLowStock(ctx context.Context, threshold int) ([]entity.Product, error)
}

// ProductUpdate names the columns an edit writes. When ExpectedQuantity is
// set the row is only written while its quantity still equals it, otherwise
// ErrStockConflict is returned and nothing changes.
type ProductUpdate struct {
	Columns          []string
	ExpectedQuantity *int
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Search    string
	Brand     string
	InStock   *bool
	SortBy    string
	SortOrder string
}
