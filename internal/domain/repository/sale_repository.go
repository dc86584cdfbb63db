package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
)

// ErrStockConflict is returned when the product's stock changed between the
// read that validated a sale and the write that records it.
var ErrStockConflict = errors.New("product stock changed, please retry")

// SaleRepository defines the interface for sale data operations.
// All methods are scoped to the business in the context.
type SaleRepository interface {
	// CreateWithStockDecrement inserts sale and decrements the product's stock
	// in one transaction. The decrement only applies while the product's
	// quantity still equals expectedQuantity; otherwise nothing is written and
	// ErrStockConflict is returned.
	CreateWithStockDecrement(ctx context.Context, sale *entity.Sale, expectedQuantity int) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// List returns sales with product, branch and customer preloaded, newest first
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, error)
}

// SaleFilterParams contains filtering parameters for sale queries.
// Start and End are inclusive.
type SaleFilterParams struct {
	Start      *time.Time
	End        *time.Time
	BranchID   *uuid.UUID
	ProductID  *uuid.UUID
	CustomerID *uuid.UUID
	// Bare skips preloading the joined product, branch and customer
	Bare bool
}
