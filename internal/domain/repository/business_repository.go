package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BusinessRepository defines the interface for business data operations
type BusinessRepository interface {
	// Create creates a new business
	Create(ctx context.Context, business *entity.Business) error
	// GetByID retrieves a business by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error)
	// Update updates an existing business
	Update(ctx context.Context, business *entity.Business) error
	// Delete removes a business; owned rows go with it
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByOwner retrieves every business owned by a user, oldest first
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Business, error)
	// ListAll retrieves every business
	ListAll(ctx context.Context) ([]entity.Business, error)
	// IsOwner checks if a user owns a business
	IsOwner(ctx context.Context, businessID, userID uuid.UUID) (bool, error)
	// RaiseMilestone stores value as the highest milestone only if it is above
	// the stored one. Reports whether the row changed.
	RaiseMilestone(ctx context.Context, businessID uuid.UUID, value decimal.Decimal) (bool, error)
}
