package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
)

// BranchRepository defines the interface for branch data operations.
// All methods are scoped to the business in the context.
type BranchRepository interface {
	Create(ctx context.Context, branch *entity.Branch) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error)
	Update(ctx context.Context, branch *entity.Branch) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string) ([]entity.Branch, error)
}
