package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
)

// IdempotencyRepository stores replayable responses keyed by client key and user
type IdempotencyRepository interface {
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	// Reserve inserts ikey as pending. It reports false when a live entry
	// with the same key and user already exists; expired entries are taken over.
	Reserve(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error)
	// Complete stores the response for a reserved key
	Complete(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Release drops a pending reservation so the key can be retried
	Release(ctx context.Context, key string, userID uuid.UUID) error
	// DeleteExpired removes expired keys and reports how many were removed
	DeleteExpired(ctx context.Context) (int64, error)
}
