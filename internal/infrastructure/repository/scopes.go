package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

// BusinessIDKey is the context key for the current business ID
const BusinessIDKey ctxKey = "business_id"

// ErrBusinessContextMissing is returned by writes that need a business in the context
var ErrBusinessContextMissing = errors.New("business context required")

// BusinessScope returns a GORM scope that filters by the business in ctx.
// Queries without a business in ctx match nothing.
func BusinessScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		businessID, ok := GetBusinessID(ctx)
		if !ok {
			return db.Where("1 = 0")
		}
		return db.Where("business_id = ?", businessID)
	}
}

// WithBusiness adds business ID to context
func WithBusiness(ctx context.Context, businessID uuid.UUID) context.Context {
	return context.WithValue(ctx, BusinessIDKey, businessID)
}

// GetBusinessID extracts business ID from context
func GetBusinessID(ctx context.Context) (uuid.UUID, bool) {
	businessID, ok := ctx.Value(BusinessIDKey).(uuid.UUID)
	if !ok || businessID == uuid.Nil {
		return uuid.Nil, false
	}
	return businessID, true
}
