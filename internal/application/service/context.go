package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/config"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	infraRepo "github.com/sangkips/dukahub-api/internal/infrastructure/repository"
	"github.com/sangkips/dukahub-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// businessID extracts the business the request is scoped to
func businessID(ctx context.Context) (uuid.UUID, error) {
	id, ok := infraRepo.GetBusinessID(ctx)
	if !ok {
		return uuid.Nil, apperror.NewBadRequestError("Business context required")
	}
	return id, nil
}

// location is the zone a business counts its days in
func location(b *entity.Business, cfg config.AnalyticsConfig) *time.Location {
	if b != nil && b.Settings.Timezone != "" {
		if loc, err := time.LoadLocation(b.Settings.Timezone); err == nil {
			return loc
		}
	}
	return cfg.Location()
}

// lowStockThreshold picks the request override, then the business setting,
// then the configured default. An override of 0 flags nothing.
func lowStockThreshold(override *int, b *entity.Business, cfg config.AnalyticsConfig) int {
	if override != nil && *override >= 0 {
		return *override
	}
	if b != nil && b.Settings.LowStockThreshold > 0 {
		return b.Settings.LowStockThreshold
	}
	return cfg.LowStockThreshold
}

func milestoneInterval(b *entity.Business, cfg config.AnalyticsConfig) decimal.Decimal {
	if b != nil && b.Settings.MilestoneInterval > 0 {
		return decimal.NewFromInt(b.Settings.MilestoneInterval)
	}
	return decimal.NewFromInt(cfg.MilestoneInterval)
}
