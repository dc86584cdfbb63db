package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
)

// SettingsRepository defines the interface for settings data access
type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.UserSettings, error)
	Create(ctx context.Context, settings *entity.UserSettings) error
	Update(ctx context.Context, settings *entity.UserSettings) error
	// SetCurrentBusiness points the user's session at businessID, creating
	// settings if the user has none. A nil businessID clears it.
	SetCurrentBusiness(ctx context.Context, userID uuid.UUID, businessID *uuid.UUID) error
}
