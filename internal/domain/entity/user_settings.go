package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSettings holds per-user preferences, including the business the
// user is currently working in
type UserSettings struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	CurrentBusinessID *uuid.UUID `gorm:"type:uuid;index" json:"current_business_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Timezone       string `gorm:"size:50;default:'Africa/Nairobi'" json:"timezone"`
	Currency       string `gorm:"size:10;default:'KES'" json:"currency"`
	Theme          string `gorm:"size:20;default:'light'" json:"theme"`
	LowStockAlerts bool   `gorm:"default:true" json:"low_stock_alerts"`

	User            User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CurrentBusiness *Business `gorm:"foreignKey:CurrentBusinessID;constraint:OnDelete:SET NULL" json:"-"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *UserSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the UserSettings model
func (UserSettings) TableName() string {
	return "user_settings"
}

// DefaultUserSettings returns settings for a user that has none yet
func DefaultUserSettings(userID uuid.UUID) *UserSettings {
	return &UserSettings{
		UserID:         userID,
		Timezone:       "Africa/Nairobi",
		Currency:       "KES",
		Theme:          "light",
		LowStockAlerts: true,
	}
}
