package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Business is the tenant boundary: branches, products, customers and sales all belong to one
type Business struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Name             string           `gorm:"size:255;not null" json:"name"`
	OwnerID          uuid.UUID        `gorm:"type:uuid;not null;index" json:"owner_id"`
	HighestMilestone decimal.Decimal  `gorm:"type:numeric(16,2);not null;default:0" json:"highest_milestone"`
	Settings         BusinessSettings `gorm:"type:jsonb" json:"settings"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`

	Owner User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate generates a UUID before creating a new business
func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Business model
func (Business) TableName() string {
	return "businesses"
}

// BusinessSettings holds per-business overrides of the analytics defaults.
// Zero values mean "use the configured default".
type BusinessSettings struct {
	Currency          string `json:"currency,omitempty"`
	Timezone          string `json:"timezone,omitempty"`
	LowStockThreshold int    `json:"low_stock_threshold,omitempty"`
	MilestoneInterval int64  `json:"milestone_interval,omitempty"`
}

// Scan implements the sql.Scanner interface for BusinessSettings
func (s *BusinessSettings) Scan(value interface{}) error {
	if value == nil {
		*s = BusinessSettings{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan BusinessSettings: unsupported type")
	}

	return json.Unmarshal(bytes, s)
}

// Value implements the driver.Valuer interface for BusinessSettings
func (s BusinessSettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// DefaultBusinessSettings returns the settings new businesses start with
func DefaultBusinessSettings() BusinessSettings {
	return BusinessSettings{
		Currency: "KES",
		Timezone: "Africa/Nairobi",
	}
}
