package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Customer represents a customer of a business
type Customer struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID uuid.UUID         `gorm:"type:uuid;not null;index" json:"business_id"`
	Name       string            `gorm:"size:255;not null" json:"name"`
	Phone      string            `gorm:"size:50" json:"phone"`
	Email      *string           `gorm:"size:255" json:"email,omitempty"`
	Address    *string           `gorm:"type:text" json:"address,omitempty"`
	Notes      *string           `gorm:"type:text" json:"notes,omitempty"`
	Type       enum.CustomerType `gorm:"size:20;not null;default:'walk-in'" json:"type"`
	IsDefault  bool              `gorm:"not null;default:false" json:"is_default"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`

	Business Business `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// DefaultCustomers returns the two synthetic customers every business carries
func DefaultCustomers(businessID uuid.UUID) []Customer {
	return []Customer{
		{BusinessID: businessID, Name: "Walk-in", Type: enum.CustomerTypeWalkIn, IsDefault: true},
		{BusinessID: businessID, Name: "Delivery", Type: enum.CustomerTypeDelivery, IsDefault: true},
	}
}
