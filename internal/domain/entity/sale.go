package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale records units of one product sold at one branch. Total is the price
// actually charged times quantity, independent of the product's list price.
type Sale struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID uuid.UUID       `gorm:"type:uuid;not null;index:idx_sales_business_date,priority:1" json:"business_id"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	BranchID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"branch_id"`
	CustomerID *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Total      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total"`
	Date       time.Time       `gorm:"not null;index:idx_sales_business_date,priority:2" json:"date"`
	CreatedAt  time.Time       `json:"created_at"`

	Business Business  `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"-"`
	Product  *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Branch   *Branch   `gorm:"foreignKey:BranchID;constraint:OnDelete:CASCADE" json:"branch,omitempty"`
	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL" json:"customer,omitempty"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Sale) TableName() string {
	return "sales"
}
