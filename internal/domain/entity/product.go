package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a stocked item. Quantity is the live stock level and
// AvailableQuantity the highest level it has ever been stocked to.
type Product struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_id"`
	Name              string          `gorm:"size:255;not null" json:"name"`
	Brand             string          `gorm:"size:255" json:"brand"`
	Price             decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"price"`
	CostPrice         decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"cost_price"`
	Quantity          int             `gorm:"not null;default:0" json:"quantity"`
	AvailableQuantity int             `gorm:"not null;default:0" json:"available_quantity"`
	Sold              bool            `gorm:"not null;default:false" json:"sold"`
	SaleDate          *time.Time      `json:"sale_date,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	Business Business `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// Restock sets the stock level, raising the high-water mark if needed.
// The high-water mark never goes down.
func (p *Product) Restock(quantity int) {
	p.Quantity = quantity
	if quantity > p.AvailableQuantity {
		p.AvailableQuantity = quantity
	}
	p.Sold = p.Quantity == 0
}

// PercentRemaining is the share of the high-water mark still in stock
func (p *Product) PercentRemaining() float64 {
	if p.AvailableQuantity <= 0 {
		return 0
	}
	return float64(p.Quantity) / float64(p.AvailableQuantity) * 100
}
