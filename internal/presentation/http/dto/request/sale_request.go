package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordSaleRequest represents a sale at an explicitly entered unit price
type RecordSaleRequest struct {
	ProductID  uuid.UUID       `json:"product_id" binding:"required"`
	BranchID   uuid.UUID       `json:"branch_id" binding:"required"`
	CustomerID *uuid.UUID      `json:"customer_id"`
	Quantity   int             `json:"quantity"`
	SalePrice  decimal.Decimal `json:"sale_price"`
	Date       *time.Time      `json:"date"`
}

// SaleFilterRequest filters the sales list. Dates are YYYY-MM-DD days in
// the business timezone and both ends are inclusive.
type SaleFilterRequest struct {
	StartDate  string `form:"start"`
	EndDate    string `form:"end"`
	BranchID   string `form:"branch_id"`
	ProductID  string `form:"product_id"`
	CustomerID string `form:"customer_id"`
}

// RangeRequest selects a reporting window
type RangeRequest struct {
	Range     string `form:"range"`
	StartDate string `form:"start"`
	EndDate   string `form:"end"`
}
