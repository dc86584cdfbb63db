package request

import "github.com/shopspring/decimal"

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name      string          `json:"name" binding:"required,max=255"`
	Brand     string          `json:"brand" binding:"max=255"`
	Price     decimal.Decimal `json:"price"`
	CostPrice decimal.Decimal `json:"cost_price"`
	Quantity  int             `json:"quantity" binding:"min=0"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name      *string          `json:"name" binding:"omitempty,max=255"`
	Brand     *string          `json:"brand" binding:"omitempty,max=255"`
	Price     *decimal.Decimal `json:"price"`
	CostPrice *decimal.Decimal `json:"cost_price"`
	Quantity  *int             `json:"quantity" binding:"omitempty,min=0"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	Brand     string `form:"brand"`
	InStock   *bool  `form:"in_stock"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}
