package request

import "github.com/sangkips/dukahub-api/internal/domain/enum"

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name    string            `json:"name" binding:"required,max=255"`
	Phone   string            `json:"phone" binding:"max=50"`
	Email   *string           `json:"email" binding:"omitempty,email"`
	Address *string           `json:"address"`
	Notes   *string           `json:"notes"`
	Type    enum.CustomerType `json:"type"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	Name    *string            `json:"name" binding:"omitempty,max=255"`
	Phone   *string            `json:"phone" binding:"omitempty,max=50"`
	Email   *string            `json:"email" binding:"omitempty,email"`
	Address *string            `json:"address"`
	Notes   *string            `json:"notes"`
	Type    *enum.CustomerType `json:"type"`
}
