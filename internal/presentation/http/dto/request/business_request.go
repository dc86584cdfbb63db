package request

import "github.com/sangkips/dukahub-api/internal/domain/entity"

// BusinessRequest creates or updates a business
type BusinessRequest struct {
	Name     string                   `json:"name" binding:"required,max=255"`
	Settings *entity.BusinessSettings `json:"settings"`
}

// BranchRequest creates or updates a branch
type BranchRequest struct {
	Name     string  `json:"name" binding:"required,max=255"`
	Location *string `json:"location" binding:"omitempty,max=255"`
}

// UpdateSettingsRequest updates the caller's settings. Omitted fields are kept.
type UpdateSettingsRequest struct {
	Timezone       *string `json:"timezone" binding:"omitempty,max=50"`
	Currency       *string `json:"currency" binding:"omitempty,len=3"`
	Theme          *string `json:"theme" binding:"omitempty,oneof=light dark system"`
	LowStockAlerts *bool   `json:"low_stock_alerts"`
}
