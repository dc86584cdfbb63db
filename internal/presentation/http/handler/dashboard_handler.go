package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/dukahub-api/internal/application/service"
	"github.com/sangkips/dukahub-api/internal/presentation/http/dto/request"
	"github.com/sangkips/dukahub-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats handles getting dashboard statistics
// @Summary Dashboard statistics
// @Description Totals, profit, growth, top products, branch breakdown and low stock for a window
// @Tags dashboard
// @Security BearerAuth
// @Produce json
// @Param range query string false "day, week, month, year or custom" default(month)
// @Param start query string false "custom range start (YYYY-MM-DD)"
// @Param end query string false "custom range end (YYYY-MM-DD), inclusive"
// @Param threshold query int false "low-stock threshold override"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /dashboard [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.RangeRequest
	if err := bindQuery(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	threshold, err := parseThreshold(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	stats, err := h.dashboardService.GetStats(c.Request.Context(), &service.DashboardInput{
		UserID:    *userID,
		Range:     req.Range,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Threshold: threshold,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}
