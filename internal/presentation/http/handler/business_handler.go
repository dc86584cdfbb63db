package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/dukahub-api/internal/application/service"
	"github.com/sangkips/dukahub-api/internal/presentation/http/dto/request"
	"github.com/sangkips/dukahub-api/internal/presentation/http/dto/response"
)

// BusinessHandler handles business-related HTTP requests
type BusinessHandler struct {
	businessService *service.BusinessService
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(businessService *service.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

// List returns the businesses owned by the caller
func (h *BusinessHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	businesses, err := h.businessService.ListBusinesses(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Businesses retrieved successfully", businesses)
}

// Create creates a business owned by the caller
func (h *BusinessHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.BusinessRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	business, err := h.businessService.CreateBusiness(c.Request.Context(), &service.CreateBusinessInput{
		OwnerID:  *userID,
		Name:     req.Name,
		Settings: req.Settings,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Business created successfully", business)
}

// Current returns the business the caller is working in
func (h *BusinessHandler) Current(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	business, err := h.businessService.CurrentBusiness(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Business retrieved successfully", business)
}

// Get returns one of the caller's businesses
func (h *BusinessHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	business, err := h.businessService.GetBusiness(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Business retrieved successfully", business)
}

// Update renames a business or changes its settings
func (h *BusinessHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.BusinessRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	business, err := h.businessService.UpdateBusiness(c.Request.Context(), &service.UpdateBusinessInput{
		ID:       id,
		UserID:   *userID,
		Name:     req.Name,
		Settings: req.Settings,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Business updated successfully", business)
}

// Delete removes a business and everything it owns
func (h *BusinessHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.businessService.DeleteBusiness(c.Request.Context(), *userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Business deleted successfully", nil)
}

// Switch makes a business the caller's current one
func (h *BusinessHandler) Switch(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	business, err := h.businessService.SwitchBusiness(c.Request.Context(), *userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Switched business successfully", business)
}
