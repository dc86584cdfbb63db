package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/dukahub-api/internal/application/service"
	"github.com/sangkips/dukahub-api/internal/presentation/http/dto/request"
	"github.com/sangkips/dukahub-api/internal/presentation/http/dto/response"
)

// BranchHandler handles branch-related HTTP requests
type BranchHandler struct {
	branchService *service.BranchService
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(branchService *service.BranchService) *BranchHandler {
	return &BranchHandler{branchService: branchService}
}

func (h *BranchHandler) List(c *gin.Context) {
	branches, err := h.branchService.ListBranches(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Branches retrieved successfully", branches)
}

func (h *BranchHandler) Create(c *gin.Context) {
	var req request.BranchRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	branch, err := h.branchService.CreateBranch(c.Request.Context(), &service.BranchInput{
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Branch created successfully", branch)
}

func (h *BranchHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	branch, err := h.branchService.GetBranch(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Branch retrieved successfully", branch)
}

func (h *BranchHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.BranchRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	branch, err := h.branchService.UpdateBranch(c.Request.Context(), id, &service.BranchInput{
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Branch updated successfully", branch)
}

// Delete removes a branch; its sales go with it
func (h *BranchHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.branchService.DeleteBranch(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Branch deleted successfully", nil)
}
