package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/dukahub-api/internal/application/service"
	"github.com/sangkips/dukahub-api/internal/domain/analytics"
	"github.com/sangkips/dukahub-api/internal/domain/repository"
	"github.com/sangkips/dukahub-api/internal/presentation/http/dto/request"
	"github.com/sangkips/dukahub-api/internal/presentation/http/dto/response"
	"github.com/sangkips/dukahub-api/pkg/apperror"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
	defaultLoc  *time.Location
}

// NewSaleHandler creates a new sale handler. defaultLoc is used for date
// filters when the business has no timezone of its own.
func NewSaleHandler(saleService *service.SaleService, defaultLoc *time.Location) *SaleHandler {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &SaleHandler{saleService: saleService, defaultLoc: defaultLoc}
}

// Record records a sale and decrements stock
// @Summary Record sale
// @Tags sales
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string true "client generated key"
// @Param request body request.RecordSaleRequest true "Sale"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse "stock changed concurrently"
// @Failure 422 {object} response.APIResponse
// @Router /sales [post]
func (h *SaleHandler) Record(c *gin.Context) {
	var req request.RecordSaleRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	sale, err := h.saleService.RecordSale(c.Request.Context(), &service.RecordSaleInput{
		ProductID:  req.ProductID,
		BranchID:   req.BranchID,
		CustomerID: req.CustomerID,
		Quantity:   req.Quantity,
		SalePrice:  req.SalePrice,
		Date:       req.Date,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale recorded successfully", sale)
}

// List returns sales newest first
func (h *SaleHandler) List(c *gin.Context) {
	var req request.SaleFilterRequest
	if err := bindQuery(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	params, err := h.filterParams(c, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	sales, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales retrieved successfully", sales)
}

// Get returns a single sale
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

func (h *SaleHandler) filterParams(c *gin.Context, req *request.SaleFilterRequest) (*repository.SaleFilterParams, error) {
	params := &repository.SaleFilterParams{}
	loc := h.location(c)

	var fieldErrors []apperror.FieldError
	if req.StartDate != "" {
		day, err := time.ParseInLocation(time.DateOnly, req.StartDate, loc)
		if err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "start", Message: "Start must be a date (YYYY-MM-DD)"})
		} else {
			start, _ := analytics.DayBounds(day)
			params.Start = &start
		}
	}
	if req.EndDate != "" {
		day, err := time.ParseInLocation(time.DateOnly, req.EndDate, loc)
		if err != nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "end", Message: "End must be a date (YYYY-MM-DD)"})
		} else {
			_, end := analytics.DayBounds(day)
			params.End = &end
		}
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	var err error
	if params.BranchID, err = parseOptionalID(req.BranchID, "branch_id"); err != nil {
		return nil, err
	}
	if params.ProductID, err = parseOptionalID(req.ProductID, "product_id"); err != nil {
		return nil, err
	}
	if params.CustomerID, err = parseOptionalID(req.CustomerID, "customer_id"); err != nil {
		return nil, err
	}
	return params, nil
}

func (h *SaleHandler) location(c *gin.Context) *time.Location {
	if b := GetBusiness(c); b != nil && b.Settings.Timezone != "" {
		if loc, err := time.LoadLocation(b.Settings.Timezone); err == nil {
			return loc
		}
	}
	return h.defaultLoc
}
