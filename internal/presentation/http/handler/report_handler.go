package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/dukahub-api/internal/application/service"
	"github.com/sangkips/dukahub-api/internal/presentation/http/dto/request"
	"github.com/sangkips/dukahub-api/internal/presentation/http/dto/response"
)

// ReportHandler serves printable PDF reports
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// SalesReport renders the sales in a window as a PDF
func (h *ReportHandler) SalesReport(c *gin.Context) {
	var req request.RangeRequest
	if err := bindQuery(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	pdf, err := h.reportService.SalesReportPDF(c.Request.Context(), &service.SalesReportInput{
		Range:     req.Range,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	sendPDF(c, "sales", pdf)
}

// LowStockReport renders the low-stock list as a PDF
func (h *ReportHandler) LowStockReport(c *gin.Context) {
	threshold, err := parseThreshold(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	pdf, err := h.reportService.LowStockReportPDF(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}

	sendPDF(c, "low-stock", pdf)
}

func sendPDF(c *gin.Context, name string, pdf []byte) {
	filename := fmt.Sprintf("%s_report_%s.pdf", name, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
