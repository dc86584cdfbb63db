package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/sangkips/dukahub-api/internal/config"
	"github.com/sangkips/dukahub-api/internal/domain/analytics"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/sangkips/dukahub-api/internal/domain/enum"
	"github.com/sangkips/dukahub-api/internal/domain/repository"
	"github.com/sangkips/dukahub-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// ReportService renders printable PDF reports
type ReportService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	businessRepo repository.BusinessRepository
	analytics    config.AnalyticsConfig
	now          func() time.Time
}

// NewReportService creates a new report service
func NewReportService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	businessRepo repository.BusinessRepository,
	analyticsCfg config.AnalyticsConfig,
) *ReportService {
	return &ReportService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		businessRepo: businessRepo,
		analytics:    analyticsCfg,
		now:          time.Now,
	}
}

// SalesReportInput selects the report window the same way as the dashboard
type SalesReportInput struct {
	Range     string
	StartDate string
	EndDate   string
}

// SalesReportPDF lists every sale in the window with revenue and profit totals
func (s *ReportService) SalesReportPDF(ctx context.Context, input *SalesReportInput) ([]byte, error) {
	business, err := s.business(ctx)
	if err != nil {
		return nil, err
	}

	kind, ok := enum.ParseRangeKind(input.Range)
	if !ok {
		return nil, apperror.NewFieldError("range", "Range must be one of day, week, month, year, custom")
	}

	loc := location(business, s.analytics)
	windows, err := resolveRange(kind, input.StartDate, input.EndDate, s.now().In(loc), s.analytics.MaxCustomDays)
	if err != nil {
		return nil, err
	}
	w := windows.Current

	sales, err := s.saleRepo.List(ctx, &repository.SaleFilterParams{Start: &w.Start, End: &w.End})
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.GetByIDs(ctx, soldProductIDs(sales))
	if err != nil {
		return nil, err
	}

	totals := analytics.PeriodTotals(sales, w)
	profit := analytics.Profit(sales, analytics.IndexProducts(products))
	currency := business.Settings.Currency

	pdf := newReport(business.Name + " - Sales Report")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Period: %s to %s", w.Start.Format("2006-01-02 15:04"), w.End.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Transactions: %d", totals.Count), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Revenue: %s %s", currency, totals.Revenue.StringFixed(2)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Profit: %s %s", currency, profit.Profit.StringFixed(2)), "", 1, "L", false, 0, "")
	if profit.Missing > 0 {
		pdf.CellFormat(0, 8, fmt.Sprintf("%d sale(s) left out of profit: product no longer exists", profit.Missing), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	widths := []float64{32, 50, 40, 20, 40}
	tableHeader(pdf, widths, "Date", "Product", "Branch", "Qty", "Total")
	pdf.SetFont("Arial", "", 10)
	for _, sale := range sales {
		productName, branchName := "(deleted)", "(deleted)"
		if sale.Product != nil {
			productName = sale.Product.Name
		}
		if sale.Branch != nil {
			branchName = sale.Branch.Name
		}
		pdf.CellFormat(widths[0], 8, sale.Date.In(loc).Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 8, truncate(productName, 28), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 8, truncate(branchName, 22), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 8, fmt.Sprintf("%d", sale.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 8, money(currency, sale.Total), "1", 1, "R", false, 0, "")
	}

	return render(pdf)
}

// LowStockReportPDF lists the products below the low-stock threshold
func (s *ReportService) LowStockReportPDF(ctx context.Context, override *int) ([]byte, error) {
	business, err := s.business(ctx)
	if err != nil {
		return nil, err
	}

	threshold := lowStockThreshold(override, business, s.analytics)
	products, err := s.productRepo.GetLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	products = analytics.LowStock(products, threshold)

	pdf := newReport(business.Name + " - Low Stock Report")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", s.now().In(location(business, s.analytics)).Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Products with fewer than %d in stock: %d", threshold, len(products)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{60, 45, 30, 30, 25}
	tableHeader(pdf, widths, "Product", "Brand", "In stock", "Peak stock", "% left")
	pdf.SetFont("Arial", "", 10)
	for _, p := range products {
		pdf.CellFormat(widths[0], 8, truncate(p.Name, 34), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 8, truncate(p.Brand, 26), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 8, fmt.Sprintf("%d", p.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 8, fmt.Sprintf("%d", p.AvailableQuantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 8, fmt.Sprintf("%.0f%%", p.PercentRemaining()), "1", 1, "R", false, 0, "")
	}

	return render(pdf)
}

// soldProductIDs returns each product id that appears in sales once
func soldProductIDs(sales []entity.Sale) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(sales))
	ids := make([]uuid.UUID, 0, len(sales))
	for _, sale := range sales {
		if _, ok := seen[sale.ProductID]; ok {
			continue
		}
		seen[sale.ProductID] = struct{}{}
		ids = append(ids, sale.ProductID)
	}
	return ids
}

func (s *ReportService) business(ctx context.Context) (*entity.Business, error) {
	bizID, err := businessID(ctx)
	if err != nil {
		return nil, err
	}
	business, err := s.businessRepo.GetByID(ctx, bizID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, apperror.NewNotFoundError("Business")
	}
	return business, nil
}

func newReport(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)
	return pdf
}

func tableHeader(pdf *gofpdf.Fpdf, widths []float64, titles ...string) {
	pdf.SetFont("Arial", "B", 11)
	for i, title := range titles {
		ln := 0
		if i == len(titles)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 9, title, "1", ln, "C", false, 0, "")
	}
}

func render(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func money(currency string, amount decimal.Decimal) string {
	return currency + " " + amount.StringFixed(2)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
