package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/config"
	"github.com/sangkips/dukahub-api/internal/domain/analytics"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/sangkips/dukahub-api/internal/domain/enum"
	"github.com/sangkips/dukahub-api/internal/domain/repository"
	"github.com/sangkips/dukahub-api/internal/infrastructure/session"
	"github.com/sangkips/dukahub-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

// DashboardService provides dashboard statistics
type DashboardService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	branchRepo   repository.BranchRepository
	businessRepo repository.BusinessRepository
	events       session.Bus
	analytics    config.AnalyticsConfig
	now          func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	businessRepo repository.BusinessRepository,
	events session.Bus,
	analyticsCfg config.AnalyticsConfig,
) *DashboardService {
	return &DashboardService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		branchRepo:   branchRepo,
		businessRepo: businessRepo,
		events:       events,
		analytics:    analyticsCfg,
		now:          time.Now,
	}
}

// DashboardInput selects the reporting window. StartDate and EndDate are
// YYYY-MM-DD days in the business timezone and only apply to custom ranges.
type DashboardInput struct {
	UserID    uuid.UUID
	Range     string
	StartDate string
	EndDate   string
	Threshold *int
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	Range          enum.RangeKind          `json:"range"`
	Window         analytics.Windows       `json:"window"`
	Current        analytics.Totals        `json:"current"`
	Previous       analytics.Totals        `json:"previous"`
	Profit         decimal.Decimal         `json:"profit"`
	PreviousProfit decimal.Decimal         `json:"previous_profit"`
	AllTimeProfit  decimal.Decimal         `json:"all_time_profit"`
	ProfitGrowth   float64                 `json:"profit_growth"`
	RevenueGrowth  float64                 `json:"revenue_growth"`
	TopProducts    []analytics.TopProduct  `json:"top_products"`
	Branches       []analytics.BranchSales `json:"branches"`
	DailySales     []analytics.DailyPoint  `json:"daily_sales"`
	TotalProducts  int                     `json:"total_products"`
	LowStock       LowStockResult          `json:"low_stock"`

	HighestMilestone decimal.Decimal  `json:"highest_milestone"`
	NewMilestone     *decimal.Decimal `json:"new_milestone,omitempty"`

	MissingProductSales int      `json:"missing_product_sales"`
	Warnings            []string `json:"warnings"`
}

type dashboardData struct {
	current  []entity.Sale
	previous []entity.Sale
	all      []entity.Sale
	products []entity.Product
	branches []entity.Branch
}

// GetStats computes the dashboard for the business in ctx. All reads run
// concurrently; if any fails the whole call fails and no partial stats are
// returned.
func (s *DashboardService) GetStats(ctx context.Context, input *DashboardInput) (*DashboardStats, error) {
	bizID, err := businessID(ctx)
	if err != nil {
		return nil, err
	}

	kind, ok := enum.ParseRangeKind(input.Range)
	if !ok {
		return nil, apperror.NewFieldError("range", "Range must be one of day, week, month, year, custom")
	}

	business, err := s.businessRepo.GetByID(ctx, bizID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, apperror.NewNotFoundError("Business")
	}

	loc := location(business, s.analytics)
	windows, err := resolveRange(kind, input.StartDate, input.EndDate, s.now().In(loc), s.analytics.MaxCustomDays)
	if err != nil {
		return nil, err
	}

	data, err := s.fetch(ctx, windows)
	if err != nil {
		return nil, err
	}

	stats := s.reduce(kind, windows, data, business, input.Threshold)

	if mark, reached := analytics.DetectMilestone(stats.AllTimeProfit, business.HighestMilestone, milestoneInterval(business, s.analytics)); reached {
		raised, err := s.businessRepo.RaiseMilestone(ctx, business.ID, mark)
		if err != nil {
			return nil, err
		}
		if raised {
			stats.HighestMilestone = mark
			stats.NewMilestone = &mark
			event := session.NewEvent(enum.SessionMilestoneReached, &business.ID, map[string]decimal.Decimal{"milestone": mark})
			if err := s.events.Publish(ctx, input.UserID, event); err != nil {
				log.Printf("Failed to publish milestone for business %s: %v", business.ID, err)
			}
		}
	}

	return stats, nil
}

// resolveRange resolves a range kind against now. Custom ranges are whole
// days in now's location: startDate from midnight, endDate to its last instant.
// A custom range longer than maxDays is rejected when maxDays is positive.
func resolveRange(kind enum.RangeKind, startDate, endDate string, now time.Time, maxDays int) (analytics.Windows, error) {
	var custom *analytics.Window
	if kind == enum.RangeCustom {
		start, err := time.ParseInLocation(dateLayout, startDate, now.Location())
		if err != nil {
			return analytics.Windows{}, apperror.NewFieldError("start", "Start must be a date in YYYY-MM-DD format")
		}
		end, err := time.ParseInLocation(dateLayout, endDate, now.Location())
		if err != nil {
			return analytics.Windows{}, apperror.NewFieldError("end", "End must be a date in YYYY-MM-DD format")
		}
		_, endOfDay := analytics.DayBounds(end)
		custom = &analytics.Window{Start: start, End: endOfDay}
		if maxDays > 0 && custom.Days() > maxDays {
			return analytics.Windows{}, apperror.NewFieldError("end", fmt.Sprintf("Range may cover at most %d days", maxDays))
		}
	}

	windows, err := analytics.ResolveWindow(kind, now, custom)
	if errors.Is(err, analytics.ErrInvalidDateRange) {
		return analytics.Windows{}, apperror.NewFieldError("end", "End date is before start date")
	}
	return windows, err
}

func (s *DashboardService) fetch(ctx context.Context, windows analytics.Windows) (*dashboardData, error) {
	data := &dashboardData{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sales, err := s.saleRepo.List(gctx, &repository.SaleFilterParams{
			Start: &windows.Current.Start, End: &windows.Current.End, Bare: true,
		})
		data.current = sales
		return err
	})
	g.Go(func() error {
		sales, err := s.saleRepo.List(gctx, &repository.SaleFilterParams{
			Start: &windows.Previous.Start, End: &windows.Previous.End, Bare: true,
		})
		data.previous = sales
		return err
	})
	g.Go(func() error {
		sales, err := s.saleRepo.List(gctx, &repository.SaleFilterParams{Bare: true})
		data.all = sales
		return err
	})
	g.Go(func() error {
		products, err := s.productRepo.List(gctx, &repository.ProductFilterParams{SortBy: "name", SortOrder: "ASC"})
		data.products = products
		return err
	})
	g.Go(func() error {
		branches, err := s.branchRepo.List(gctx, "")
		data.branches = branches
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *DashboardService) reduce(kind enum.RangeKind, windows analytics.Windows, data *dashboardData, business *entity.Business, thresholdOverride *int) *DashboardStats {
	byID := analytics.IndexProducts(data.products)

	current := analytics.FilterWindow(data.current, windows.Current)
	previous := analytics.FilterWindow(data.previous, windows.Previous)

	currentTotals := analytics.PeriodTotals(current, windows.Current)
	previousTotals := analytics.PeriodTotals(previous, windows.Previous)
	currentProfit := analytics.Profit(current, byID)
	previousProfit := analytics.Profit(previous, byID)
	allTime := analytics.Profit(data.all, byID)

	threshold := lowStockThreshold(thresholdOverride, business, s.analytics)
	lowStock := analytics.LowStock(data.products, threshold)

	stats := &DashboardStats{
		Range:          kind,
		Window:         windows,
		Current:        currentTotals,
		Previous:       previousTotals,
		Profit:         currentProfit.Profit,
		PreviousProfit: previousProfit.Profit,
		AllTimeProfit:  allTime.Profit,
		ProfitGrowth:   analytics.Growth(currentProfit.Profit, previousProfit.Profit),
		RevenueGrowth:  analytics.Growth(currentTotals.Revenue, previousTotals.Revenue),
		TopProducts:    analytics.TopProducts(current, data.products, s.analytics.TopProductsLimit),
		Branches:       analytics.ByBranch(current, data.branches),
		DailySales:     analytics.DailySeries(current, byID, windows.Current),
		TotalProducts:  len(data.products),
		LowStock: LowStockResult{
			Threshold: threshold,
			Count:     len(lowStock),
			Products:  lowStock,
		},
		HighestMilestone:    business.HighestMilestone,
		MissingProductSales: allTime.Missing,
		Warnings:            []string{},
	}

	if currentProfit.Missing > 0 {
		stats.Warnings = append(stats.Warnings, fmt.Sprintf(
			"%d sale(s) in this period reference a product that no longer exists and are left out of profit", currentProfit.Missing))
	}
	if allTime.Missing > 0 {
		log.Printf("[dashboard] business %s: %d sale(s) reference missing products", business.ID, allTime.Missing)
	}

	return stats
}
