package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/config"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	infraRepo "github.com/sangkips/dukahub-api/internal/infrastructure/repository"
	"github.com/sangkips/dukahub-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAnalytics() config.AnalyticsConfig {
	return config.AnalyticsConfig{
		LowStockThreshold: 5,
		MilestoneInterval: 500000,
		TopProductsLimit:  5,
		Timezone:          "Africa/Nairobi",
		MaxCustomDays:     366,
	}
}

type fixture struct {
	store    *fakeStore
	bus      *recordingBus
	owner    *entity.User
	business *entity.Business
	branch   *entity.Branch
	ctx      context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newFakeStore()
	f := &fixture{store: store, bus: newRecordingBus()}

	f.owner = &entity.User{FirstName: "Amina", LastName: "Otieno", Email: "amina@example.com"}
	require.NoError(t, fakeUserRepo{store}.Create(context.Background(), f.owner))

	f.business = &entity.Business{Name: "Duka One", OwnerID: f.owner.ID, Settings: entity.DefaultBusinessSettings()}
	require.NoError(t, fakeBusinessRepo{store}.Create(context.Background(), f.business))
	f.ctx = infraRepo.WithBusiness(context.Background(), f.business.ID)

	f.branch = &entity.Branch{BusinessID: f.business.ID, Name: "Main"}
	require.NoError(t, fakeBranchRepo{store}.Create(f.ctx, f.branch))
	return f
}

func (f *fixture) addProduct(t *testing.T, name string, cost, price int64, qty int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		BusinessID: f.business.ID,
		Name:       name,
		Brand:      "Acme",
		Price:      decimal.NewFromInt(price),
		CostPrice:  decimal.NewFromInt(cost),
	}
	p.Restock(qty)
	require.NoError(t, fakeProductRepo{f.store}.Create(f.ctx, p))
	return p
}

func (f *fixture) addSale(p *entity.Product, qty int, total int64, at time.Time) entity.Sale {
	s := entity.Sale{
		ID:         uuid.New(),
		BusinessID: f.business.ID,
		ProductID:  p.ID,
		BranchID:   f.branch.ID,
		Quantity:   qty,
		Total:      decimal.NewFromInt(total),
		Date:       at,
	}
	f.store.sales = append(f.store.sales, s)
	return s
}

func (f *fixture) saleService() *SaleService {
	return NewSaleService(fakeSaleRepo{f.store}, fakeProductRepo{f.store}, fakeBranchRepo{f.store}, fakeCustomerRepo{f.store})
}

func (f *fixture) dashboardService(now time.Time) *DashboardService {
	svc := NewDashboardService(fakeSaleRepo{f.store}, fakeProductRepo{f.store}, fakeBranchRepo{f.store}, fakeBusinessRepo{f.store}, f.bus, testAnalytics())
	svc.now = func() time.Time { return now }
	return svc
}

func assertAppError(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, code, appErr.Code, appErr.Message)
	return appErr
}

func fieldNames(appErr *apperror.AppError) []string {
	names := make([]string, 0, len(appErr.Errors))
	for _, fe := range appErr.Errors {
		names = append(names, fe.Field)
	}
	return names
}
