package service

import (
	"net/http"
	"testing"

	"github.com/sangkips/dukahub-api/internal/domain/enum"
	"github.com/sangkips/dukahub-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProductRaisesHighWaterMarkOnly(t *testing.T) {
	f := newFixture(t)
	svc := NewProductService(fakeProductRepo{f.store}, fakeBusinessRepo{f.store}, testAnalytics())

	p, err := svc.CreateProduct(f.ctx, &CreateProductInput{
		Name: "Maize Flour", Brand: "Jogoo",
		Price: decimal.NewFromInt(200), CostPrice: decimal.NewFromInt(150), Quantity: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, p.AvailableQuantity)

	lower := 4
	p, err = svc.UpdateProduct(f.ctx, &UpdateProductInput{ID: p.ID, Quantity: &lower})
	require.NoError(t, err)
	assert.Equal(t, 4, p.Quantity)
	assert.Equal(t, 10, p.AvailableQuantity)

	higher := 25
	p, err = svc.UpdateProduct(f.ctx, &UpdateProductInput{ID: p.ID, Quantity: &higher})
	require.NoError(t, err)
	assert.Equal(t, 25, p.AvailableQuantity)

	zero := 0
	p, err = svc.UpdateProduct(f.ctx, &UpdateProductInput{ID: p.ID, Quantity: &zero})
	require.NoError(t, err)
	assert.True(t, p.Sold)
	assert.Equal(t, 25, f.store.products[p.ID].AvailableQuantity)
}

func TestUpdateProductKeepsStockTakenByConcurrentSale(t *testing.T) {
	f := newFixture(t)
	svc := NewProductService(fakeProductRepo{f.store}, fakeBusinessRepo{f.store}, testAnalytics())
	p := f.addProduct(t, "Sugar 2kg", 180, 250, 5)

	f.store.beforeProductUpdate = func() { f.store.products[p.ID].Restock(3) }
	name := "Sugar 2kg (Mumias)"
	updated, err := svc.UpdateProduct(f.ctx, &UpdateProductInput{ID: p.ID, Name: &name})
	require.NoError(t, err)

	assert.Equal(t, name, updated.Name)
	assert.Equal(t, 3, updated.Quantity)
	assert.Equal(t, 3, f.store.products[p.ID].Quantity)
	assert.True(t, decimal.NewFromInt(250).Equal(f.store.products[p.ID].Price))
}

func TestUpdateProductQuantityConflictsWithConcurrentSale(t *testing.T) {
	f := newFixture(t)
	svc := NewProductService(fakeProductRepo{f.store}, fakeBusinessRepo{f.store}, testAnalytics())
	p := f.addProduct(t, "Sugar 2kg", 180, 250, 5)

	f.store.beforeProductUpdate = func() { f.store.products[p.ID].Restock(3) }
	restock := 20
	name := "renamed"
	_, err := svc.UpdateProduct(f.ctx, &UpdateProductInput{ID: p.ID, Name: &name, Quantity: &restock})
	assertAppError(t, err, http.StatusConflict)

	assert.Equal(t, 3, f.store.products[p.ID].Quantity)
	assert.Equal(t, "Sugar 2kg", f.store.products[p.ID].Name)
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewProductService(fakeProductRepo{f.store}, fakeBusinessRepo{f.store}, testAnalytics())

	_, err := svc.CreateProduct(f.ctx, &CreateProductInput{
		Price: decimal.NewFromInt(-1), CostPrice: decimal.NewFromInt(-1), Quantity: -1,
	})
	appErr := assertAppError(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, []string{"name", "price", "cost_price", "quantity"}, fieldNames(appErr))
	assert.Empty(t, f.store.products)
}

func TestCostAbovePriceIsAllowed(t *testing.T) {
	f := newFixture(t)
	svc := NewProductService(fakeProductRepo{f.store}, fakeBusinessRepo{f.store}, testAnalytics())

	_, err := svc.CreateProduct(f.ctx, &CreateProductInput{
		Name: "Loss leader", Price: decimal.NewFromInt(10), CostPrice: decimal.NewFromInt(12), Quantity: 1,
	})
	assert.NoError(t, err)
}

func TestLowStockThresholdPrecedence(t *testing.T) {
	f := newFixture(t)
	svc := NewProductService(fakeProductRepo{f.store}, fakeBusinessRepo{f.store}, testAnalytics())
	for i, qty := range []int{0, 1, 2, 3, 4, 5} {
		f.addProduct(t, string(rune('A'+i)), 1, 2, qty)
	}

	res, err := svc.GetLowStock(f.ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Threshold)
	assert.Equal(t, 5, res.Count)

	f.store.businesses[f.business.ID].Settings.LowStockThreshold = 3
	res, err = svc.GetLowStock(f.ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Threshold)
	assert.Equal(t, 3, res.Count)

	two := 2
	res, err = svc.GetLowStock(f.ctx, &two)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Threshold)
	require.Len(t, res.Products, 2)
	for _, p := range res.Products {
		assert.Contains(t, []int{0, 1}, p.Quantity)
	}
}

func TestDefaultCustomersAreProtected(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, fakeCustomerRepo{f.store}.EnsureDefaults(f.ctx, f.business.ID))
	svc := NewCustomerService(fakeCustomerRepo{f.store})

	customers, err := svc.ListCustomers(f.ctx, &repository.CustomerFilterParams{Type: enum.CustomerTypeWalkIn})
	require.NoError(t, err)
	require.Len(t, customers, 1)
	walkIn := customers[0]

	name := "Renamed"
	_, err = svc.UpdateCustomer(f.ctx, &UpdateCustomerInput{ID: walkIn.ID, Name: &name})
	assertAppError(t, err, http.StatusForbidden)

	err = svc.DeleteCustomer(f.ctx, walkIn.ID)
	assertAppError(t, err, http.StatusForbidden)
	assert.Len(t, f.store.customers, 2)
}

func TestCustomerLifecycle(t *testing.T) {
	f := newFixture(t)
	svc := NewCustomerService(fakeCustomerRepo{f.store})

	c, err := svc.CreateCustomer(f.ctx, &CreateCustomerInput{Name: "Wanjiku", Phone: "0712000000", Type: enum.CustomerTypeDelivery})
	require.NoError(t, err)
	assert.False(t, c.IsDefault)
	assert.Equal(t, f.business.ID, c.BusinessID)

	walkIn := enum.CustomerTypeWalkIn
	c, err = svc.UpdateCustomer(f.ctx, &UpdateCustomerInput{ID: c.ID, Type: &walkIn})
	require.NoError(t, err)
	assert.Equal(t, enum.CustomerTypeWalkIn, c.Type)

	require.NoError(t, svc.DeleteCustomer(f.ctx, c.ID))
	_, err = svc.GetCustomer(f.ctx, c.ID)
	assertAppError(t, err, http.StatusNotFound)

	_, err = svc.CreateCustomer(f.ctx, &CreateCustomerInput{Name: "X", Type: enum.CustomerType("vip")})
	assertAppError(t, err, http.StatusUnprocessableEntity)
}

func TestBranchLifecycle(t *testing.T) {
	f := newFixture(t)
	svc := NewBranchService(fakeBranchRepo{f.store})
	location := "Moi Avenue"

	b, err := svc.CreateBranch(f.ctx, &BranchInput{Name: "Town", Location: &location})
	require.NoError(t, err)

	branches, err := svc.ListBranches(f.ctx, "")
	require.NoError(t, err)
	assert.Len(t, branches, 2)
	assert.Equal(t, "Main", branches[0].Name)

	_, err = svc.UpdateBranch(f.ctx, b.ID, &BranchInput{Name: ""})
	assertAppError(t, err, http.StatusUnprocessableEntity)

	require.NoError(t, svc.DeleteBranch(f.ctx, b.ID))
	_, err = svc.GetBranch(f.ctx, b.ID)
	assertAppError(t, err, http.StatusNotFound)
}

func TestSettingsDefaultsAndUpdate(t *testing.T) {
	f := newFixture(t)
	svc := NewSettingsService(fakeSettingsRepo{f.store})

	st, err := svc.GetSettings(f.ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "KES", st.Currency)
	assert.True(t, st.LowStockAlerts)

	theme, off := "dark", false
	st, err = svc.UpdateSettings(f.ctx, &UpdateSettingsInput{UserID: f.owner.ID, Theme: &theme, LowStockAlerts: &off})
	require.NoError(t, err)
	assert.Equal(t, "dark", st.Theme)
	assert.False(t, st.LowStockAlerts)
	assert.Equal(t, "KES", st.Currency)

	bad := "Mars/Olympus"
	_, err = svc.UpdateSettings(f.ctx, &UpdateSettingsInput{UserID: f.owner.ID, Timezone: &bad})
	assertAppError(t, err, http.StatusUnprocessableEntity)
}
