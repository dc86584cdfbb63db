//go:build integration

package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/sangkips/dukahub-api/internal/domain/enum"
	domainRepo "github.com/sangkips/dukahub-api/internal/domain/repository"
	"github.com/sangkips/dukahub-api/internal/infrastructure/database"
	"github.com/sangkips/dukahub-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// setupTestDB starts a PostgreSQL container and migrates the schema into it
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("dukahub"),
		postgres.WithUsername("dukahub"),
		postgres.WithPassword("dukahub"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(connStr, false)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

type world struct {
	db       *gorm.DB
	ctx      context.Context
	business *entity.Business
	branch   *entity.Branch
	product  *entity.Product
}

func newWorld(t *testing.T, db *gorm.DB, stock int) *world {
	t.Helper()
	ctx := context.Background()

	owner := &entity.User{FirstName: "Amina", LastName: "Owino", Email: uuid.NewString() + "@duka.test"}
	require.NoError(t, NewUserRepository(db).Create(ctx, owner))

	business := &entity.Business{Name: "Duka", OwnerID: owner.ID, Settings: entity.DefaultBusinessSettings()}
	require.NoError(t, NewBusinessRepository(db).Create(ctx, business))
	require.NoError(t, NewCustomerRepository(db).EnsureDefaults(ctx, business.ID))

	scoped := WithBusiness(ctx, business.ID)

	branch := &entity.Branch{BusinessID: business.ID, Name: "Main"}
	require.NoError(t, NewBranchRepository(db).Create(scoped, branch))

	product := &entity.Product{
		BusinessID: business.ID,
		Name:       "Unga",
		Brand:      "Jogoo",
		Price:      decimal.NewFromInt(200),
		CostPrice:  decimal.NewFromInt(150),
	}
	product.Restock(stock)
	require.NoError(t, NewProductRepository(db).Create(scoped, product))

	return &world{db: db, ctx: scoped, business: business, branch: branch, product: product}
}

func (w *world) sale(quantity int) *entity.Sale {
	return &entity.Sale{
		ProductID: w.product.ID,
		BranchID:  w.branch.ID,
		Quantity:  quantity,
		Total:     decimal.NewFromInt(int64(200 * quantity)),
		Date:      time.Now().UTC(),
	}
}

func TestIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)

	t.Run("sale decrements stock in the same transaction", func(t *testing.T) {
		w := newWorld(t, db, 5)
		sales := NewSaleRepository(db)
		products := NewProductRepository(db)

		require.NoError(t, sales.CreateWithStockDecrement(w.ctx, w.sale(5), 5))

		p, err := products.GetByID(w.ctx, w.product.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, p.Quantity)
		assert.Equal(t, 5, p.AvailableQuantity)
		assert.True(t, p.Sold)
		require.NotNil(t, p.SaleDate)

		list, err := sales.List(w.ctx, &domainRepo.SaleFilterParams{})
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.NotNil(t, list[0].Product)
		assert.Equal(t, "Unga", list[0].Product.Name)
		assert.True(t, decimal.NewFromInt(1000).Equal(list[0].Total))
	})

	t.Run("stale expected quantity writes nothing", func(t *testing.T) {
		w := newWorld(t, db, 5)
		sales := NewSaleRepository(db)

		err := sales.CreateWithStockDecrement(w.ctx, w.sale(1), 4)
		assert.ErrorIs(t, err, domainRepo.ErrStockConflict)

		p, err := NewProductRepository(db).GetByID(w.ctx, w.product.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, p.Quantity)

		list, err := sales.List(w.ctx, &domainRepo.SaleFilterParams{Bare: true})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("concurrent sellers never oversell", func(t *testing.T) {
		w := newWorld(t, db, 3)
		sales := NewSaleRepository(db)

		var wg sync.WaitGroup
		errs := make([]error, 6)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = sales.CreateWithStockDecrement(w.ctx, w.sale(1), 3)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, domainRepo.ErrStockConflict)
		}
		assert.Equal(t, 1, succeeded, "only one seller can match the expected quantity")

		p, err := NewProductRepository(db).GetByID(w.ctx, w.product.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, p.Quantity)
	})

	t.Run("product edit after a sale keeps the sold stock", func(t *testing.T) {
		w := newWorld(t, db, 5)
		products := NewProductRepository(db)

		stale, err := products.GetByID(w.ctx, w.product.ID)
		require.NoError(t, err)
		require.NoError(t, NewSaleRepository(db).CreateWithStockDecrement(w.ctx, w.sale(2), 5))

		stale.Name = "Unga Ngano"
		require.NoError(t, products.Update(w.ctx, stale, domainRepo.ProductUpdate{Columns: []string{"name"}}))

		p, err := products.GetByID(w.ctx, w.product.ID)
		require.NoError(t, err)
		assert.Equal(t, "Unga Ngano", p.Name)
		assert.Equal(t, 3, p.Quantity)
	})

	t.Run("stock edit against a stale read is a conflict", func(t *testing.T) {
		w := newWorld(t, db, 5)
		products := NewProductRepository(db)

		stale, err := products.GetByID(w.ctx, w.product.ID)
		require.NoError(t, err)
		require.NoError(t, NewSaleRepository(db).CreateWithStockDecrement(w.ctx, w.sale(2), 5))

		read := stale.Quantity
		stale.Restock(10)
		err = products.Update(w.ctx, stale, domainRepo.ProductUpdate{
			Columns:          []string{"quantity", "available_quantity", "sold"},
			ExpectedQuantity: &read,
		})
		assert.ErrorIs(t, err, domainRepo.ErrStockConflict)

		p, err := products.GetByID(w.ctx, w.product.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, p.Quantity)
		assert.Equal(t, 5, p.AvailableQuantity)
	})

	t.Run("other businesses cannot see or sell the product", func(t *testing.T) {
		w := newWorld(t, db, 5)
		other := newWorld(t, db, 5)

		p, err := NewProductRepository(db).GetByID(other.ctx, w.product.ID)
		require.NoError(t, err)
		assert.Nil(t, p)

		sale := w.sale(1)
		err = NewSaleRepository(db).CreateWithStockDecrement(other.ctx, sale, 5)
		assert.ErrorIs(t, err, domainRepo.ErrStockConflict)
	})

	t.Run("default customers are seeded once and protected", func(t *testing.T) {
		w := newWorld(t, db, 1)
		customers := NewCustomerRepository(db)

		require.NoError(t, customers.EnsureDefaults(context.Background(), w.business.ID))

		list, err := customers.List(w.ctx, &domainRepo.CustomerFilterParams{})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.True(t, list[0].IsDefault)

		walkIns, err := customers.List(w.ctx, &domainRepo.CustomerFilterParams{Type: enum.CustomerTypeWalkIn})
		require.NoError(t, err)
		require.Len(t, walkIns, 1)
		assert.Equal(t, "Walk-in", walkIns[0].Name)
	})

	t.Run("milestone only moves up", func(t *testing.T) {
		w := newWorld(t, db, 1)
		businesses := NewBusinessRepository(db)

		raised, err := businesses.RaiseMilestone(w.ctx, w.business.ID, decimal.NewFromInt(500000))
		require.NoError(t, err)
		assert.True(t, raised)

		raised, err = businesses.RaiseMilestone(w.ctx, w.business.ID, decimal.NewFromInt(500000))
		require.NoError(t, err)
		assert.False(t, raised)

		b, err := businesses.GetByID(w.ctx, w.business.ID)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(500000).Equal(b.HighestMilestone))
	})

	t.Run("idempotency key has one live owner", func(t *testing.T) {
		repo := NewIdempotencyRepository(db)
		ctx := context.Background()
		userID := uuid.New()
		reserve := func() (bool, error) {
			return repo.Reserve(ctx, &entity.IdempotencyKey{
				Key:       "sale-1",
				UserID:    userID,
				Endpoint:  "POST /api/v1/sales",
				ExpiresAt: time.Now().Add(time.Minute),
			})
		}

		ok, err := reserve()
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = reserve()
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, repo.Complete(ctx, &entity.IdempotencyKey{
			Key:          "sale-1",
			UserID:       userID,
			ResponseCode: 201,
			ResponseBody: `{"success":true}`,
			ExpiresAt:    time.Now().Add(time.Hour),
		}))
		got, err := repo.GetByKey(ctx, "sale-1", userID)
		require.NoError(t, err)
		assert.Equal(t, entity.IdempotencyCompleted, got.Status)
		assert.Equal(t, 201, got.ResponseCode)

		require.NoError(t, repo.Release(ctx, "sale-1", userID))
		got, err = repo.GetByKey(ctx, "sale-1", userID)
		require.NoError(t, err)
		assert.NotNil(t, got, "release only drops pending keys")
	})

	t.Run("released or expired idempotency keys can be reserved again", func(t *testing.T) {
		repo := NewIdempotencyRepository(db)
		ctx := context.Background()
		userID := uuid.New()

		ok, err := repo.Reserve(ctx, &entity.IdempotencyKey{Key: "k", UserID: userID, Endpoint: "POST /x", ExpiresAt: time.Now().Add(time.Minute)})
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, repo.Release(ctx, "k", userID))

		ok, err = repo.Reserve(ctx, &entity.IdempotencyKey{Key: "k", UserID: userID, Endpoint: "POST /x", ExpiresAt: time.Now().Add(-time.Second)})
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = repo.Reserve(ctx, &entity.IdempotencyKey{Key: "k", UserID: userID, Endpoint: "POST /x", ExpiresAt: time.Now().Add(time.Minute)})
		require.NoError(t, err)
		assert.True(t, ok, "an expired reservation is taken over")
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		users := NewUserRepository(db)
		email := uuid.NewString() + "@duka.test"

		require.NoError(t, users.Create(context.Background(), &entity.User{FirstName: "A", LastName: "B", Email: email}))
		err := users.Create(context.Background(), &entity.User{FirstName: "C", LastName: "D", Email: email})

		appErr := apperror.GetAppError(err)
		assert.Equal(t, 409, appErr.Code)
	})
}
