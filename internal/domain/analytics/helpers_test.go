package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var nairobi = mustLoad("Africa/Nairobi")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, 3*60*60)
	}
	return loc
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, got.Equal(dec(want)), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func product(name string, cost string, qty int) entity.Product {
	return entity.Product{
		ID:                uuid.New(),
		Name:              name,
		Brand:             name + " Co",
		Price:             dec(cost).Mul(decimal.NewFromInt(2)),
		CostPrice:         dec(cost),
		Quantity:          qty,
		AvailableQuantity: qty,
	}
}

func sale(p entity.Product, qty int, total string, at time.Time) entity.Sale {
	return entity.Sale{
		ID:        uuid.New(),
		ProductID: p.ID,
		Quantity:  qty,
		Total:     dec(total),
		Date:      at,
	}
}

func cloneSales(in []entity.Sale) []entity.Sale {
	return append([]entity.Sale(nil), in...)
}

func cloneProducts(in []entity.Product) []entity.Product {
	return append([]entity.Product(nil), in...)
}
