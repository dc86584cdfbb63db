package analytics

import (
	"sort"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const DefaultTopProductsLimit = 5

type TopProduct struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Brand        string          `json:"brand"`
	TotalSold    int             `json:"total_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// TopProducts ranks products by revenue across sales, highest first.
// Products that sold nothing are left out, as are sales of products not in
// products. Equal revenues keep the order in which the product first
// appears in sales. A non-positive limit means DefaultTopProductsLimit.
func TopProducts(sales []entity.Sale, products []entity.Product, limit int) []TopProduct {
	if limit <= 0 {
		limit = DefaultTopProductsLimit
	}

	byID := IndexProducts(products)
	acc := make(map[uuid.UUID]*TopProduct)
	var seen []uuid.UUID

	for _, s := range sales {
		p, ok := byID[s.ProductID]
		if !ok {
			continue
		}
		tp, ok := acc[p.ID]
		if !ok {
			tp = &TopProduct{ID: p.ID, Name: p.Name, Brand: p.Brand, TotalRevenue: decimal.Zero}
			acc[p.ID] = tp
			seen = append(seen, p.ID)
		}
		tp.TotalSold += s.Quantity
		tp.TotalRevenue = tp.TotalRevenue.Add(s.Total)
	}

	ranked := make([]TopProduct, 0, len(seen))
	for _, id := range seen {
		if acc[id].TotalSold <= 0 {
			continue
		}
		ranked = append(ranked, *acc[id])
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalRevenue.GreaterThan(ranked[j].TotalRevenue)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
