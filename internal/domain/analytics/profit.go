package analytics

import (
	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProfitResult carries the profit of the sales whose product could be
// resolved, and which sales could not be.
type ProfitResult struct {
	Profit         decimal.Decimal `json:"profit"`
	Resolved       int             `json:"resolved"`
	Missing        int             `json:"missing"`
	MissingSaleIDs []uuid.UUID     `json:"missing_sale_ids,omitempty"`
}

// IndexProducts keys products by ID
func IndexProducts(products []entity.Product) map[uuid.UUID]entity.Product {
	byID := make(map[uuid.UUID]entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID
}

// SaleProfit is total minus quantity times the product's current cost price
func SaleProfit(s entity.Sale, p entity.Product) decimal.Decimal {
	return s.Total.Sub(p.CostPrice.Mul(decimal.NewFromInt(int64(s.Quantity))))
}

// Profit sums SaleProfit over every sale whose product is in productsByID.
// Sales with an unknown product are counted in Missing and left out of the sum.
func Profit(sales []entity.Sale, productsByID map[uuid.UUID]entity.Product) ProfitResult {
	r := ProfitResult{Profit: decimal.Zero}
	for _, s := range sales {
		p, ok := productsByID[s.ProductID]
		if !ok {
			r.Missing++
			r.MissingSaleIDs = append(r.MissingSaleIDs, s.ID)
			continue
		}
		r.Resolved++
		r.Profit = r.Profit.Add(SaleProfit(s, p))
	}
	return r
}
