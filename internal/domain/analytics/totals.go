package analytics

import (
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Totals is the transaction count and revenue of a period
type Totals struct {
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// FilterWindow returns the sales dated within w, in input order
func FilterWindow(sales []entity.Sale, w Window) []entity.Sale {
	out := make([]entity.Sale, 0, len(sales))
	for _, s := range sales {
		if w.Contains(s.Date) {
			out = append(out, s)
		}
	}
	return out
}

// PeriodTotals counts the sales dated within w and sums their totals
func PeriodTotals(sales []entity.Sale, w Window) Totals {
	t := Totals{Revenue: decimal.Zero}
	for _, s := range sales {
		if !w.Contains(s.Date) {
			continue
		}
		t.Count++
		t.Revenue = t.Revenue.Add(s.Total)
	}
	return t
}
