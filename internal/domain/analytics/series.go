package analytics

import (
	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

type DailyPoint struct {
	Date    string          `json:"date"`
	Sales   int             `json:"sales"`
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
}

// DailySeries buckets the sales in w by calendar day in w.Start's location.
// Every day of the window gets a point. Profit only includes sales whose
// product resolves.
func DailySeries(sales []entity.Sale, productsByID map[uuid.UUID]entity.Product, w Window) []DailyPoint {
	if w.End.Before(w.Start) {
		return []DailyPoint{}
	}
	loc := w.Start.Location()

	var points []DailyPoint
	index := make(map[string]int)
	for day := midnight(w.Start); !day.After(w.End); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayLayout)
		index[key] = len(points)
		points = append(points, DailyPoint{Date: key, Revenue: decimal.Zero, Profit: decimal.Zero})
	}

	for _, s := range sales {
		if !w.Contains(s.Date) {
			continue
		}
		i, ok := index[s.Date.In(loc).Format(dayLayout)]
		if !ok {
			continue
		}
		points[i].Sales++
		points[i].Revenue = points[i].Revenue.Add(s.Total)
		if p, ok := productsByID[s.ProductID]; ok {
			points[i].Profit = points[i].Profit.Add(SaleProfit(s, p))
		}
	}
	return points
}
