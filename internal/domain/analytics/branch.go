package analytics

import (
	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

type BranchSales struct {
	BranchID   uuid.UUID       `json:"branch_id"`
	BranchName string          `json:"branch_name"`
	Sales      int             `json:"sales"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// ByBranch returns one row per branch, in the order given, including
// branches without sales.
func ByBranch(sales []entity.Sale, branches []entity.Branch) []BranchSales {
	rows := make([]BranchSales, len(branches))
	index := make(map[uuid.UUID]int, len(branches))
	for i, b := range branches {
		rows[i] = BranchSales{BranchID: b.ID, BranchName: b.Name, Revenue: decimal.Zero}
		index[b.ID] = i
	}

	for _, s := range sales {
		i, ok := index[s.BranchID]
		if !ok {
			continue
		}
		rows[i].Sales++
		rows[i].Revenue = rows[i].Revenue.Add(s.Total)
	}
	return rows
}
