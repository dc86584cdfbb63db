package analytics

import "github.com/sangkips/dukahub-api/internal/domain/entity"

// LowStock returns the products whose quantity is strictly below threshold
func LowStock(products []entity.Product, threshold int) []entity.Product {
	out := make([]entity.Product, 0)
	for _, p := range products {
		if p.Quantity < threshold {
			out = append(out, p)
		}
	}
	return out
}
