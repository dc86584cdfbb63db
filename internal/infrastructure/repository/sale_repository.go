package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	domainRepo "github.com/sangkips/dukahub-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

// CreateWithStockDecrement runs, in one transaction:
//
//	UPDATE products SET quantity = ?, sold = ?, sale_date = ?
//	 WHERE id = ? AND business_id = ? AND quantity = <expected>
//	INSERT INTO sales ...
//
// A concurrent sale that got there first leaves zero rows affected, and the
// whole transaction is rolled back with ErrStockConflict.
func (r *saleRepository) CreateWithStockDecrement(ctx context.Context, sale *entity.Sale, expectedQuantity int) error {
	businessID, ok := GetBusinessID(ctx)
	if !ok {
		return ErrBusinessContextMissing
	}
	sale.BusinessID = businessID

	remaining := expectedQuantity - sale.Quantity
	if sale.Quantity <= 0 || remaining < 0 {
		return domainRepo.ErrStockConflict
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Product{}).
			Where("id = ? AND business_id = ? AND quantity = ?", sale.ProductID, businessID, expectedQuantity).
			Updates(map[string]interface{}{
				"quantity":  remaining,
				"sold":      remaining == 0,
				"sale_date": sale.Date,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainRepo.ErrStockConflict
		}

		return tx.Omit(clause.Associations).Create(sale).Error
	})
	return translateError(err)
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).Scopes(BusinessScope(ctx)).
		Preload("Product").Preload("Branch").Preload("Customer").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, error) {
	var sales []entity.Sale

	query := r.db.WithContext(ctx).Model(&entity.Sale{}).Scopes(BusinessScope(ctx))

	if params.Start != nil {
		query = query.Where("date >= ?", *params.Start)
	}
	if params.End != nil {
		query = query.Where("date <= ?", *params.End)
	}
	if params.BranchID != nil {
		query = query.Where("branch_id = ?", *params.BranchID)
	}
	if params.ProductID != nil {
		query = query.Where("product_id = ?", *params.ProductID)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if !params.Bare {
		query = query.Preload("Product").Preload("Branch").Preload("Customer")
	}

	err := query.Order("date DESC").Find(&sales).Error
	return sales, err
}
