package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	domainRepo "github.com/sangkips/dukahub-api/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

var productSortColumns = map[string]string{
	"name":       "name",
	"brand":      "brand",
	"price":      "price",
	"quantity":   "quantity",
	"created_at": "created_at",
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return translateError(r.db.WithContext(ctx).Create(product).Error)
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).Scopes(BusinessScope(ctx)).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// GetByIDs retrieves multiple products by their IDs in a single query
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := r.db.WithContext(ctx).Scopes(BusinessScope(ctx)).
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

// Update issues UPDATE ... SET <columns> WHERE id = ? AND business_id = ?
// [AND quantity = <expected>] so stock a concurrent sale just took off is
// never written back.
func (r *productRepository) Update(ctx context.Context, product *entity.Product, update domainRepo.ProductUpdate) error {
	if len(update.Columns) == 0 {
		return nil
	}

	columns := append(append([]string{}, update.Columns...), "updated_at")
	query := r.db.WithContext(ctx).Model(product).Scopes(BusinessScope(ctx)).Select(columns)
	if update.ExpectedQuantity != nil {
		query = query.Where("quantity = ?", *update.ExpectedQuantity)
	}

	result := query.Updates(product)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 && update.ExpectedQuantity != nil {
		return domainRepo.ErrStockConflict
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(BusinessScope(ctx)).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, error) {
	var products []entity.Product

	query := r.db.WithContext(ctx).Model(&entity.Product{}).Scopes(BusinessScope(ctx))

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR brand ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Brand != "" {
		query = query.Where("brand = ?", params.Brand)
	}

	if params.InStock != nil {
		if *params.InStock {
			query = query.Where("quantity > 0")
		} else {
			query = query.Where("quantity = 0")
		}
	}

	sortBy := "created_at"
	if col, ok := productSortColumns[params.SortBy]; ok {
		sortBy = col
	}
	sortOrder := "DESC"
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	err := query.Order(sortBy + " " + sortOrder).Find(&products).Error
	return products, err
}

func (r *productRepository) GetLowStock(ctx context.Context, threshold int) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).Scopes(BusinessScope(ctx)).
		Where("quantity < ?", threshold).
		Order("quantity ASC, name ASC").
		Find(&products).Error
	return products, err
}
