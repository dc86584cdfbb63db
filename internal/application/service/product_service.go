package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/config"
	"github.com/sangkips/dukahub-api/internal/domain/analytics"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/sangkips/dukahub-api/internal/domain/repository"
	"github.com/sangkips/dukahub-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

var errStockEdited = apperror.NewConflictError("Stock changed since the product was loaded, reload and retry")

// ProductService handles product-related operations
type ProductService struct {
	productRepo  repository.ProductRepository
	businessRepo repository.BusinessRepository
	analytics    config.AnalyticsConfig
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	businessRepo repository.BusinessRepository,
	analyticsCfg config.AnalyticsConfig,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		businessRepo: businessRepo,
		analytics:    analyticsCfg,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name      string
	Brand     string
	Price     decimal.Decimal
	CostPrice decimal.Decimal
	Quantity  int
}

// CreateProduct creates a new product. Its stock high-water mark starts at
// the initial quantity.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	bizID, err := businessID(ctx)
	if err != nil {
		return nil, err
	}

	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	fieldErrors = append(fieldErrors, validatePricing(input.Price, input.CostPrice, input.Quantity)...)
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	product := &entity.Product{
		BusinessID: bizID,
		Name:       strings.TrimSpace(input.Name),
		Brand:      strings.TrimSpace(input.Brand),
		Price:      input.Price,
		CostPrice:  input.CostPrice,
	}
	product.Restock(input.Quantity)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, error) {
	products, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []entity.Product{}
	}
	return products, nil
}

// UpdateProductInput represents the update product input. Nil fields are
// left unchanged.
type UpdateProductInput struct {
	ID        uuid.UUID
	Name      *string
	Brand     *string
	Price     *decimal.Decimal
	CostPrice *decimal.Decimal
	Quantity  *int
}

// UpdateProduct writes only the supplied fields. A new quantity raises the
// stock high-water mark when it exceeds it and never lowers it, and is only
// applied while the stock is still what was read; a sale in between is a 409.
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	price, cost, quantity := product.Price, product.CostPrice, product.Quantity
	if input.Price != nil {
		price = *input.Price
	}
	if input.CostPrice != nil {
		cost = *input.CostPrice
	}
	if input.Quantity != nil {
		quantity = *input.Quantity
	}

	fieldErrors := validatePricing(price, cost, quantity)
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	var update repository.ProductUpdate
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
		update.Columns = append(update.Columns, "name")
	}
	if input.Brand != nil {
		product.Brand = strings.TrimSpace(*input.Brand)
		update.Columns = append(update.Columns, "brand")
	}
	if input.Price != nil {
		product.Price = price
		update.Columns = append(update.Columns, "price")
	}
	if input.CostPrice != nil {
		product.CostPrice = cost
		update.Columns = append(update.Columns, "cost_price")
	}
	if input.Quantity != nil {
		read := product.Quantity
		product.Restock(quantity)
		update.Columns = append(update.Columns, "quantity", "available_quantity", "sold")
		update.ExpectedQuantity = &read
	}

	if err := s.productRepo.Update(ctx, product, update); err != nil {
		if errors.Is(err, repository.ErrStockConflict) {
			return nil, errStockEdited
		}
		return nil, err
	}

	if fresh, err := s.productRepo.GetByID(ctx, product.ID); err == nil && fresh != nil {
		return fresh, nil
	}
	return product, nil
}

// DeleteProduct deletes a product together with its sales
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// LowStockResult lists the products below Threshold
type LowStockResult struct {
	Threshold int              `json:"threshold"`
	Count     int              `json:"count"`
	Products  []entity.Product `json:"products"`
}

// GetLowStock lists products whose stock is below the threshold. override
// takes precedence over the business setting and the configured default.
func (s *ProductService) GetLowStock(ctx context.Context, override *int) (*LowStockResult, error) {
	bizID, err := businessID(ctx)
	if err != nil {
		return nil, err
	}

	business, err := s.businessRepo.GetByID(ctx, bizID)
	if err != nil {
		return nil, err
	}
	threshold := lowStockThreshold(override, business, s.analytics)

	products, err := s.productRepo.GetLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	products = analytics.LowStock(products, threshold)

	return &LowStockResult{
		Threshold: threshold,
		Count:     len(products),
		Products:  products,
	}, nil
}

func validatePricing(price, cost decimal.Decimal, quantity int) []apperror.FieldError {
	var fieldErrors []apperror.FieldError
	if price.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "price", Message: "Price cannot be negative"})
	}
	if cost.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "cost_price", Message: "Cost price cannot be negative"})
	}
	if quantity < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "quantity", Message: "Quantity cannot be negative"})
	}
	return fieldErrors
}
