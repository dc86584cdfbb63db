package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/sangkips/dukahub-api/internal/domain/repository"
	"github.com/sangkips/dukahub-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// SaleService records and lists sales
type SaleService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	branchRepo   repository.BranchRepository
	customerRepo repository.CustomerRepository
	now          func() time.Time
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	customerRepo repository.CustomerRepository,
) *SaleService {
	return &SaleService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		branchRepo:   branchRepo,
		customerRepo: customerRepo,
		now:          time.Now,
	}
}

// RecordSaleInput represents a sale at an explicitly entered unit price
type RecordSaleInput struct {
	ProductID  uuid.UUID
	BranchID   uuid.UUID
	CustomerID *uuid.UUID
	Quantity   int
	SalePrice  decimal.Decimal
	Date       *time.Time
}

// RecordSale validates the sale, then writes it and decrements the
// product's stock in one transaction. A concurrent sale of the same product
// that commits first turns this one into a conflict instead of overselling.
func (s *SaleService) RecordSale(ctx context.Context, input *RecordSaleInput) (*entity.Sale, error) {
	bizID, err := businessID(ctx)
	if err != nil {
		return nil, err
	}

	var fieldErrors []apperror.FieldError
	if input.Quantity <= 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "quantity", Message: "Quantity must be a positive whole number"})
	}
	if !input.SalePrice.IsPositive() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "sale_price", Message: "Sale price must be greater than zero"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	branch, err := s.branchRepo.GetByID(ctx, input.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, apperror.NewNotFoundError("Branch")
	}

	var customer *entity.Customer
	if input.CustomerID != nil {
		customer, err = s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	if input.Quantity > product.Quantity {
		return nil, apperror.NewFieldError("quantity", "Quantity exceeds available stock")
	}

	date := s.now()
	if input.Date != nil {
		date = *input.Date
	}

	sale := &entity.Sale{
		BusinessID: bizID,
		ProductID:  product.ID,
		BranchID:   branch.ID,
		CustomerID: input.CustomerID,
		Quantity:   input.Quantity,
		Total:      input.SalePrice.Mul(decimal.NewFromInt(int64(input.Quantity))),
		Date:       date,
	}

	if err := s.saleRepo.CreateWithStockDecrement(ctx, sale, product.Quantity); err != nil {
		if errors.Is(err, repository.ErrStockConflict) {
			return nil, apperror.ErrStockConflict
		}
		return nil, err
	}

	remaining := product.Quantity - sale.Quantity
	product.Quantity = remaining
	product.Sold = remaining == 0
	product.SaleDate = &sale.Date
	sale.Product = product
	sale.Branch = branch
	sale.Customer = customer

	return sale, nil
}

// GetSale retrieves a sale by ID
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales newest first
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) ([]entity.Sale, error) {
	if params.Start != nil && params.End != nil && params.End.Before(*params.Start) {
		return nil, apperror.NewFieldError("end", "End date is before start date")
	}
	sales, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	if sales == nil {
		sales = []entity.Sale{}
	}
	return sales, nil
}
