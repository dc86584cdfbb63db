package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/sangkips/dukahub-api/internal/domain/enum"
	"github.com/sangkips/dukahub-api/internal/domain/repository"
	"github.com/sangkips/dukahub-api/pkg/apperror"
)

var errDefaultCustomer = apperror.NewAppError(http.StatusForbidden, "Default customers cannot be modified")

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name    string
	Phone   string
	Email   *string
	Address *string
	Notes   *string
	Type    enum.CustomerType
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	bizID, err := businessID(ctx)
	if err != nil {
		return nil, err
	}

	customerType := input.Type
	if customerType == "" {
		customerType = enum.CustomerTypeWalkIn
	}

	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if !customerType.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "type", Message: "Type must be walk-in or delivery"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	customer := &entity.Customer{
		BusinessID: bizID,
		Name:       strings.TrimSpace(input.Name),
		Phone:      strings.TrimSpace(input.Phone),
		Email:      input.Email,
		Address:    input.Address,
		Notes:      input.Notes,
		Type:       customerType,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers, defaults first
func (s *CustomerService) ListCustomers(ctx context.Context, params *repository.CustomerFilterParams) ([]entity.Customer, error) {
	if params.Type != "" && !params.Type.IsValid() {
		return nil, apperror.NewBadRequestError("Unknown customer type")
	}
	customers, err := s.customerRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []entity.Customer{}
	}
	return customers, nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	ID      uuid.UUID
	Name    *string
	Phone   *string
	Email   *string
	Address *string
	Notes   *string
	Type    *enum.CustomerType
}

// UpdateCustomer updates a customer. Default customers are read-only.
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if customer.IsDefault {
		return nil, errDefaultCustomer
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewFieldError("name", "Name is required")
		}
		customer.Name = name
	}
	if input.Phone != nil {
		customer.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.Notes != nil {
		customer.Notes = input.Notes
	}
	if input.Type != nil {
		if !input.Type.IsValid() {
			return nil, apperror.NewFieldError("type", "Type must be walk-in or delivery")
		}
		customer.Type = *input.Type
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer deletes a customer. Default customers cannot be deleted.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return err
	}
	if customer.IsDefault {
		return errDefaultCustomer
	}
	return s.customerRepo.Delete(ctx, id)
}
