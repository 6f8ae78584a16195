package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/graphql-crm/internal/apperr"
	"github.com/tuanvumaihuynh/graphql-crm/internal/event"
	"github.com/tuanvumaihuynh/graphql-crm/internal/filter"
	"github.com/tuanvumaihuynh/graphql-crm/internal/model"
	"github.com/tuanvumaihuynh/graphql-crm/internal/pagination"
	"github.com/tuanvumaihuynh/graphql-crm/internal/repository"
	"github.com/tuanvumaihuynh/graphql-crm/internal/storage/db"
	"github.com/tuanvumaihuynh/graphql-crm/pkg/validator"
)

type CreateCustomerParams struct {
	Name  string  `json:"name" validate:"required,max=100"`
	Email string  `json:"email" validate:"required,email,max=254"`
	Phone *string `json:"phone"`
}

type BulkCreateCustomersResult struct {
	Customers []model.Customer
	// Errors holds one message per rejected item, in input order.
	Errors []string
}

type ListCustomersParams struct {
	Filter  filter.CustomerFilter
	OrderBy []string
	Page    pagination.Args
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, params CreateCustomerParams) (model.Customer, error)
	// BulkCreateCustomers creates the valid items in one transaction and
	// reports why the others were skipped. It fails only when no item could
	// be created.
	BulkCreateCustomers(ctx context.Context, params []CreateCustomerParams) (BulkCreateCustomersResult, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (model.Customer, error)
	ListCustomers(ctx context.Context, params ListCustomersParams) (pagination.Page[model.Customer], error)
}

type customerService struct {
	db            db.DB
	validator     validator.Validator
	limits        pagination.Limits
	customerRepo  repository.CustomerRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewCustomerService(
	db db.DB,
	validator validator.Validator,
	limits pagination.Limits,
	customerRepo repository.CustomerRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) CustomerService {
	return &customerService{
		db:            db,
		validator:     validator,
		limits:        limits,
		customerRepo:  customerRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, params CreateCustomerParams) (model.Customer, error) {
	var customer model.Customer
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		var err error
		customer, err = s.createCustomer(ctx, db, params, func(string) error { return apperr.ErrEmailExists })
		return err
	}); err != nil {
		return model.Customer{}, fmt.Errorf("db with tx: %w", err)
	}

	return customer, nil
}

func (s *customerService) BulkCreateCustomers(ctx context.Context, params []CreateCustomerParams) (BulkCreateCustomersResult, error) {
	var result BulkCreateCustomersResult
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		for _, p := range params {
			var customer model.Customer
			err := tx.WithTx(ctx, func(sp db.DB) error {
				var err error
				customer, err = s.createCustomer(ctx, sp, p, apperr.EmailAlreadyExists)
				return err
			})
			if err != nil {
				if !apperr.IsClientError(err) {
					return err
				}
				result.Errors = append(result.Errors, apperr.Message(err))
				continue
			}

			result.Customers = append(result.Customers, customer)
		}

		if len(result.Customers) == 0 && len(result.Errors) > 0 {
			return apperr.BulkCreateFailed(result.Errors)
		}

		return nil
	}); err != nil {
		return BulkCreateCustomersResult{}, fmt.Errorf("db with tx: %w", err)
	}

	return result, nil
}

// createCustomer validates and stores one customer within d. emailTaken
// builds the error reported for an email that is already registered.
func (s *customerService) createCustomer(
	ctx context.Context,
	d db.DB,
	params CreateCustomerParams,
	emailTaken func(email string) error,
) (model.Customer, error) {
	if params.Phone != nil && *params.Phone == "" {
		params.Phone = nil
	}

	if err := validate(s.validator, params); err != nil {
		return model.Customer{}, err
	}

	customerRepo := s.customerRepo.WithDB(d)

	exists, err := customerRepo.ExistsCustomerByEmail(ctx, params.Email)
	if err != nil {
		return model.Customer{}, fmt.Errorf("customer repository exists customer by email: %w", err)
	}
	if exists {
		return model.Customer{}, emailTaken(params.Email)
	}

	if params.Phone != nil && !validator.IsPhone(*params.Phone) {
		return model.Customer{}, apperr.ErrInvalidPhone
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Customer{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	customer := model.Customer{
		ID:        id,
		Name:      params.Name,
		Email:     params.Email,
		Phone:     params.Phone,
		CreatedAt: model.Now(),
	}

	if err := customerRepo.CreateCustomer(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return model.Customer{}, emailTaken(params.Email)
		}
		return model.Customer{}, fmt.Errorf("customer repository create customer: %w", err)
	}

	if err := repository.WriteEvent(ctx, s.outboxMsgRepo.WithDB(d),
		event.TopicCustomerCreated, customer.ID.String(), event.NewCustomerCreatedEvent(customer),
	); err != nil {
		return model.Customer{}, err
	}

	return customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id uuid.UUID) (model.Customer, error) {
	customer, err := s.customerRepo.GetCustomer(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Customer{}, apperr.CustomerNotFound(id.String())
		}
		return model.Customer{}, fmt.Errorf("customer repository get customer: %w", err)
	}

	return customer, nil
}

func (s *customerService) ListCustomers(ctx context.Context, params ListCustomersParams) (pagination.Page[model.Customer], error) {
	ordering, err := filter.CustomerOrdering(params.OrderBy)
	if err != nil {
		return pagination.Page[model.Customer]{}, err
	}

	query, err := pagination.NewQuery(ordering, params.Page, s.limits)
	if err != nil {
		return pagination.Page[model.Customer]{}, err
	}

	page, err := s.customerRepo.ListCustomers(ctx, repository.ListCustomersParams{
		Filter: params.Filter,
		Query:  query,
	})
	if err != nil {
		return pagination.Page[model.Customer]{}, fmt.Errorf("customer repository list customers: %w", err)
	}

	return page, nil
}
