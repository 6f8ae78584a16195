package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/graphql-crm/internal/filter"
	"github.com/tuanvumaihuynh/graphql-crm/internal/model"
	"github.com/tuanvumaihuynh/graphql-crm/internal/pagination"
	"github.com/tuanvumaihuynh/graphql-crm/internal/storage/db"
)

type ListCustomersParams struct {
	Filter filter.CustomerFilter
	Query  pagination.Query[model.Customer]
}

type CustomerRepository interface {
	WithDB(db db.DB) CustomerRepository
	CreateCustomer(ctx context.Context, customer model.Customer) error
	ExistsCustomerByEmail(ctx context.Context, email string) (bool, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (model.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (model.Customer, error)
	ListCustomers(ctx context.Context, params ListCustomersParams) (pagination.Page[model.Customer], error)
}

type customerRepository struct {
	db db.DB
}

func NewCustomerRepository(db db.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r customerRepository) WithDB(db db.DB) CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `c.id, c.name, c.email, c.phone, c.created_at`

func (r customerRepository) CreateCustomer(ctx context.Context, customer model.Customer) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO customers (id, name, email, phone, created_at)
		VALUES (@id, @name, @email, @phone, @created_at)
	`, pgx.NamedArgs{
		"id":         customer.ID,
		"name":       customer.Name,
		"email":      customer.Email,
		"phone":      customer.Phone,
		"created_at": customer.CreatedAt,
	})
	if err != nil {
		if isUniqueViolation(err, customerEmailUniqueKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create customer: %w", err)
	}

	return nil
}

func (r customerRepository) ExistsCustomerByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM customers WHERE email = @email)`,
		pgx.NamedArgs{"email": email},
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists customer by email: %w", err)
	}

	return exists, nil
}

func (r customerRepository) GetCustomer(ctx context.Context, id uuid.UUID) (model.Customer, error) {
	return r.getOne(ctx, `c.id = @key`, id)
}

func (r customerRepository) GetCustomerByEmail(ctx context.Context, email string) (model.Customer, error) {
	return r.getOne(ctx, `c.email = @key`, email)
}

func (r customerRepository) getOne(ctx context.Context, cond string, key any) (model.Customer, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+customerColumns+` FROM customers AS c WHERE `+cond,
		pgx.NamedArgs{"key": key},
	)
	if err != nil {
		return model.Customer{}, fmt.Errorf("get customer: %w", err)
	}

	customer, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[model.Customer])
	if err != nil {
		return model.Customer{}, fmt.Errorf("get customer: %w", notFound(err))
	}

	return customer, nil
}

func (r customerRepository) ListCustomers(ctx context.Context, params ListCustomersParams) (pagination.Page[model.Customer], error) {
	page, err := selectPage(ctx, r.db,
		`SELECT `+customerColumns+` FROM customers AS c`,
		params.Filter.Predicate(),
		params.Query,
		pgx.RowToStructByPos[model.Customer],
	)
	if err != nil {
		return pagination.Page[model.Customer]{}, fmt.Errorf("list customers: %w", err)
	}

	return page, nil
}
