package memrepo

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/graphql-crm/internal/model"
	"github.com/tuanvumaihuynh/graphql-crm/internal/pagination"
	"github.com/tuanvumaihuynh/graphql-crm/internal/repository"
	"github.com/tuanvumaihuynh/graphql-crm/internal/storage/db"
)

var _ repository.CustomerRepository = (*CustomerRepository)(nil)

type CustomerRepository struct {
	store *Store
}

func NewCustomerRepository(store *Store) *CustomerRepository {
	return &CustomerRepository{store: store}
}

func (r *CustomerRepository) WithDB(db.DB) repository.CustomerRepository {
	return r
}

func (r *CustomerRepository) CreateCustomer(_ context.Context, customer model.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, c := range r.store.customers {
		if c.Email == customer.Email {
			return repository.ErrEmailTaken
		}
	}
	r.store.customers = append(r.store.customers, customer)
	return nil
}

func (r *CustomerRepository) ExistsCustomerByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetCustomerByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

func (r *CustomerRepository) GetCustomer(_ context.Context, id uuid.UUID) (model.Customer, error) {
	return r.find(func(c model.Customer) bool { return c.ID == id })
}

func (r *CustomerRepository) GetCustomerByEmail(_ context.Context, email string) (model.Customer, error) {
	return r.find(func(c model.Customer) bool { return c.Email == email })
}

func (r *CustomerRepository) find(match func(model.Customer) bool) (model.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, c := range r.store.customers {
		if match(c) {
			return c, nil
		}
	}
	return model.Customer{}, repository.ErrNotFound
}

func (r *CustomerRepository) ListCustomers(_ context.Context, params repository.ListCustomersParams) (pagination.Page[model.Customer], error) {
	pred := params.Filter.Predicate()

	r.store.mu.Lock()
	matched := make([]model.Customer, 0, len(r.store.customers))
	for _, c := range r.store.customers {
		if pred.Match(c) {
			matched = append(matched, c)
		}
	}
	r.store.mu.Unlock()

	return params.Query.Apply(matched), nil
}
