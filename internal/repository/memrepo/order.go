package memrepo

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/graphql-crm/internal/model"
	"github.com/tuanvumaihuynh/graphql-crm/internal/pagination"
	"github.com/tuanvumaihuynh/graphql-crm/internal/repository"
	"github.com/tuanvumaihuynh/graphql-crm/internal/storage/db"
)

var _ repository.OrderRepository = (*OrderRepository)(nil)

type OrderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) WithDB(db.DB) repository.OrderRepository {
	return r
}

func (r *OrderRepository) CreateOrder(_ context.Context, order model.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if !slices.ContainsFunc(r.store.customers, func(c model.Customer) bool { return c.ID == order.CustomerID }) {
		return fmt.Errorf("create order: customer %s: %w", order.CustomerID, repository.ErrNotFound)
	}

	stored := storedOrder{Order: order, productIDs: order.ProductIDs()}
	stored.Customer = model.Customer{}
	stored.Products = nil
	r.store.orders = append(r.store.orders, stored)
	return nil
}

func (r *OrderRepository) GetOrder(_ context.Context, id uuid.UUID) (model.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, o := range r.store.orders {
		if o.ID == id {
			return r.materialize(o), nil
		}
	}
	return model.Order{}, repository.ErrNotFound
}

func (r *OrderRepository) ListOrders(_ context.Context, params repository.ListOrdersParams) (pagination.Page[model.Order], error) {
	pred := params.Filter.Predicate()

	r.store.mu.Lock()
	matched := make([]model.Order, 0, len(r.store.orders))
	for _, o := range r.store.orders {
		if order := r.materialize(o); pred.Match(order) {
			matched = append(matched, order)
		}
	}
	r.store.mu.Unlock()

	return params.Query.Apply(matched), nil
}

// materialize joins the customer and products of o. The store lock must be held.
func (r *OrderRepository) materialize(o storedOrder) model.Order {
	order := o.Order
	for _, c := range r.store.customers {
		if c.ID == order.CustomerID {
			order.Customer = c
			break
		}
	}

	order.Products = make([]model.Product, 0, len(o.productIDs))
	for _, p := range r.store.products {
		if slices.Contains(o.productIDs, p.ID) {
			order.Products = append(order.Products, p)
		}
	}
	slices.SortFunc(order.Products, func(a, b model.Product) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID.String(), b.ID.String()))
	})

	return order
}
