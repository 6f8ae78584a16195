package memrepo

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/graphql-crm/internal/model"
	"github.com/tuanvumaihuynh/graphql-crm/internal/pagination"
	"github.com/tuanvumaihuynh/graphql-crm/internal/repository"
	"github.com/tuanvumaihuynh/graphql-crm/internal/storage/db"
)

var _ repository.ProductRepository = (*ProductRepository)(nil)

type ProductRepository struct {
	store *Store
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) WithDB(db.DB) repository.ProductRepository {
	return r
}

func (r *ProductRepository) CreateProduct(_ context.Context, product model.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.products = append(r.store.products, product)
	return nil
}

func (r *ProductRepository) GetProduct(_ context.Context, id uuid.UUID) (model.Product, error) {
	return r.find(func(p model.Product) bool { return p.ID == id })
}

func (r *ProductRepository) GetProductByName(_ context.Context, name string) (model.Product, error) {
	return r.find(func(p model.Product) bool { return p.Name == name })
}

func (r *ProductRepository) find(match func(model.Product) bool) (model.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, p := range r.store.products {
		if match(p) {
			return p, nil
		}
	}
	return model.Product{}, repository.ErrNotFound
}

func (r *ProductRepository) ListProductsByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	products := make([]model.Product, 0, len(ids))
	for _, p := range r.store.products {
		if slices.Contains(ids, p.ID) {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *ProductRepository) ListProducts(_ context.Context, params repository.ListProductsParams) (pagination.Page[model.Product], error) {
	pred := params.Filter.Predicate()

	r.store.mu.Lock()
	matched := make([]model.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		if pred.Match(p) {
			matched = append(matched, p)
		}
	}
	r.store.mu.Unlock()

	return params.Query.Apply(matched), nil
}
