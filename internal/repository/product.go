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

type ListProductsParams struct {
	Filter filter.ProductFilter
	Query  pagination.Query[model.Product]
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, product model.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	// GetProductByName returns the earliest product with the given name.
	GetProductByName(ctx context.Context, name string) (model.Product, error)
	// ListProductsByIDs returns the products that exist among ids, in no
	// particular order.
	ListProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) (pagination.Page[model.Product], error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `p.id, p.name, p.price, p.stock`

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO products (id, name, price, stock)
		VALUES (@id, @name, @price, @stock)
	`, pgx.NamedArgs{
		"id":    product.ID,
		"name":  product.Name,
		"price": product.Price,
		"stock": product.Stock,
	}); err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r productRepository) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	return r.getOne(ctx, `p.id = @key`, id)
}

func (r productRepository) GetProductByName(ctx context.Context, name string) (model.Product, error) {
	return r.getOne(ctx, `p.name = @key ORDER BY p.id LIMIT 1`, name)
}

func (r productRepository) getOne(ctx context.Context, cond string, key any) (model.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products AS p WHERE `+cond,
		pgx.NamedArgs{"key": key},
	)
	if err != nil {
		return model.Product{}, fmt.Errorf("get product: %w", err)
	}

	product, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[model.Product])
	if err != nil {
		return model.Product{}, fmt.Errorf("get product: %w", notFound(err))
	}

	return product, nil
}

func (r productRepository) ListProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products AS p WHERE p.id = ANY(@ids)`,
		pgx.NamedArgs{"ids": ids},
	)
	if err != nil {
		return nil, fmt.Errorf("list products by ids: %w", err)
	}

	products, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.Product])
	if err != nil {
		return nil, fmt.Errorf("list products by ids: %w", err)
	}

	return products, nil
}

func (r productRepository) ListProducts(ctx context.Context, params ListProductsParams) (pagination.Page[model.Product], error) {
	page, err := selectPage(ctx, r.db,
		`SELECT `+productColumns+` FROM products AS p`,
		params.Filter.Predicate(),
		params.Query,
		pgx.RowToStructByPos[model.Product],
	)
	if err != nil {
		return pagination.Page[model.Product]{}, fmt.Errorf("list products: %w", err)
	}

	return page, nil
}
