package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/graphql-crm/internal/apperr"
	"github.com/tuanvumaihuynh/graphql-crm/internal/event"
	"github.com/tuanvumaihuynh/graphql-crm/internal/filter"
	"github.com/tuanvumaihuynh/graphql-crm/internal/model"
	"github.com/tuanvumaihuynh/graphql-crm/internal/pagination"
	"github.com/tuanvumaihuynh/graphql-crm/internal/repository"
	"github.com/tuanvumaihuynh/graphql-crm/internal/storage/db"
	"github.com/tuanvumaihuynh/graphql-crm/pkg/validator"
)

// maxPrice is the first value numeric(10,2) cannot hold.
var maxPrice = decimal.New(1, 8)

type CreateProductParams struct {
	Name  string          `json:"name" validate:"required,max=100"`
	Price decimal.Decimal `json:"price"`
	Stock *int            `json:"stock"`
}

type ListProductsParams struct {
	Filter  filter.ProductFilter
	OrderBy []string
	Page    pagination.Args
}

type ProductService interface {
	CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) (pagination.Page[model.Product], error)
}

type productService struct {
	db            db.DB
	validator     validator.Validator
	limits        pagination.Limits
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewProductService(
	db db.DB,
	validator validator.Validator,
	limits pagination.Limits,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) ProductService {
	return &productService{
		db:            db,
		validator:     validator,
		limits:        limits,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (s *productService) CreateProduct(ctx context.Context, params CreateProductParams) (model.Product, error) {
	if err := validate(s.validator, params); err != nil {
		return model.Product{}, err
	}

	if !params.Price.IsPositive() {
		return model.Product{}, apperr.ErrPriceNotPositive
	}
	// Prices are stored with two decimal places.
	price := params.Price.Round(2)
	if price.IsZero() {
		return model.Product{}, apperr.ErrPriceBelowMinimum
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return model.Product{}, apperr.ErrPriceOutOfRange
	}

	stock := 0
	if params.Stock != nil {
		stock = *params.Stock
	}
	if stock < 0 {
		return model.Product{}, apperr.ErrStockNegative
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	product := model.Product{
		ID:    id,
		Name:  params.Name,
		Price: price,
		Stock: stock,
	}

	if err := s.db.WithTx(ctx, func(db db.DB) error {
		if err := s.productRepo.
			WithDB(db).
			CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("product repository create product: %w", err)
		}

		return repository.WriteEvent(ctx, s.outboxMsgRepo.WithDB(db),
			event.TopicProductCreated, product.ID.String(), event.NewProductCreatedEvent(product))
	}); err != nil {
		return model.Product{}, fmt.Errorf("db with tx: %w", err)
	}

	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Product{}, apperr.ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, params ListProductsParams) (pagination.Page[model.Product], error) {
	ordering, err := filter.ProductOrdering(params.OrderBy)
	if err != nil {
		return pagination.Page[model.Product]{}, err
	}

	query, err := pagination.NewQuery(ordering, params.Page, s.limits)
	if err != nil {
		return pagination.Page[model.Product]{}, err
	}

	page, err := s.productRepo.ListProducts(ctx, repository.ListProductsParams{
		Filter: params.Filter,
		Query:  query,
	})
	if err != nil {
		return pagination.Page[model.Product]{}, fmt.Errorf("product repository list products: %w", err)
	}

	return page, nil
}
