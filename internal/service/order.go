package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/graphql-crm/internal/apperr"
	"github.com/tuanvumaihuynh/graphql-crm/internal/event"
	"github.com/tuanvumaihuynh/graphql-crm/internal/filter"
	"github.com/tuanvumaihuynh/graphql-crm/internal/model"
	"github.com/tuanvumaihuynh/graphql-crm/internal/nodeid"
	"github.com/tuanvumaihuynh/graphql-crm/internal/pagination"
	"github.com/tuanvumaihuynh/graphql-crm/internal/repository"
	"github.com/tuanvumaihuynh/graphql-crm/internal/storage/db"
)

// CreateOrderParams identifies the customer and products by raw UUID or by
// global ID.
type CreateOrderParams struct {
	CustomerID string
	ProductIDs []string
}

type ListOrdersParams struct {
	Filter  filter.OrderFilter
	OrderBy []string
	Page    pagination.Args
}

type OrderService interface {
	// CreateOrder stores an order for the customer over the given products.
	// Every product id must resolve and appear once. The total is the sum of
	// the current prices.
	CreateOrder(ctx context.Context, params CreateOrderParams) (model.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (model.Order, error)
	ListOrders(ctx context.Context, params ListOrdersParams) (pagination.Page[model.Order], error)
}

type orderService struct {
	db            db.DB
	limits        pagination.Limits
	customerRepo  repository.CustomerRepository
	productRepo   repository.ProductRepository
	orderRepo     repository.OrderRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func NewOrderService(
	db db.DB,
	limits pagination.Limits,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) OrderService {
	return &orderService{
		db:            db,
		limits:        limits,
		customerRepo:  customerRepo,
		productRepo:   productRepo,
		orderRepo:     orderRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, params CreateOrderParams) (model.Order, error) {
	if len(params.ProductIDs) == 0 {
		return model.Order{}, apperr.ErrEmptyOrder
	}

	customerID, err := nodeid.Parse(nodeid.Customer, params.CustomerID)
	if err != nil {
		return model.Order{}, apperr.CustomerNotFound(params.CustomerID)
	}

	var order model.Order
	if err := s.db.WithTx(ctx, func(db db.DB) error {
		customer, err := s.customerRepo.WithDB(db).GetCustomer(ctx, customerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.CustomerNotFound(params.CustomerID)
			}
			return fmt.Errorf("customer repository get customer: %w", err)
		}

		productIDs := make([]uuid.UUID, 0, len(params.ProductIDs))
		for _, raw := range params.ProductIDs {
			id, err := nodeid.Parse(nodeid.Product, raw)
			if err != nil {
				return apperr.ErrInvalidProductIDs
			}
			productIDs = append(productIDs, id)
		}

		products, err := s.productRepo.WithDB(db).ListProductsByIDs(ctx, productIDs)
		if err != nil {
			return fmt.Errorf("product repository list products by ids: %w", err)
		}
		// Each stored product comes back once, so a repeated id is caught here.
		if len(products) != len(params.ProductIDs) {
			return apperr.ErrInvalidProductIDs
		}
		slices.SortFunc(products, func(a, b model.Product) int {
			return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID.String(), b.ID.String()))
		})

		total := decimal.Zero
		for _, p := range products {
			total = total.Add(p.Price)
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate uuid v7: %w", err)
		}

		order = model.Order{
			ID:          id,
			CustomerID:  customer.ID,
			TotalAmount: total,
			OrderDate:   model.Now(),
			Customer:    customer,
			Products:    products,
		}

		if err := s.orderRepo.WithDB(db).CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("order repository create order: %w", err)
		}

		return repository.WriteEvent(ctx, s.outboxMsgRepo.WithDB(db),
			event.TopicOrderCreated, customer.ID.String(), event.NewOrderCreatedEvent(order))
	}); err != nil {
		return model.Order{}, fmt.Errorf("db with tx: %w", err)
	}

	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (model.Order, error) {
	order, err := s.orderRepo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Order{}, apperr.ErrOrderNotFound
		}
		return model.Order{}, fmt.Errorf("order repository get order: %w", err)
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, params ListOrdersParams) (pagination.Page[model.Order], error) {
	ordering, err := filter.OrderOrdering(params.OrderBy)
	if err != nil {
		return pagination.Page[model.Order]{}, err
	}

	query, err := pagination.NewQuery(ordering, params.Page, s.limits)
	if err != nil {
		return pagination.Page[model.Order]{}, err
	}

	page, err := s.orderRepo.ListOrders(ctx, repository.ListOrdersParams{
		Filter: params.Filter,
		Query:  query,
	})
	if err != nil {
		return pagination.Page[model.Order]{}, fmt.Errorf("order repository list orders: %w", err)
	}

	return page, nil
}
