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

type ListOrdersParams struct {
	Filter filter.OrderFilter
	Query  pagination.Query[model.Order]
}

type OrderRepository interface {
	WithDB(db db.DB) OrderRepository
	// CreateOrder stores the order and links it to order.Products.
	CreateOrder(ctx context.Context, order model.Order) error
	// GetOrder returns the order with its customer and products loaded.
	GetOrder(ctx context.Context, id uuid.UUID) (model.Order, error)
	// ListOrders returns a page of orders with customers and products loaded.
	ListOrders(ctx context.Context, params ListOrdersParams) (pagination.Page[model.Order], error)
}

type orderRepository struct {
	db db.DB
}

func NewOrderRepository(db db.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r orderRepository) WithDB(db db.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderSelect = `
	SELECT o.id, o.customer_id, o.total_amount, o.order_date,
	       c.id, c.name, c.email, c.phone, c.created_at
	FROM orders AS o
	JOIN customers AS c ON c.id = o.customer_id`

func scanOrder(row pgx.CollectableRow) (model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.TotalAmount, &o.OrderDate,
		&o.Customer.ID, &o.Customer.Name, &o.Customer.Email, &o.Customer.Phone, &o.Customer.CreatedAt,
	)
	return o, err
}

func (r orderRepository) CreateOrder(ctx context.Context, order model.Order) error {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO orders (id, customer_id, total_amount, order_date)
		VALUES (@id, @customer_id, @total_amount, @order_date)
	`, pgx.NamedArgs{
		"id":           order.ID,
		"customer_id":  order.CustomerID,
		"total_amount": order.TotalAmount,
		"order_date":   order.OrderDate,
	}); err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	rows := make([][]any, 0, len(order.Products))
	for _, p := range order.Products {
		rows = append(rows, []any{order.ID, p.ID})
	}
	if _, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"order_products"},
		[]string{"order_id", "product_id"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("link order products: %w", err)
	}

	return nil
}

func (r orderRepository) GetOrder(ctx context.Context, id uuid.UUID) (model.Order, error) {
	rows, err := r.db.Query(ctx, orderSelect+` WHERE o.id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return model.Order{}, fmt.Errorf("get order: %w", err)
	}

	order, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		return model.Order{}, fmt.Errorf("get order: %w", notFound(err))
	}

	orders := []model.Order{order}
	if err := r.loadProducts(ctx, orders); err != nil {
		return model.Order{}, err
	}

	return orders[0], nil
}

func (r orderRepository) ListOrders(ctx context.Context, params ListOrdersParams) (pagination.Page[model.Order], error) {
	page, err := selectPage(ctx, r.db, orderSelect, params.Filter.Predicate(), params.Query, scanOrder)
	if err != nil {
		return pagination.Page[model.Order]{}, fmt.Errorf("list orders: %w", err)
	}

	if err := r.loadProducts(ctx, page.Items); err != nil {
		return pagination.Page[model.Order]{}, err
	}

	return page, nil
}

// loadProducts fills the Products of every order with a single query.
func (r orderRepository) loadProducts(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(orders))
	index := make(map[uuid.UUID]int, len(orders))
	for i, o := range orders {
		ids = append(ids, o.ID)
		index[o.ID] = i
		orders[i].Products = []model.Product{}
	}

	rows, err := r.db.Query(ctx, `
		SELECT op.order_id, p.id, p.name, p.price, p.stock
		FROM order_products AS op
		JOIN products AS p ON p.id = op.product_id
		WHERE op.order_id = ANY(@ids)
		ORDER BY p.name, p.id
	`, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return fmt.Errorf("load order products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID uuid.UUID
			p       model.Product
		)
		if err := rows.Scan(&orderID, &p.ID, &p.Name, &p.Price, &p.Stock); err != nil {
			return fmt.Errorf("scan order product: %w", err)
		}
		i := index[orderID]
		orders[i].Products = append(orders[i].Products, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load order products: %w", err)
	}

	return nil
}
