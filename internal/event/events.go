package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/graphql-crm/internal/model"
)

const (
	TopicCustomerCreated = "crm.customer.created"
	TopicProductCreated  = "crm.product.created"
	TopicOrderCreated    = "crm.order.created"
)

type CustomerCreatedEvent struct {
	CustomerID string    `json:"customer_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewCustomerCreatedEvent(c model.Customer) CustomerCreatedEvent {
	return CustomerCreatedEvent{
		CustomerID: c.ID.String(),
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		CreatedAt:  c.CreatedAt,
	}
}

type ProductCreatedEvent struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
}

func NewProductCreatedEvent(p model.Product) ProductCreatedEvent {
	return ProductCreatedEvent{
		ProductID: p.ID.String(),
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
	}
}

type OrderCreatedEvent struct {
	OrderID     string          `json:"order_id"`
	CustomerID  string          `json:"customer_id"`
	ProductIDs  []string        `json:"product_ids"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OrderDate   time.Time       `json:"order_date"`
}

func NewOrderCreatedEvent(o model.Order) OrderCreatedEvent {
	ids := make([]string, 0, len(o.Products))
	for _, id := range o.ProductIDs() {
		ids = append(ids, id.String())
	}
	return OrderCreatedEvent{
		OrderID:     o.ID.String(),
		CustomerID:  o.CustomerID.String(),
		ProductIDs:  ids,
		TotalAmount: o.TotalAmount,
		OrderDate:   o.OrderDate,
	}
}
