package filter

import (
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/graphql-crm/internal/model"
	"github.com/tuanvumaihuynh/graphql-crm/internal/pagination"
)

// OrderFilter filters orders. Its SQL refers to the orders table as o and
// to the joined customers table as c.
type OrderFilter struct {
	CustomerName *string
	ProductName  *string
	TotalAmount  DecimalRange
	OrderDate    TimeRange
}

func (f OrderFilter) Predicate() Predicate[model.Order] {
	var p Predicate[model.Order]
	p = containsFold(p, "c.name", "customer_name", f.CustomerName, func(o model.Order) string { return o.Customer.Name })
	p = productNameContains(p, f.ProductName)
	p = decimalRange(p, "o.total_amount", "total_amount", f.TotalAmount, func(o model.Order) decimal.Decimal { return o.TotalAmount })
	p = timeRange(p, "o.order_date", "order_date", f.OrderDate, func(o model.Order) time.Time { return o.OrderDate })
	return p
}

// productNameContains matches orders holding at least one product whose name
// contains the value. EXISTS keeps each order once however many products match.
func productNameContains(p Predicate[model.Order], value *string) Predicate[model.Order] {
	if value == nil || *value == "" {
		return p
	}
	needle := strings.ToLower(*value)
	return p.And(
		`EXISTS (SELECT 1 FROM order_products AS op JOIN products AS p ON p.id = op.product_id `+
			`WHERE op.order_id = o.id AND p.name ILIKE @product_name)`,
		pgx.NamedArgs{"product_name": "%" + escapeLike(*value) + "%"},
		func(o model.Order) bool {
			return slices.ContainsFunc(o.Products, func(pr model.Product) bool {
				return strings.Contains(strings.ToLower(pr.Name), needle)
			})
		},
	)
}

var orderColumns = map[string]pagination.Column[model.Order]{
	"id": {
		Expr: "o.id", Type: pagination.UUID,
		Value: func(o model.Order) string { return o.ID.String() },
	},
	"total_amount": {
		Expr: "o.total_amount", Type: pagination.Numeric,
		Value: func(o model.Order) string { return o.TotalAmount.String() },
	},
	"order_date": {
		Expr: "o.order_date", Type: pagination.Timestamp,
		Value: func(o model.Order) string { return pagination.FormatTime(o.OrderDate) },
	},
}

// OrderOrdering parses orderBy fields for order lists.
func OrderOrdering(fields []string) (pagination.Ordering[model.Order], error) {
	return pagination.ParseOrdering(orderColumns, fields)
}
