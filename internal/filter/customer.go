package filter

import (
	"time"

	"github.com/tuanvumaihuynh/graphql-crm/internal/model"
	"github.com/tuanvumaihuynh/graphql-crm/internal/pagination"
)

// CustomerFilter filters customers. Its SQL refers to the customers table as c.
type CustomerFilter struct {
	Name      *string
	Email     *string
	CreatedAt TimeRange
}

func (f CustomerFilter) Predicate() Predicate[model.Customer] {
	var p Predicate[model.Customer]
	p = containsFold(p, "c.name", "name", f.Name, func(c model.Customer) string { return c.Name })
	p = containsFold(p, "c.email", "email", f.Email, func(c model.Customer) string { return c.Email })
	p = timeRange(p, "c.created_at", "created_at", f.CreatedAt, func(c model.Customer) time.Time { return c.CreatedAt })
	return p
}

var customerColumns = map[string]pagination.Column[model.Customer]{
	"id": {
		Expr: "c.id", Type: pagination.UUID,
		Value: func(c model.Customer) string { return c.ID.String() },
	},
	"name": {
		Expr: "c.name", Type: pagination.Text,
		Value: func(c model.Customer) string { return c.Name },
	},
	"email": {
		Expr: "c.email", Type: pagination.Text,
		Value: func(c model.Customer) string { return c.Email },
	},
	"created_at": {
		Expr: "c.created_at", Type: pagination.Timestamp,
		Value: func(c model.Customer) string { return pagination.FormatTime(c.CreatedAt) },
	},
}

// CustomerOrdering parses orderBy fields for customer lists.
func CustomerOrdering(fields []string) (pagination.Ordering[model.Customer], error) {
	return pagination.ParseOrdering(customerColumns, fields)
}
