package filter

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/graphql-crm/internal/model"
	"github.com/tuanvumaihuynh/graphql-crm/internal/pagination"
)

// ProductFilter filters products. Its SQL refers to the products table as p.
type ProductFilter struct {
	Name  *string
	Price DecimalRange
	Stock IntRange
}

func (f ProductFilter) Predicate() Predicate[model.Product] {
	var p Predicate[model.Product]
	p = containsFold(p, "p.name", "name", f.Name, func(pr model.Product) string { return pr.Name })
	p = decimalRange(p, "p.price", "price", f.Price, func(pr model.Product) decimal.Decimal { return pr.Price })
	p = intRange(p, "p.stock", "stock", f.Stock, func(pr model.Product) int { return pr.Stock })
	return p
}

var productColumns = map[string]pagination.Column[model.Product]{
	"id": {
		Expr: "p.id", Type: pagination.UUID,
		Value: func(p model.Product) string { return p.ID.String() },
	},
	"name": {
		Expr: "p.name", Type: pagination.Text,
		Value: func(p model.Product) string { return p.Name },
	},
	"price": {
		Expr: "p.price", Type: pagination.Numeric,
		Value: func(p model.Product) string { return p.Price.String() },
	},
	"stock": {
		Expr: "p.stock", Type: pagination.Integer,
		Value: func(p model.Product) string { return strconv.Itoa(p.Stock) },
	},
}

// ProductOrdering parses orderBy fields for product lists.
func ProductOrdering(fields []string) (pagination.Ordering[model.Product], error) {
	return pagination.ParseOrdering(productColumns, fields)
}
