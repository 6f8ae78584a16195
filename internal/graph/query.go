package graph

import (
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/relay"

	"github.com/tuanvumaihuynh/graphql-crm/internal/apperr"
	"github.com/tuanvumaihuynh/graphql-crm/internal/filter"
	"github.com/tuanvumaihuynh/graphql-crm/internal/nodeid"
	"github.com/tuanvumaihuynh/graphql-crm/internal/service"
)

const greeting = "Hello, GraphQL!"

var orderByArg = &graphql.ArgumentConfig{
	Type:        graphql.NewList(graphql.String),
	Description: `Fields to sort by. A leading "-" sorts descending.`,
}

func (r *Resolver) queryType(t *types) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hello": &graphql.Field{
				Type: graphql.String,
				Resolve: func(graphql.ResolveParams) (any, error) {
					return greeting, nil
				},
			},
			"node": &graphql.Field{
				Type:        t.node,
				Description: "Fetches an object given its ID",
				Args: graphql.FieldConfigArgument{
					"id": {Type: graphql.NewNonNull(graphql.ID), Description: "The ID of the object"},
				},
				Resolve: r.resolve(r.node),
			},
			"allCustomers": &graphql.Field{
				Type: t.customerConnection,
				Args: relay.NewConnectionArgs(graphql.FieldConfigArgument{
					"name":            {Type: graphql.String},
					"email":           {Type: graphql.String},
					"createdAtAfter":  {Type: graphql.String},
					"createdAtBefore": {Type: graphql.String},
					"orderBy":         orderByArg,
				}),
				Resolve: r.resolve(r.allCustomers),
			},
			"allProducts": &graphql.Field{
				Type: t.productConnection,
				Args: relay.NewConnectionArgs(graphql.FieldConfigArgument{
					"name":     {Type: graphql.String},
					"priceMin": {Type: Decimal},
					"priceMax": {Type: Decimal},
					"stockMin": {Type: graphql.Int},
					"stockMax": {Type: graphql.Int},
					"orderBy":  orderByArg,
				}),
				Resolve: r.resolve(r.allProducts),
			},
			"allOrders": &graphql.Field{
				Type: t.orderConnection,
				Args: relay.NewConnectionArgs(graphql.FieldConfigArgument{
					"customerName":    {Type: graphql.String},
					"productName":     {Type: graphql.String},
					"totalAmountMin":  {Type: Decimal},
					"totalAmountMax":  {Type: Decimal},
					"orderDateAfter":  {Type: graphql.String},
					"orderDateBefore": {Type: graphql.String},
					"orderBy":         orderByArg,
				}),
				Resolve: r.resolve(r.allOrders),
			},
		},
	})
}

// node returns null for a well-formed ID whose object does not exist.
func (r *Resolver) node(p graphql.ResolveParams) (any, error) {
	typ, id, err := nodeid.Decode(stringArg(p.Args, "id"))
	if err != nil {
		return nil, err
	}

	var obj any
	switch typ {
	case nodeid.Customer:
		obj, err = r.customerSvc.GetCustomer(p.Context, id)
	case nodeid.Product:
		obj, err = r.productSvc.GetProduct(p.Context, id)
	case nodeid.Order:
		obj, err = r.orderSvc.GetOrder(p.Context, id)
	default:
		return nil, apperr.ErrInvalidGlobalID.WithMsg(fmt.Sprintf("Unknown node type %q.", typ))
	}
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	return obj, nil
}

func (r *Resolver) allCustomers(p graphql.ResolveParams) (any, error) {
	createdAt, err := filter.ParseTimeRange(optString(p.Args, "createdAtAfter"), optString(p.Args, "createdAtBefore"))
	if err != nil {
		return nil, err
	}

	page, err := r.customerSvc.ListCustomers(p.Context, service.ListCustomersParams{
		Filter: filter.CustomerFilter{
			Name:      optString(p.Args, "name"),
			Email:     optString(p.Args, "email"),
			CreatedAt: createdAt,
		},
		OrderBy: stringList(p.Args, "orderBy"),
		Page:    pageArgs(p.Args),
	})
	if err != nil {
		return nil, err
	}

	return page, nil
}

func (r *Resolver) allProducts(p graphql.ResolveParams) (any, error) {
	page, err := r.productSvc.ListProducts(p.Context, service.ListProductsParams{
		Filter: filter.ProductFilter{
			Name:  optString(p.Args, "name"),
			Price: filter.DecimalRange{Min: optDecimal(p.Args, "priceMin"), Max: optDecimal(p.Args, "priceMax")},
			Stock: filter.IntRange{Min: optInt(p.Args, "stockMin"), Max: optInt(p.Args, "stockMax")},
		},
		OrderBy: stringList(p.Args, "orderBy"),
		Page:    pageArgs(p.Args),
	})
	if err != nil {
		return nil, err
	}

	return page, nil
}

func (r *Resolver) allOrders(p graphql.ResolveParams) (any, error) {
	orderDate, err := filter.ParseTimeRange(optString(p.Args, "orderDateAfter"), optString(p.Args, "orderDateBefore"))
	if err != nil {
		return nil, err
	}

	page, err := r.orderSvc.ListOrders(p.Context, service.ListOrdersParams{
		Filter: filter.OrderFilter{
			CustomerName: optString(p.Args, "customerName"),
			ProductName:  optString(p.Args, "productName"),
			TotalAmount:  filter.DecimalRange{Min: optDecimal(p.Args, "totalAmountMin"), Max: optDecimal(p.Args, "totalAmountMax")},
			OrderDate:    orderDate,
		},
		OrderBy: stringList(p.Args, "orderBy"),
		Page:    pageArgs(p.Args),
	})
	if err != nil {
		return nil, err
	}

	return page, nil
}
