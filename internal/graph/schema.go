// Package graph defines the GraphQL schema of the CRM: Relay-style node and
// connection queries over customers, products and orders, and the create
// mutations.
package graph

import (
	"fmt"
	"log/slog"

	"github.com/graphql-go/graphql"

	"github.com/tuanvumaihuynh/graphql-crm/internal/graph/gqlerr"
	"github.com/tuanvumaihuynh/graphql-crm/internal/service"
)

type Resolver struct {
	logger      *slog.Logger
	customerSvc service.CustomerService
	productSvc  service.ProductService
	orderSvc    service.OrderService
}

func NewResolver(
	logger *slog.Logger,
	customerSvc service.CustomerService,
	productSvc service.ProductService,
	orderSvc service.OrderService,
) *Resolver {
	return &Resolver{
		logger:      logger.With(slog.String("component", "graphql")),
		customerSvc: customerSvc,
		productSvc:  productSvc,
		orderSvc:    orderSvc,
	}
}

// Schema builds the executable schema.
func (r *Resolver) Schema() (graphql.Schema, error) {
	t := newTypes()

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    r.queryType(t),
		Mutation: r.mutationType(t),
		Types:    []graphql.Type{t.customer, t.product, t.order},
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("build graphql schema: %w", err)
	}

	return schema, nil
}

// resolve converts the errors of fn into GraphQL errors and logs them.
func (r *Resolver) resolve(fn graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		res, err := fn(p)
		if err == nil {
			return res, nil
		}

		gqlErr := gqlerr.New(err)
		level := slog.LevelInfo
		if gqlErr.Internal() {
			level = slog.LevelError
		}
		r.logger.Log(p.Context, level, "graphql resolver error",
			slog.String("field", p.Info.FieldName),
			slog.String("code", gqlErr.Code),
			slog.Any("error", err),
		)

		return nil, gqlErr
	}
}
