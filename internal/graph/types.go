package graph

import (
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"

	"github.com/tuanvumaihuynh/graphql-crm/internal/model"
	"github.com/tuanvumaihuynh/graphql-crm/internal/nodeid"
)

type types struct {
	node     *graphql.Interface
	pageInfo *graphql.Object

	customer *graphql.Object
	product  *graphql.Object
	order    *graphql.Object

	customerConnection *graphql.Object
	productConnection  *graphql.Object
	orderConnection    *graphql.Object
}

func newTypes() *types {
	t := &types{}

	t.node = graphql.NewInterface(graphql.InterfaceConfig{
		Name:        "Node",
		Description: "An object with an ID",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.ID),
				Description: "The ID of the object.",
			},
		},
		ResolveType: func(p graphql.ResolveTypeParams) *graphql.Object {
			switch p.Value.(type) {
			case model.Customer:
				return t.customer
			case model.Product:
				return t.product
			case model.Order:
				return t.order
			}
			return nil
		},
	})

	t.pageInfo = newPageInfoType()

	t.customer = graphql.NewObject(graphql.ObjectConfig{
		Name:       "Customer",
		Interfaces: []*graphql.Interface{t.node},
		Fields: graphql.Fields{
			"id": globalIDField(nodeid.Customer, func(c model.Customer) uuid.UUID { return c.ID }),
			"name": field(graphql.NewNonNull(graphql.String), func(c model.Customer) any {
				return c.Name
			}),
			"email": field(graphql.NewNonNull(graphql.String), func(c model.Customer) any {
				return c.Email
			}),
			"phone": field(graphql.String, func(c model.Customer) any {
				if c.Phone == nil {
					return nil
				}
				return *c.Phone
			}),
			"createdAt": field(graphql.NewNonNull(graphql.DateTime), func(c model.Customer) any {
				return c.CreatedAt
			}),
		},
	})

	t.product = graphql.NewObject(graphql.ObjectConfig{
		Name:       "Product",
		Interfaces: []*graphql.Interface{t.node},
		Fields: graphql.Fields{
			"id": globalIDField(nodeid.Product, func(p model.Product) uuid.UUID { return p.ID }),
			"name": field(graphql.NewNonNull(graphql.String), func(p model.Product) any {
				return p.Name
			}),
			"price": field(graphql.NewNonNull(Decimal), func(p model.Product) any {
				return p.Price
			}),
			"stock": field(graphql.NewNonNull(graphql.Int), func(p model.Product) any {
				return p.Stock
			}),
		},
	})

	t.order = graphql.NewObject(graphql.ObjectConfig{
		Name:       "Order",
		Interfaces: []*graphql.Interface{t.node},
		Fields: graphql.Fields{
			"id": globalIDField(nodeid.Order, func(o model.Order) uuid.UUID { return o.ID }),
			"customer": field(graphql.NewNonNull(t.customer), func(o model.Order) any {
				return o.Customer
			}),
			"products": field(graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.product))), func(o model.Order) any {
				if o.Products == nil {
					return []model.Product{}
				}
				return o.Products
			}),
			"totalAmount": field(graphql.NewNonNull(Decimal), func(o model.Order) any {
				return o.TotalAmount
			}),
			"orderDate": field(graphql.NewNonNull(graphql.DateTime), func(o model.Order) any {
				return o.OrderDate
			}),
		},
	})

	t.customerConnection = newConnectionType[model.Customer]("Customer", t.customer, t.pageInfo)
	t.productConnection = newConnectionType[model.Product]("Product", t.product, t.pageInfo)
	t.orderConnection = newConnectionType[model.Order]("Order", t.order, t.pageInfo)

	return t
}
