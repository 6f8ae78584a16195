package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/tuanvumaihuynh/graphql-crm/internal/model"
	"github.com/tuanvumaihuynh/graphql-crm/internal/service"
)

const customerCreatedMessage = "Customer created successfully."

type createCustomerPayload struct {
	customer model.Customer
	message  string
}

type bulkCreateCustomersPayload struct {
	customers []model.Customer
	errors    []string
}

type createProductPayload struct {
	product model.Product
}

type createOrderPayload struct {
	order model.Order
}

var customerInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CustomerInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":  {Type: graphql.NewNonNull(graphql.String)},
		"email": {Type: graphql.NewNonNull(graphql.String)},
		"phone": {Type: graphql.String},
	},
})

var productInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "ProductInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":  {Type: graphql.NewNonNull(graphql.String)},
		"price": {Type: graphql.NewNonNull(Decimal)},
		"stock": {Type: graphql.Int, Description: "Defaults to 0."},
	},
})

var orderInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "OrderInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"customerId": {
			Type:        graphql.NewNonNull(graphql.ID),
			Description: "Global ID or UUID of the customer.",
		},
		"productIds": {
			Type:        graphql.NewNonNull(graphql.NewList(graphql.ID)),
			Description: "Global IDs or UUIDs of the products.",
		},
	},
})

func (r *Resolver) mutationType(t *types) *graphql.Object {
	createCustomerPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CreateCustomerPayload",
		Fields: graphql.Fields{
			"customer": field(t.customer, func(p createCustomerPayload) any { return p.customer }),
			"message":  field(graphql.String, func(p createCustomerPayload) any { return p.message }),
		},
	})

	bulkCreateCustomersPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "BulkCreateCustomersPayload",
		Fields: graphql.Fields{
			"customers": field(graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.customer))),
				func(p bulkCreateCustomersPayload) any { return p.customers }),
			"errors": field(graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
				func(p bulkCreateCustomersPayload) any { return p.errors }),
		},
	})

	createProductPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CreateProductPayload",
		Fields: graphql.Fields{
			"product": field(t.product, func(p createProductPayload) any { return p.product }),
		},
	})

	createOrderPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CreateOrderPayload",
		Fields: graphql.Fields{
			"order": field(t.order, func(p createOrderPayload) any { return p.order }),
		},
	})

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createCustomer": &graphql.Field{
				Type: createCustomerPayloadType,
				Args: graphql.FieldConfigArgument{
					"input": {Type: graphql.NewNonNull(customerInput)},
				},
				Resolve: r.resolve(r.createCustomer),
			},
			"bulkCreateCustomers": &graphql.Field{
				Type: bulkCreateCustomersPayloadType,
				Args: graphql.FieldConfigArgument{
					"input": {Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(customerInput)))},
				},
				Resolve: r.resolve(r.bulkCreateCustomers),
			},
			"createProduct": &graphql.Field{
				Type: createProductPayloadType,
				Args: graphql.FieldConfigArgument{
					"input": {Type: graphql.NewNonNull(productInput)},
				},
				Resolve: r.resolve(r.createProduct),
			},
			"createOrder": &graphql.Field{
				Type: createOrderPayloadType,
				Args: graphql.FieldConfigArgument{
					"input": {Type: graphql.NewNonNull(orderInput)},
				},
				Resolve: r.resolve(r.createOrder),
			},
		},
	})
}

func customerParams(input map[string]any) service.CreateCustomerParams {
	return service.CreateCustomerParams{
		Name:  stringArg(input, "name"),
		Email: stringArg(input, "email"),
		Phone: optString(input, "phone"),
	}
}

func (r *Resolver) createCustomer(p graphql.ResolveParams) (any, error) {
	customer, err := r.customerSvc.CreateCustomer(p.Context, customerParams(objectArg(p.Args, "input")))
	if err != nil {
		return nil, err
	}

	return createCustomerPayload{customer: customer, message: customerCreatedMessage}, nil
}

func (r *Resolver) bulkCreateCustomers(p graphql.ResolveParams) (any, error) {
	items, _ := p.Args["input"].([]any)
	params := make([]service.CreateCustomerParams, 0, len(items))
	for _, item := range items {
		input, _ := item.(map[string]any)
		params = append(params, customerParams(input))
	}

	res, err := r.customerSvc.BulkCreateCustomers(p.Context, params)
	if err != nil {
		return nil, err
	}

	payload := bulkCreateCustomersPayload{
		customers: res.Customers,
		errors:    res.Errors,
	}
	if payload.customers == nil {
		payload.customers = []model.Customer{}
	}
	if payload.errors == nil {
		payload.errors = []string{}
	}

	return payload, nil
}

func (r *Resolver) createProduct(p graphql.ResolveParams) (any, error) {
	input := objectArg(p.Args, "input")

	params := service.CreateProductParams{
		Name:  stringArg(input, "name"),
		Stock: optInt(input, "stock"),
	}
	if price := optDecimal(input, "price"); price != nil {
		params.Price = *price
	}

	product, err := r.productSvc.CreateProduct(p.Context, params)
	if err != nil {
		return nil, err
	}

	return createProductPayload{product: product}, nil
}

func (r *Resolver) createOrder(p graphql.ResolveParams) (any, error) {
	input := objectArg(p.Args, "input")

	order, err := r.orderSvc.CreateOrder(p.Context, service.CreateOrderParams{
		CustomerID: stringArg(input, "customerId"),
		ProductIDs: stringList(input, "productIds"),
	})
	if err != nil {
		return nil, err
	}

	return createOrderPayload{order: order}, nil
}
