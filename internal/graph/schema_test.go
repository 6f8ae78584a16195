package graph_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/graphql-crm/internal/graph"
	"github.com/tuanvumaihuynh/graphql-crm/internal/pagination"
	"github.com/tuanvumaihuynh/graphql-crm/internal/repository/memrepo"
	"github.com/tuanvumaihuynh/graphql-crm/internal/service"
	"github.com/tuanvumaihuynh/graphql-crm/pkg/validator"
)

type gqlError struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

type testServer struct {
	schema graphql.Schema
	store  *memrepo.Store
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	store := memrepo.NewStore()
	d := memrepo.NewDB(store)
	customerRepo := memrepo.NewCustomerRepository(store)
	productRepo := memrepo.NewProductRepository(store)
	orderRepo := memrepo.NewOrderRepository(store)
	outboxMsgRepo := memrepo.NewOutboxMsgRepository(store)

	resolver := graph.NewResolver(
		slog.New(slog.DiscardHandler),
		service.NewCustomerService(d, v, pagination.DefaultLimits, customerRepo, outboxMsgRepo),
		service.NewProductService(d, v, pagination.DefaultLimits, productRepo, outboxMsgRepo),
		service.NewOrderService(d, pagination.DefaultLimits, customerRepo, productRepo, orderRepo, outboxMsgRepo),
	)
	schema, err := resolver.Schema()
	require.NoError(t, err)

	return testServer{schema: schema, store: store}
}

func (s testServer) do(t *testing.T, query string, vars map[string]any) response {
	t.Helper()

	res := graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        context.Background(),
	})

	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var out response
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

// data runs query and decodes its data, failing on any error.
func data[T any](t *testing.T, s testServer, query string, vars map[string]any) T {
	t.Helper()

	res := s.do(t, query, vars)
	require.Empty(t, res.Errors)

	var out T
	require.NoError(t, json.Unmarshal(res.Data, &out))
	return out
}

// singleError runs query and returns its only error.
func singleError(t *testing.T, s testServer, query string, vars map[string]any) gqlError {
	t.Helper()

	res := s.do(t, query, vars)
	require.Len(t, res.Errors, 1)
	return res.Errors[0]
}

const createCustomerMutation = `
mutation ($input: CustomerInput!) {
  createCustomer(input: $input) {
    customer { id name email phone createdAt }
    message
  }
}`

const createProductMutation = `
mutation ($input: ProductInput!) {
  createProduct(input: $input) {
    product { id name price stock }
  }
}`

const createOrderMutation = `
mutation ($input: OrderInput!) {
  createOrder(input: $input) {
    order {
      id
      totalAmount
      customer { name }
      products { name price }
    }
  }
}`

type customerNode struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

type productNode struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int    `json:"stock"`
}

func (s testServer) createCustomer(t *testing.T, name, email string) customerNode {
	t.Helper()

	out := data[struct {
		CreateCustomer struct {
			Customer customerNode `json:"customer"`
		} `json:"createCustomer"`
	}](t, s, createCustomerMutation, map[string]any{
		"input": map[string]any{"name": name, "email": email},
	})
	return out.CreateCustomer.Customer
}

func (s testServer) createProduct(t *testing.T, name, price string, stock int) productNode {
	t.Helper()

	out := data[struct {
		CreateProduct struct {
			Product productNode `json:"product"`
		} `json:"createProduct"`
	}](t, s, createProductMutation, map[string]any{
		"input": map[string]any{"name": name, "price": price, "stock": stock},
	})
	return out.CreateProduct.Product
}

func TestHello(t *testing.T) {
	s := newTestServer(t)

	out := data[struct {
		Hello string `json:"hello"`
	}](t, s, `{ hello }`, nil)
	assert.Equal(t, "Hello, GraphQL!", out.Hello)
}

func TestCreateCustomer(t *testing.T) {
	t.Run("Should create customer", func(t *testing.T) {
		s := newTestServer(t)

		out := data[struct {
			CreateCustomer struct {
				Customer customerNode `json:"customer"`
				Message  string       `json:"message"`
			} `json:"createCustomer"`
		}](t, s, createCustomerMutation, map[string]any{
			"input": map[string]any{"name": "Alice", "email": "alice@example.com", "phone": "+1 (555) 123-4567"},
		})

		assert.Equal(t, "Customer created successfully.", out.CreateCustomer.Message)
		assert.Equal(t, "Alice", out.CreateCustomer.Customer.Name)
		require.NotNil(t, out.CreateCustomer.Customer.Phone)
		assert.Equal(t, "+1 (555) 123-4567", *out.CreateCustomer.Customer.Phone)
		assert.NotEmpty(t, out.CreateCustomer.Customer.ID)
		assert.Len(t, s.store.Customers(), 1)
	})

	t.Run("Should reject duplicate email", func(t *testing.T) {
		s := newTestServer(t)
		s.createCustomer(t, "Alice", "alice@example.com")

		err := singleError(t, s, createCustomerMutation, map[string]any{
			"input": map[string]any{"name": "Alice 2", "email": "alice@example.com"},
		})
		assert.Equal(t, "Email already exists.", err.Message)
		assert.Equal(t, "EMAIL_EXISTS", err.Extensions["code"])
		assert.Len(t, s.store.Customers(), 1)
	})

	t.Run("Should reject invalid phone", func(t *testing.T) {
		s := newTestServer(t)

		err := singleError(t, s, createCustomerMutation, map[string]any{
			"input": map[string]any{"name": "Bob", "email": "bob@example.com", "phone": "abc"},
		})
		assert.Equal(t, "Invalid phone format.", err.Message)
		assert.Empty(t, s.store.Customers())
	})

	t.Run("Should reject invalid email", func(t *testing.T) {
		s := newTestServer(t)

		err := singleError(t, s, createCustomerMutation, map[string]any{
			"input": map[string]any{"name": "Bob", "email": "not-an-email"},
		})
		assert.Equal(t, "Invalid input: email must be a valid email address.", err.Message)
		assert.Equal(t, "VALIDATION_FAILED", err.Extensions["code"])
	})
}

func TestBulkCreateCustomers(t *testing.T) {
	const mutation = `
mutation ($input: [CustomerInput!]!) {
  bulkCreateCustomers(input: $input) {
    customers { email }
    errors
  }
}`

	t.Run("Should skip invalid items", func(t *testing.T) {
		s := newTestServer(t)

		out := data[struct {
			BulkCreateCustomers struct {
				Customers []customerNode `json:"customers"`
				Errors    []string       `json:"errors"`
			} `json:"bulkCreateCustomers"`
		}](t, s, mutation, map[string]any{
			"input": []any{
				map[string]any{"name": "A", "email": "a@x.com"},
				map[string]any{"name": "A again", "email": "a@x.com"},
				map[string]any{"name": "B", "email": "b@x.com", "phone": "abc"},
			},
		})

		require.Len(t, out.BulkCreateCustomers.Customers, 1)
		assert.Equal(t, "a@x.com", out.BulkCreateCustomers.Customers[0].Email)
		assert.Equal(t, []string{"Email 'a@x.com' already exists.", "Invalid phone format."}, out.BulkCreateCustomers.Errors)
	})

	t.Run("Should return empty lists for empty input", func(t *testing.T) {
		s := newTestServer(t)

		res := s.do(t, mutation, map[string]any{"input": []any{}})
		require.Empty(t, res.Errors)
		assert.JSONEq(t, `{"bulkCreateCustomers":{"customers":[],"errors":[]}}`, string(res.Data))
	})

	t.Run("Should fail when nothing is created", func(t *testing.T) {
		s := newTestServer(t)

		err := singleError(t, s, mutation, map[string]any{
			"input": []any{map[string]any{"name": "B", "email": "b@x.com", "phone": "abc"}},
		})
		assert.Equal(t, "All records failed to be created. Errors: ['Invalid phone format.']", err.Message)
		assert.Empty(t, s.store.Customers())
	})
}

func TestCreateProduct(t *testing.T) {
	t.Run("Should keep two decimal places", func(t *testing.T) {
		s := newTestServer(t)

		out := data[struct {
			CreateProduct struct {
				Product productNode `json:"product"`
			} `json:"createProduct"`
		}](t, s, createProductMutation, map[string]any{
			"input": map[string]any{"name": "Sticker", "price": "0.01"},
		})

		assert.Equal(t, "0.01", out.CreateProduct.Product.Price)
		assert.Equal(t, 0, out.CreateProduct.Product.Stock)
	})

	tests := []struct {
		name  string
		input map[string]any
		want  string
	}{
		{"zero price", map[string]any{"name": "Free", "price": "0"}, "Price must be positive."},
		{"negative price", map[string]any{"name": "Refund", "price": -5}, "Price must be positive."},
		{"negative stock", map[string]any{"name": "Ghost", "price": "1.00", "stock": -1}, "Stock cannot be negative."},
	}

	for _, tt := range tests {
		t.Run("Should reject "+tt.name, func(t *testing.T) {
			s := newTestServer(t)

			err := singleError(t, s, createProductMutation, map[string]any{"input": tt.input})
			assert.Equal(t, tt.want, err.Message)
			assert.Empty(t, s.store.Products())
		})
	}
}

func TestCreateOrder(t *testing.T) {
	type orderPayload struct {
		CreateOrder struct {
			Order struct {
				TotalAmount string `json:"totalAmount"`
				Customer    struct {
					Name string `json:"name"`
				} `json:"customer"`
				Products []productNode `json:"products"`
			} `json:"order"`
		} `json:"createOrder"`
	}

	t.Run("Should sum product prices", func(t *testing.T) {
		s := newTestServer(t)
		alice := s.createCustomer(t, "Alice", "alice@example.com")
		mouse := s.createProduct(t, "Mouse", "25.50", 200)
		cable := s.createProduct(t, "Cable", "10.00", 10)

		out := data[orderPayload](t, s, createOrderMutation, map[string]any{
			"input": map[string]any{"customerId": alice.ID, "productIds": []any{mouse.ID, cable.ID}},
		})

		order := out.CreateOrder.Order
		assert.Equal(t, "35.50", order.TotalAmount)
		assert.Equal(t, "Alice", order.Customer.Name)

		got := make([]string, 0, len(order.Products))
		for _, p := range order.Products {
			got = append(got, p.Name)
		}
		if diff := cmp.Diff([]string{"Cable", "Mouse"}, got); diff != "" {
			t.Errorf("products mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Should reject empty order", func(t *testing.T) {
		s := newTestServer(t)
		alice := s.createCustomer(t, "Alice", "alice@example.com")

		err := singleError(t, s, createOrderMutation, map[string]any{
			"input": map[string]any{"customerId": alice.ID, "productIds": []any{}},
		})
		assert.Equal(t, "An order must contain at least one product.", err.Message)
	})

	t.Run("Should reject unknown customer", func(t *testing.T) {
		s := newTestServer(t)
		mouse := s.createProduct(t, "Mouse", "25.50", 200)

		const id = "0190a8a4-7b2e-7c4d-9e3f-0a1b2c3d4e5f"
		err := singleError(t, s, createOrderMutation, map[string]any{
			"input": map[string]any{"customerId": id, "productIds": []any{mouse.ID}},
		})
		assert.Equal(t, "Customer with ID "+id+" does not exist.", err.Message)
	})

	t.Run("Should reject unknown product", func(t *testing.T) {
		s := newTestServer(t)
		alice := s.createCustomer(t, "Alice", "alice@example.com")

		err := singleError(t, s, createOrderMutation, map[string]any{
			"input": map[string]any{"customerId": alice.ID, "productIds": []any{"0190a8a4-7b2e-7c4d-9e3f-0a1b2c3d4e5f"}},
		})
		assert.Equal(t, "One or more product IDs are invalid.", err.Message)
	})
}

func TestNode(t *testing.T) {
	const query = `
query ($id: ID!) {
  node(id: $id) {
    id
    ... on Customer { email }
    ... on Product { price }
  }
}`

	type nodeResult struct {
		Node *struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Price string `json:"price"`
		} `json:"node"`
	}

	s := newTestServer(t)
	alice := s.createCustomer(t, "Alice", "alice@example.com")
	laptop := s.createProduct(t, "Laptop", "999.99", 50)

	t.Run("Should resolve customer", func(t *testing.T) {
		out := data[nodeResult](t, s, query, map[string]any{"id": alice.ID})
		require.NotNil(t, out.Node)
		assert.Equal(t, alice.ID, out.Node.ID)
		assert.Equal(t, "alice@example.com", out.Node.Email)
	})

	t.Run("Should resolve product", func(t *testing.T) {
		out := data[nodeResult](t, s, query, map[string]any{"id": laptop.ID})
		require.NotNil(t, out.Node)
		assert.Equal(t, "999.99", out.Node.Price)
	})

	t.Run("Should return null for missing object", func(t *testing.T) {
		// base64("Customer:0190a8a4-7b2e-7c4d-9e3f-0a1b2c3d4e5f")
		const missing = "Q3VzdG9tZXI6MDE5MGE4YTQtN2IyZS03YzRkLTllM2YtMGExYjJjM2Q0ZTVm"
		out := data[nodeResult](t, s, query, map[string]any{"id": missing})
		assert.Nil(t, out.Node)
	})

	t.Run("Should reject malformed id", func(t *testing.T) {
		err := singleError(t, s, query, map[string]any{"id": "garbage"})
		assert.Equal(t, "INVALID_GLOBAL_ID", err.Extensions["code"])
	})
}

func TestAllCustomers(t *testing.T) {
	s := newTestServer(t)
	s.createCustomer(t, "Alice", "alice@example.com")
	s.createCustomer(t, "Bob", "bob@example.com")
	s.createCustomer(t, "Malice", "malice@example.com")

	type connection struct {
		AllCustomers struct {
			Edges []struct {
				Cursor string       `json:"cursor"`
				Node   customerNode `json:"node"`
			} `json:"edges"`
			PageInfo struct {
				HasNextPage     bool    `json:"hasNextPage"`
				HasPreviousPage bool    `json:"hasPreviousPage"`
				StartCursor     *string `json:"startCursor"`
				EndCursor       *string `json:"endCursor"`
			} `json:"pageInfo"`
		} `json:"allCustomers"`
	}

	const query = `
query ($name: String, $first: Int, $after: String, $orderBy: [String]) {
  allCustomers(name: $name, first: $first, after: $after, orderBy: $orderBy) {
    edges { cursor node { name email } }
    pageInfo { hasNextPage hasPreviousPage startCursor endCursor }
  }
}`

	names := func(c connection) []string {
		out := make([]string, 0, len(c.AllCustomers.Edges))
		for _, e := range c.AllCustomers.Edges {
			out = append(out, e.Node.Name)
		}
		return out
	}

	t.Run("Should filter by name case-insensitively", func(t *testing.T) {
		out := data[connection](t, s, query, map[string]any{"name": "ALI", "orderBy": []any{"name"}})
		assert.Equal(t, []string{"Alice", "Malice"}, names(out))
	})

	t.Run("Should page forward", func(t *testing.T) {
		first := data[connection](t, s, query, map[string]any{"first": 2, "orderBy": []any{"-name"}})
		assert.Equal(t, []string{"Malice", "Bob"}, names(first))
		assert.True(t, first.AllCustomers.PageInfo.HasNextPage)
		assert.False(t, first.AllCustomers.PageInfo.HasPreviousPage)
		require.NotNil(t, first.AllCustomers.PageInfo.EndCursor)

		second := data[connection](t, s, query, map[string]any{
			"first":   2,
			"after":   *first.AllCustomers.PageInfo.EndCursor,
			"orderBy": []any{"-name"},
		})
		assert.Equal(t, []string{"Alice"}, names(second))
		assert.False(t, second.AllCustomers.PageInfo.HasNextPage)
		assert.True(t, second.AllCustomers.PageInfo.HasPreviousPage)
	})

	t.Run("Should return null cursors for empty page", func(t *testing.T) {
		out := data[connection](t, s, query, map[string]any{"name": "nobody"})
		assert.Empty(t, out.AllCustomers.Edges)
		assert.Nil(t, out.AllCustomers.PageInfo.StartCursor)
		assert.Nil(t, out.AllCustomers.PageInfo.EndCursor)
	})

	t.Run("Should reject unknown orderBy field", func(t *testing.T) {
		err := singleError(t, s, query, map[string]any{"orderBy": []any{"password"}})
		assert.Equal(t, "INVALID_ORDER_BY", err.Extensions["code"])
	})
}

func TestAllProductsAndOrders(t *testing.T) {
	s := newTestServer(t)
	alice := s.createCustomer(t, "Alice", "alice@example.com")
	bob := s.createCustomer(t, "Bob", "bob@example.com")
	laptop := s.createProduct(t, "Laptop", "999.99", 50)
	mouse := s.createProduct(t, "Mouse", "25.50", 200)
	keyboard := s.createProduct(t, "Keyboard", "75.00", 150)

	for _, in := range []map[string]any{
		{"customerId": alice.ID, "productIds": []any{laptop.ID, mouse.ID}},
		{"customerId": bob.ID, "productIds": []any{keyboard.ID}},
	} {
		data[map[string]any](t, s, createOrderMutation, map[string]any{"input": in})
	}

	t.Run("Should filter products by price range", func(t *testing.T) {
		out := data[struct {
			AllProducts struct {
				Edges []struct {
					Node productNode `json:"node"`
				} `json:"edges"`
			} `json:"allProducts"`
		}](t, s, `{ allProducts(priceMin: "50", priceMax: "100") { edges { node { name price stock } } } }`, nil)

		require.Len(t, out.AllProducts.Edges, 1)
		assert.Equal(t, productNode{ID: "", Name: "Keyboard", Price: "75.00", Stock: 150}, out.AllProducts.Edges[0].Node)
	})

	t.Run("Should filter orders by product name", func(t *testing.T) {
		out := data[struct {
			AllOrders struct {
				Edges []struct {
					Node struct {
						TotalAmount string `json:"totalAmount"`
						Customer    struct {
							Name string `json:"name"`
						} `json:"customer"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"allOrders"`
		}](t, s, `{ allOrders(productName: "mouse") { edges { node { totalAmount customer { name } } } } }`, nil)

		require.Len(t, out.AllOrders.Edges, 1)
		assert.Equal(t, "1025.49", out.AllOrders.Edges[0].Node.TotalAmount)
		assert.Equal(t, "Alice", out.AllOrders.Edges[0].Node.Customer.Name)
	})

	t.Run("Should reject malformed date", func(t *testing.T) {
		err := singleError(t, s, `{ allOrders(orderDateAfter: "yesterday") { edges { cursor } } }`, nil)
		assert.Equal(t, "INVALID_FILTER", err.Extensions["code"])
	})
}
