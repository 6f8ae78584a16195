package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/graphql-crm/internal/config"
	"github.com/tuanvumaihuynh/graphql-crm/internal/graph"
	crmhttp "github.com/tuanvumaihuynh/graphql-crm/internal/http"
	"github.com/tuanvumaihuynh/graphql-crm/internal/pagination"
	"github.com/tuanvumaihuynh/graphql-crm/internal/repository/memrepo"
	"github.com/tuanvumaihuynh/graphql-crm/internal/service"
	"github.com/tuanvumaihuynh/graphql-crm/pkg/correlationid"
	"github.com/tuanvumaihuynh/graphql-crm/pkg/validator"
)

type fakeHealth struct {
	err error
}

func (f fakeHealth) IsHealthy(context.Context) (bool, error) {
	return f.err == nil, f.err
}

func newHandler(t *testing.T, health fakeHealth) http.Handler {
	t.Helper()

	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	store := memrepo.NewStore()
	d := memrepo.NewDB(store)
	customerRepo := memrepo.NewCustomerRepository(store)
	productRepo := memrepo.NewProductRepository(store)
	outboxMsgRepo := memrepo.NewOutboxMsgRepository(store)

	logger := slog.New(slog.DiscardHandler)
	schema, err := graph.NewResolver(
		logger,
		service.NewCustomerService(d, v, pagination.DefaultLimits, customerRepo, outboxMsgRepo),
		service.NewProductService(d, v, pagination.DefaultLimits, productRepo, outboxMsgRepo),
		service.NewOrderService(d, pagination.DefaultLimits, customerRepo, productRepo,
			memrepo.NewOrderRepository(store), outboxMsgRepo),
	).Schema()
	require.NoError(t, err)

	svc := crmhttp.New(
		config.HTTP{Playground: true, CORSOrigins: []string{"http://*"}},
		config.GraphQL{},
		logger,
		schema,
		health,
	)
	return svc.Handler()
}

func TestGraphQLEndpoint(t *testing.T) {
	h := newHandler(t, fakeHealth{})

	t.Run("Should execute POST query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, crmhttp.GraphQLPath, strings.NewReader(`{"query":"{ hello }"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()

		h.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"data":{"hello":"Hello, GraphQL!"}}`, resp.Body.String())
		assert.NotEmpty(t, resp.Header().Get(correlationid.Header))
	})

	t.Run("Should execute GET query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, crmhttp.GraphQLPath+"?query="+url.QueryEscape("{ hello }"), nil)
		resp := httptest.NewRecorder()

		h.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"data":{"hello":"Hello, GraphQL!"}}`, resp.Body.String())
	})

	t.Run("Should echo correlation id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, crmhttp.GraphQLPath, strings.NewReader(`{"query":"{ hello }"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(correlationid.Header, "req-42")
		resp := httptest.NewRecorder()

		h.ServeHTTP(resp, req)

		assert.Equal(t, "req-42", resp.Header().Get(correlationid.Header))
	})

	t.Run("Should report error code in extensions", func(t *testing.T) {
		body := `{"query":"mutation { createProduct(input: {name: \"Free\", price: \"0\"}) { product { id } } }"}`
		req := httptest.NewRequest(http.MethodPost, crmhttp.GraphQLPath, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()

		h.ServeHTTP(resp, req)

		var res struct {
			Errors []struct {
				Message    string         `json:"message"`
				Extensions map[string]any `json:"extensions"`
			} `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &res))
		require.Len(t, res.Errors, 1)
		assert.Equal(t, "Price must be positive.", res.Errors[0].Message)
		assert.Equal(t, "PRICE_NOT_POSITIVE", res.Errors[0].Extensions["code"])
	})

	t.Run("Should expose operation metrics", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		resp := httptest.NewRecorder()

		h.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `crm_graphql_operations_total{operation_type="query",outcome="ok"}`)
		assert.Contains(t, resp.Body.String(), `crm_http_requests_total`)
	})

	t.Run("Should serve playground", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/playground", nil)
		resp := httptest.NewRecorder()

		h.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusOK, resp.Code)
	})
}

func TestGetMutationRefused(t *testing.T) {
	h := newHandler(t, fakeHealth{})

	mutation := `mutation Add { createProduct(input: {name: "X", price: "1.00"}) { product { name } } }`
	req := httptest.NewRequest(http.MethodGet,
		crmhttp.GraphQLPath+"?operationName=Add&query="+url.QueryEscape("query Q { hello } "+mutation), nil)
	resp := httptest.NewRecorder()

	h.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
	assert.Equal(t, http.MethodPost, resp.Header().Get("Allow"))
	assert.Contains(t, resp.Body.String(), "MUTATION_REQUIRES_POST")

	req = httptest.NewRequest(http.MethodGet,
		crmhttp.GraphQLPath+"?query="+url.QueryEscape("{ allProducts { edges { node { name } } } }"), nil)
	resp = httptest.NewRecorder()

	h.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"allProducts"`)
	assert.NotContains(t, resp.Body.String(), `"X"`)

	t.Run("Should still run named query over GET", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			crmhttp.GraphQLPath+"?operationName=Q&query="+url.QueryEscape("query Q { hello } "+mutation), nil)
		resp := httptest.NewRecorder()

		h.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"data":{"hello":"Hello, GraphQL!"}}`, resp.Body.String())
	})
}

func TestOperationMetricLabels(t *testing.T) {
	h := newHandler(t, fakeHealth{})

	post := func(body string) {
		req := httptest.NewRequest(http.MethodPost, crmhttp.GraphQLPath, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	for _, name := range []string{"Op0", "Op1", "Op2"} {
		post(`{"query":"query ` + name + ` { hello }","operationName":"` + name + `"}`)
	}
	post(`{"query":"{ hello }","operationName":"Missing"}`)
	post(`{"query":"mutation { createProduct(input: {name: \"Pad\", price: \"5.00\"}) { product { id } } }"}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	body := resp.Body.String()
	assert.Contains(t, body, `crm_graphql_operations_total{operation_type="query",outcome="ok"} 3`)
	assert.Contains(t, body, `crm_graphql_operations_total{operation_type="unknown",outcome="error"} 1`)
	assert.Contains(t, body, `crm_graphql_operations_total{operation_type="mutation",outcome="ok"} 1`)
	assert.NotContains(t, body, "Op0")
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		health     fakeHealth
		wantStatus int
		wantBody   string
	}{
		{"healthy", fakeHealth{}, http.StatusOK, `{"status":"ok"}`},
		{"unhealthy", fakeHealth{err: errors.New("connection refused")}, http.StatusServiceUnavailable, `{"status":"unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(t, tt.health)

			req := httptest.NewRequest(http.MethodGet, crmhttp.HealthPath, nil)
			resp := httptest.NewRecorder()

			h.ServeHTTP(resp, req)

			assert.Equal(t, tt.wantStatus, resp.Code)
			assert.JSONEq(t, tt.wantBody, resp.Body.String())
		})
	}
}
