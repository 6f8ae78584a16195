package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/graphql-crm/internal/pagination"
	"github.com/tuanvumaihuynh/graphql-crm/internal/repository/memrepo"
	"github.com/tuanvumaihuynh/graphql-crm/internal/service"
	"github.com/tuanvumaihuynh/graphql-crm/pkg/validator"
)

type services struct {
	store    *memrepo.Store
	customer service.CustomerService
	product  service.ProductService
	order    service.OrderService
}

func newServices(t *testing.T) services {
	t.Helper()

	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	store := memrepo.NewStore()
	d := memrepo.NewDB(store)
	customerRepo := memrepo.NewCustomerRepository(store)
	productRepo := memrepo.NewProductRepository(store)
	orderRepo := memrepo.NewOrderRepository(store)
	outboxMsgRepo := memrepo.NewOutboxMsgRepository(store)

	return services{
		store:    store,
		customer: service.NewCustomerService(d, v, pagination.DefaultLimits, customerRepo, outboxMsgRepo),
		product:  service.NewProductService(d, v, pagination.DefaultLimits, productRepo, outboxMsgRepo),
		order:    service.NewOrderService(d, pagination.DefaultLimits, customerRepo, productRepo, orderRepo, outboxMsgRepo),
	}
}

var ctx = context.Background()
