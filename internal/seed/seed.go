// Package seed fills an empty database with sample customers and products.
// Running it again leaves existing rows untouched.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/graphql-crm/internal/event"
	"github.com/tuanvumaihuynh/graphql-crm/internal/model"
	"github.com/tuanvumaihuynh/graphql-crm/internal/repository"
	"github.com/tuanvumaihuynh/graphql-crm/internal/storage/db"
	"github.com/tuanvumaihuynh/graphql-crm/pkg/ptr"
)

type customerSeed struct {
	name  string
	email string
	phone *string
}

type productSeed struct {
	name  string
	price string
	stock int
}

var customers = []customerSeed{
	{name: "Alice", email: "alice@example.com", phone: ptr.New("555-123-4567")},
	{name: "Bob", email: "bob@example.com"},
	{name: "Carol", email: "carol@example.com"},
}

var products = []productSeed{
	{name: "Laptop", price: "999.99", stock: 50},
	{name: "Mouse", price: "25.50", stock: 200},
	{name: "Keyboard", price: "75.00", stock: 150},
}

// Result counts the rows a run inserted.
type Result struct {
	CustomersCreated int
	ProductsCreated  int
}

type Seeder struct {
	db            db.DB
	logger        *slog.Logger
	customerRepo  repository.CustomerRepository
	productRepo   repository.ProductRepository
	outboxMsgRepo repository.OutboxMsgRepository
}

func New(
	db db.DB,
	logger *slog.Logger,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
) *Seeder {
	return &Seeder{
		db:            db,
		logger:        logger.With(slog.String("component", "seed")),
		customerRepo:  customerRepo,
		productRepo:   productRepo,
		outboxMsgRepo: outboxMsgRepo,
	}
}

// Run gets or creates every sample row in one transaction: customers by
// email, products by name.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result
	if err := s.db.WithTx(ctx, func(d db.DB) error {
		res = Result{}

		for _, c := range customers {
			created, err := s.getOrCreateCustomer(ctx, d, c)
			if err != nil {
				return fmt.Errorf("seed customer %s: %w", c.email, err)
			}
			if created {
				res.CustomersCreated++
			}
		}

		for _, p := range products {
			created, err := s.getOrCreateProduct(ctx, d, p)
			if err != nil {
				return fmt.Errorf("seed product %s: %w", p.name, err)
			}
			if created {
				res.ProductsCreated++
			}
		}

		return nil
	}); err != nil {
		return Result{}, fmt.Errorf("db with tx: %w", err)
	}

	return res, nil
}

func (s *Seeder) getOrCreateCustomer(ctx context.Context, d db.DB, c customerSeed) (bool, error) {
	repo := s.customerRepo.WithDB(d)

	_, err := repo.GetCustomerByEmail(ctx, c.email)
	if err == nil {
		s.logger.DebugContext(ctx, "customer exists", slog.String("email", c.email))
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("customer repository get customer by email: %w", err)
	}

	customer := model.Customer{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      c.name,
		Email:     c.email,
		Phone:     c.phone,
		CreatedAt: model.Now(),
	}
	if err := repo.CreateCustomer(ctx, customer); err != nil {
		return false, fmt.Errorf("customer repository create customer: %w", err)
	}

	if err := repository.WriteEvent(ctx, s.outboxMsgRepo.WithDB(d), event.TopicCustomerCreated, customer.ID.String(),
		event.NewCustomerCreatedEvent(customer)); err != nil {
		return false, err
	}

	s.logger.InfoContext(ctx, "customer created", slog.String("email", c.email))
	return true, nil
}

func (s *Seeder) getOrCreateProduct(ctx context.Context, d db.DB, p productSeed) (bool, error) {
	repo := s.productRepo.WithDB(d)

	_, err := repo.GetProductByName(ctx, p.name)
	if err == nil {
		s.logger.DebugContext(ctx, "product exists", slog.String("name", p.name))
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("product repository get product by name: %w", err)
	}

	product := model.Product{
		ID:    uuid.Must(uuid.NewV7()),
		Name:  p.name,
		Price: decimal.RequireFromString(p.price),
		Stock: p.stock,
	}
	if err := repo.CreateProduct(ctx, product); err != nil {
		return false, fmt.Errorf("product repository create product: %w", err)
	}

	if err := repository.WriteEvent(ctx, s.outboxMsgRepo.WithDB(d), event.TopicProductCreated, product.ID.String(),
		event.NewProductCreatedEvent(product)); err != nil {
		return false, err
	}

	s.logger.InfoContext(ctx, "product created", slog.String("name", p.name))
	return true, nil
}
