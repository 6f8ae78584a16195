package event

import (
	"context"
	"log/slog"
)

func (s *Service) handleCustomerCreatedEvent(ctx context.Context, ev CustomerCreatedEvent) error {
	s.logger.InfoContext(ctx, "handling customer created event",
		slog.String("customer_id", ev.CustomerID),
		slog.String("email", ev.Email),
	)
	return nil
}

func (s *Service) handleProductCreatedEvent(ctx context.Context, ev ProductCreatedEvent) error {
	s.logger.InfoContext(ctx, "handling product created event",
		slog.String("product_id", ev.ProductID),
		slog.String("name", ev.Name),
		slog.String("price", ev.Price.StringFixed(2)),
		slog.Int("stock", ev.Stock),
	)
	return nil
}

func (s *Service) handleOrderCreatedEvent(ctx context.Context, ev OrderCreatedEvent) error {
	s.logger.InfoContext(ctx, "handling order created event",
		slog.String("order_id", ev.OrderID),
		slog.String("customer_id", ev.CustomerID),
		slog.Int("product_count", len(ev.ProductIDs)),
		slog.String("total_amount", ev.TotalAmount.StringFixed(2)),
	)
	return nil
}
