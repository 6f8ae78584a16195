package event_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/graphql-crm/internal/event"
	"github.com/tuanvumaihuynh/graphql-crm/internal/model"
	"github.com/tuanvumaihuynh/graphql-crm/internal/storage/mq"
)

type fakeConsumer struct {
	handlers map[string]mq.HandlerFunc
	running  bool
}

func (c *fakeConsumer) RegisterHandler(topic string, handler mq.HandlerFunc) error {
	if c.handlers == nil {
		c.handlers = map[string]mq.HandlerFunc{}
	}
	c.handlers[topic] = handler
	return nil
}

func (c *fakeConsumer) Run(context.Context) (mq.CleanupFunc, error) {
	c.running = true
	return func() { c.running = false }, nil
}

func TestServiceRun(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	consumer := &fakeConsumer{}

	cleanup, err := event.New(logger, consumer).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, consumer.running)
	assert.Len(t, consumer.handlers, 3)

	order := model.Order{
		ID:          uuid.New(),
		CustomerID:  uuid.New(),
		TotalAmount: decimal.RequireFromString("35.50"),
		OrderDate:   time.Now(),
		Products:    []model.Product{{ID: uuid.New()}, {ID: uuid.New()}},
	}
	payload, err := json.Marshal(event.NewOrderCreatedEvent(order))
	require.NoError(t, err)

	require.NoError(t, consumer.handlers[event.TopicOrderCreated](context.Background(), event.TopicOrderCreated, payload))
	assert.Contains(t, buf.String(), `"msg":"handling order created event"`)
	assert.Contains(t, buf.String(), `"total_amount":"35.50"`)
	assert.Contains(t, buf.String(), `"product_count":2`)

	err = consumer.handlers[event.TopicCustomerCreated](context.Background(), event.TopicCustomerCreated, []byte("{"))
	assert.ErrorContains(t, err, "unmarshal crm.customer.created event")

	cleanup()
	assert.False(t, consumer.running)
}
