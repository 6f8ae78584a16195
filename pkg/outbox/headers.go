package outbox

import (
	"context"
	"slices"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/tuanvumaihuynh/graphql-crm/pkg/correlationid"
)

// BuildHeaders returns the headers stored with an outbox row written under
// ctx: the propagated trace context and the correlation ID.
func BuildHeaders(ctx context.Context) map[string]string {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	if id, ok := correlationid.FromContext(ctx); ok {
		carrier.Set(correlationid.Header, id)
	}

	return carrier
}

// ContextFromRecord restores the trace context and correlation ID carried by
// a consumed record.
func ContextFromRecord(ctx context.Context, rec *kgo.Record) context.Context {
	carrier := RecordCarrier{rec: rec}
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

	if id := carrier.Get(correlationid.Header); id != "" {
		ctx = correlationid.NewContext(ctx, id)
	}

	return ctx
}

var _ propagation.TextMapCarrier = RecordCarrier{}

// RecordCarrier exposes the headers of a Kafka record as a propagation
// carrier. The first header wins when a key repeats.
type RecordCarrier struct {
	rec *kgo.Record
}

func NewRecordCarrier(rec *kgo.Record) RecordCarrier {
	return RecordCarrier{rec: rec}
}

func (c RecordCarrier) Get(key string) string {
	for _, h := range c.rec.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c RecordCarrier) Set(key, value string) {
	c.rec.Headers = slices.DeleteFunc(c.rec.Headers, func(h kgo.RecordHeader) bool {
		return h.Key == key
	})
	c.rec.Headers = append(c.rec.Headers, kgo.RecordHeader{Key: key, Value: []byte(value)})
}

func (c RecordCarrier) Keys() []string {
	keys := make([]string, 0, len(c.rec.Headers))
	for _, h := range c.rec.Headers {
		keys = append(keys, h.Key)
	}
	return keys
}
