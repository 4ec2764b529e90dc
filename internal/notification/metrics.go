package notification

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/kindlingapp/kindling/internal/notification"

// Metrics holds metrics for push gateway deliveries.
type Metrics struct {
	deliveryDuration metric.Float64Histogram
	deliveryTotal    metric.Int64Counter
}

// NewMetrics creates metrics for monitoring push deliveries.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	deliveryDuration, err := meter.Float64Histogram(
		"push.delivery.duration",
		metric.WithDescription("Duration of push deliveries in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	deliveryTotal, err := meter.Int64Counter(
		"push.delivery.total",
		metric.WithDescription("Total number of push deliveries"),
		metric.WithUnit("{delivery}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		deliveryDuration: deliveryDuration,
		deliveryTotal:    deliveryTotal,
	}, nil
}

// RecordDelivery records one push delivery attempt.
func (m *Metrics) RecordDelivery(kind string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("push.kind", kind),
	}
	if err != nil {
		attrs = append(attrs, attribute.Bool("error", true))
	}

	// Deliveries outlive their originating request; record against a
	// fresh context.
	ctx := context.TODO()
	m.deliveryDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.deliveryTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}
