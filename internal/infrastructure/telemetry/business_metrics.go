package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Metric names
const (
	MetricOrdersCreated       = "orders_created_total"
	MetricOrderValue          = "order_value_total"
	MetricOrderStatusChanges  = "order_status_changes_total"
	MetricMaterializeDuration = "order_materialize_duration"
)

// Metric attribute keys
const (
	AttrOrderStatus = attribute.Key("order_status")
	AttrOutcome     = attribute.Key("outcome")
)

// CheckoutDurationBuckets are histogram boundaries in seconds
var CheckoutDurationBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

var ErrMeterNil = errors.New("NewBusinessMetrics: meter cannot be nil")

// BusinessMetrics counts orders from domain events and times checkouts.
type BusinessMetrics struct {
	logger *zap.Logger

	ordersCreated       metric.Int64Counter
	orderValue          metric.Float64Counter
	statusChanges       metric.Int64Counter
	materializeDuration metric.Float64Histogram
}

type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	bm := &BusinessMetrics{logger: cfg.Logger}
	if bm.logger == nil {
		bm.logger = zap.NewNop()
	}

	m := cfg.Meter
	var errs [4]error
	bm.ordersCreated, errs[0] = m.Int64Counter(MetricOrdersCreated,
		metric.WithDescription("Orders created"), metric.WithUnit("{order}"))
	bm.orderValue, errs[1] = m.Float64Counter(MetricOrderValue,
		metric.WithDescription("Value of created orders"), metric.WithUnit("GBP"))
	bm.statusChanges, errs[2] = m.Int64Counter(MetricOrderStatusChanges,
		metric.WithDescription("Order status transitions by target status"), metric.WithUnit("{change}"))
	bm.materializeDuration, errs[3] = m.Float64Histogram(MetricMaterializeDuration,
		metric.WithDescription("Time to validate, price and persist one checkout"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(CheckoutDurationBuckets...))
	if err := errors.Join(errs[:]...); err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordMaterializeDuration observes one checkout attempt
func (bm *BusinessMetrics) RecordMaterializeDuration(ctx context.Context, d time.Duration, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	bm.materializeDuration.Record(ctx, d.Seconds(), metric.WithAttributes(AttrOutcome.String(outcome)))
}

func (bm *BusinessMetrics) EventTypes() []string {
	return []string{trade.EventTypeOrderCreated, trade.EventTypeOrderStatusChanged}
}

// Handle counts the event. Other events are ignored.
func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *trade.OrderCreatedEvent:
		bm.ordersCreated.Add(ctx, 1)
		if value, _ := e.TotalAmount.Float64(); value > 0 {
			bm.orderValue.Add(ctx, value)
		}
	case *trade.OrderStatusChangedEvent:
		bm.statusChanges.Add(ctx, 1, metric.WithAttributes(AttrOrderStatus.String(e.To.String())))
	default:
		bm.logger.Debug("business metrics ignored event", zap.String("event_type", event.EventType()))
	}
	return nil
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)
