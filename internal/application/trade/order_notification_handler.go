package trade

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderNotificationHandler announces new orders and status changes to the shop.
// It writes structured log lines where a mail or chat notifier would hook in.
type OrderNotificationHandler struct {
	logger *zap.Logger
}

// NewOrderNotificationHandler creates a new OrderNotificationHandler
func NewOrderNotificationHandler(logger *zap.Logger) *OrderNotificationHandler {
	return &OrderNotificationHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderNotificationHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderCreated, trade.EventTypeOrderStatusChanged}
}

// Handle logs the notification for the event
func (h *OrderNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *trade.OrderCreatedEvent:
		h.logger.Info("new order notification",
			zap.String("order_id", e.OrderID.String()),
			zap.String("order_number", e.OrderNumber),
			zap.String("total_amount", e.TotalAmount.StringFixed(2)),
			zap.Int("items_count", len(e.Items)),
			zap.Int("element_count", e.ElementCount),
		)
	case *trade.OrderStatusChangedEvent:
		h.logger.Info("order status notification",
			zap.String("order_id", e.OrderID.String()),
			zap.String("order_number", e.OrderNumber),
			zap.String("from", e.From.String()),
			zap.String("to", e.To.String()),
		)
	default:
		h.logger.Error("unexpected event type",
			zap.Strings("expected", h.EventTypes()),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	return nil
}
