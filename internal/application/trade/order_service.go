package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// Default analytics windows
const (
	DefaultRevenueDays = 30
	DefaultTopProducts = 10
)

// OrderService handles order queries and admin operations after checkout
type OrderService struct {
	orderRepo      trade.OrderRepository
	whatsappNumber string
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository, whatsappNumber string, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{orderRepo: orderRepo, whatsappNumber: whatsappNumber, logger: logger}
}

// SetEventPublisher sets the event publisher for status change notifications
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetByID returns an order with items and design elements
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetForUser returns an order only if userID placed it
func (s *OrderService) GetForUser(ctx context.Context, userID, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, trade.ErrOrderNotFound
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List returns orders newest first with the unpaged total
func (s *OrderService) List(ctx context.Context, f OrderListFilter) ([]OrderResponse, int64, error) {
	filter := trade.OrderFilter{Limit: f.Limit, Offset: f.Offset}
	if f.Status != "" {
		status, err := trade.ParseOrderStatus(f.Status)
		if err != nil {
			return nil, 0, err
		}
		filter.Status = &status
	}
	if f.StartDate != "" {
		t, err := parseDate(f.StartDate)
		if err != nil {
			return nil, 0, err
		}
		filter.StartDate = &t
	}
	if f.EndDate != "" {
		t, err := parseDate(f.EndDate)
		if err != nil {
			return nil, 0, err
		}
		// inclusive of the whole end day
		t = t.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &t
	}

	orders, total, err := s.orderRepo.FindAll(ctx, filter.Normalized())
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, shared.NewValidationError("Invalid date: " + s)
	}
	return t, nil
}

// ListForUser returns a customer's order history newest first
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// UpdateStatus moves an order through its state machine
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	status, err := trade.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.TransitionTo(status); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}

	events := order.PullDomainEvents()
	if s.eventPublisher != nil && len(events) > 0 {
		// Notifications only; the status change is already committed
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("order events not published", zap.String("order_number", order.OrderNumber), zap.Error(err))
		}
	}

	resp := ToOrderResponse(order)
	return &resp, nil
}

// Delete removes an order with its items and design elements
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.orderRepo.Delete(ctx, id)
}

// Stats returns the dashboard counters
func (s *OrderService) Stats(ctx context.Context) (*OrderStatsResponse, error) {
	st, err := s.orderRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &OrderStatsResponse{
		TotalOrders:     st.TotalOrders,
		PendingOrders:   st.PendingOrders,
		CompletedOrders: st.CompletedOrders,
		TotalRevenue:    st.TotalRevenue,
	}, nil
}

// RevenueByDay returns up to limit days of revenue, oldest first, excluding cancelled orders
func (s *OrderService) RevenueByDay(ctx context.Context, limit int) ([]DailyRevenueResponse, error) {
	if limit <= 0 {
		limit = DefaultRevenueDays
	}
	rows, err := s.orderRepo.RevenueByDay(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]DailyRevenueResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, DailyRevenueResponse{Date: r.Date, Orders: r.Orders, Revenue: r.Revenue})
	}
	return out, nil
}

// TopProducts returns the best sellers by units
func (s *OrderService) TopProducts(ctx context.Context, limit int) ([]ProductSalesResponse, error) {
	if limit <= 0 {
		limit = DefaultTopProducts
	}
	rows, err := s.orderRepo.TopProducts(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]ProductSalesResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ProductSalesResponse{ProductName: r.ProductName, Quantity: r.Quantity, Revenue: r.Revenue})
	}
	return out, nil
}

// WhatsAppLink builds the admin handoff link for an order
func (s *OrderService) WhatsAppLink(ctx context.Context, id uuid.UUID) (*WhatsAppLinkResponse, error) {
	if s.whatsappNumber == "" {
		return nil, shared.NewDomainError("WHATSAPP_NOT_CONFIGURED", "WhatsApp number is not configured")
	}
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &WhatsAppLinkResponse{WhatsAppURL: WhatsAppURL(s.whatsappNumber, WhatsAppMessage(order))}, nil
}
