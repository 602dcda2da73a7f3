package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderFilter narrows the admin order listing
type OrderFilter struct {
	Status    *OrderStatus
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// DefaultOrderListLimit is the page size when none is given
const DefaultOrderListLimit = 50

// Normalized returns the filter with a usable limit and offset
func (f OrderFilter) Normalized() OrderFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultOrderListLimit
	}
	if f.Limit > 500 {
		f.Limit = 500
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// OrderStats is the admin dashboard summary
type OrderStats struct {
	TotalOrders     int64
	PendingOrders   int64
	CompletedOrders int64
	TotalRevenue    decimal.Decimal
}

// DailyRevenue is revenue and order count for one calendar day
type DailyRevenue struct {
	Date    string
	Orders  int64
	Revenue decimal.Decimal
}

// ProductSales is units and revenue summed per product name
type ProductSales struct {
	ProductName string
	Quantity    int64
	Revenue     decimal.Decimal
}

// OrderRepository defines the interface for order persistence.
// A repository obtained from a transaction scope runs every call in that transaction.
type OrderRepository interface {
	// Insert writes the order row only
	Insert(ctx context.Context, order *Order) error

	// InsertItem writes one order item row
	InsertItem(ctx context.Context, item *OrderItem) error

	// InsertElements writes design element rows in the given order
	InsertElements(ctx context.Context, elements []DesignElement) error

	// FindByID loads an order with items and design elements
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber loads an order by its human-readable number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindAll lists orders newest first with items and design elements, plus the unpaged count
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, int64, error)

	// FindByUser lists a customer's orders newest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)

	// UpdateStatus persists the order's status
	UpdateStatus(ctx context.Context, order *Order) error

	// Delete removes design elements, then items, then the order, atomically
	Delete(ctx context.Context, id uuid.UUID) error

	// Stats returns the dashboard counters
	Stats(ctx context.Context) (OrderStats, error)

	// RevenueByDay returns up to limit days of non-cancelled revenue, oldest first
	RevenueByDay(ctx context.Context, limit int) ([]DailyRevenue, error)

	// TopProducts returns up to limit products by units sold
	TopProducts(ctx context.Context, limit int) ([]ProductSales, error)
}
