package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// withItems preloads items in submission order and their elements in z-order
func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.Elements", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		})
}

// Insert writes the order row only
func (r *GormOrderRepository) Insert(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return trade.ErrDuplicateOrderNumber
		}
		return err
	}
	return nil
}

// InsertItem writes one order item row after the order's existing items
func (r *GormOrderRepository) InsertItem(ctx context.Context, item *trade.OrderItem) error {
	db := r.db.WithContext(ctx)
	var position int64
	if err := db.Model(&models.OrderItemModel{}).
		Where("order_id = ?", item.OrderID).
		Count(&position).Error; err != nil {
		return err
	}
	model := models.OrderItemModelFromDomain(item)
	model.Position = int(position)
	return db.Omit(clause.Associations).Create(model).Error
}

// InsertElements writes design element rows in the given order
func (r *GormOrderRepository) InsertElements(ctx context.Context, elements []trade.DesignElement) error {
	if len(elements) == 0 {
		return nil
	}
	rows := make([]models.DesignElementModel, len(elements))
	for i, e := range elements {
		rows[i] = models.DesignElementModelFromDomain(e)
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// FindByID loads an order with items and design elements
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByOrderNumber loads an order by its human-readable number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.Order, error) {
	return r.findOne(ctx, "order_number = ?", orderNumber)
}

func (r *GormOrderRepository) findOne(ctx context.Context, query string, arg any) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Scopes(withItems).
		Where(query, arg).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, trade.ErrOrderNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists orders newest first with items and design elements, plus the unpaged count
func (r *GormOrderRepository) FindAll(ctx context.Context, filter trade.OrderFilter) ([]trade.Order, int64, error) {
	filter = filter.Normalized()
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.OrderModel{}).
		Scopes(matchingOrders(filter)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OrderModel
	if err := db.Scopes(matchingOrders(filter), withItems).
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toOrders(rows), total, nil
}

// matchingOrders applies the filter's status and date range
func matchingOrders(filter trade.OrderFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Status != nil {
			db = db.Where("status = ?", *filter.Status)
		}
		if filter.StartDate != nil {
			db = db.Where("created_at >= ?", *filter.StartDate)
		}
		if filter.EndDate != nil {
			db = db.Where("created_at <= ?", *filter.EndDate)
		}
		return db
	}
}

// FindByUser lists a customer's orders newest first
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]trade.Order, error) {
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Scopes(withItems).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

func toOrders(rows []models.OrderModel) []trade.Order {
	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders
}

// UpdateStatus persists the order's status with optimistic locking.
// The row is only written if its version still matches the loaded order.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, order *trade.Order) error {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]any{
			"status":     order.Status,
			"version":    order.Version + 1,
			"updated_at": order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := db.Model(&models.OrderModel{}).Where("id = ?", order.ID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return trade.ErrOrderNotFound
		}
		return trade.ErrConcurrentModification
	}
	order.IncrementVersion()
	return nil
}

// Delete removes design elements, then items, then the order, atomically
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var itemIDs []uuid.UUID
		if err := tx.Model(&models.OrderItemModel{}).
			Where("order_id = ?", id).
			Pluck("id", &itemIDs).Error; err != nil {
			return err
		}
		if len(itemIDs) > 0 {
			if err := tx.Where("order_item_id IN ?", itemIDs).
				Delete(&models.DesignElementModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id = ?", id).
				Delete(&models.OrderItemModel{}).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&models.OrderModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return trade.ErrOrderNotFound
		}
		return nil
	})
}

// Stats returns the dashboard counters
func (r *GormOrderRepository) Stats(ctx context.Context) (trade.OrderStats, error) {
	var row struct {
		TotalOrders     int64
		PendingOrders   int64
		CompletedOrders int64
		TotalRevenue    decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select(
			"COUNT(*) AS total_orders, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_orders, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed_orders, "+
				"COALESCE(SUM(total_amount), 0) AS total_revenue",
			trade.OrderStatusPending, trade.OrderStatusCompleted,
		).
		Scan(&row).Error
	if err != nil {
		return trade.OrderStats{}, err
	}
	return trade.OrderStats{
		TotalOrders:     row.TotalOrders,
		PendingOrders:   row.PendingOrders,
		CompletedOrders: row.CompletedOrders,
		TotalRevenue:    row.TotalRevenue,
	}, nil
}

// RevenueByDay returns up to limit days of non-cancelled revenue, oldest first
func (r *GormOrderRepository) RevenueByDay(ctx context.Context, limit int) ([]trade.DailyRevenue, error) {
	day := dayExpr(r.db)
	var rows []struct {
		Day     string
		Orders  int64
		Revenue decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select(day+" AS day, COUNT(*) AS orders, COALESCE(SUM(total_amount), 0) AS revenue").
		Where("status <> ?", trade.OrderStatusCancelled).
		Group("day").
		Order("day ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]trade.DailyRevenue, len(rows))
	for i, row := range rows {
		out[i] = trade.DailyRevenue{Date: row.Day, Orders: row.Orders, Revenue: row.Revenue}
	}
	return out, nil
}

// dayExpr formats created_at as YYYY-MM-DD in the connection's SQL dialect
func dayExpr(db *gorm.DB) string {
	if db.Dialector.Name() == "sqlite" {
		return "strftime('%Y-%m-%d', created_at)"
	}
	return "TO_CHAR(created_at, 'YYYY-MM-DD')"
}

// TopProducts returns up to limit products by units sold
func (r *GormOrderRepository) TopProducts(ctx context.Context, limit int) ([]trade.ProductSales, error) {
	var rows []struct {
		ProductName string
		Units       int64
		Revenue     decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.OrderItemModel{}).
		Select("product_name, SUM(quantity) AS units, COALESCE(SUM(subtotal), 0) AS revenue").
		Group("product_name").
		Order("units DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]trade.ProductSales, len(rows))
	for i, row := range rows {
		out[i] = trade.ProductSales{ProductName: row.ProductName, Quantity: row.Units, Revenue: row.Revenue}
	}
	return out, nil
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
