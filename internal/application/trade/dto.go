package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/design"
	"github.com/storefront/backend/internal/domain/trade"
)

// DesignElementResponse is a stored design element
type DesignElementResponse struct {
	ID            uuid.UUID                 `json:"id"`
	ProductViewID string                    `json:"product_view_id"`
	ElementType   string                    `json:"element_type"`
	Content       string                    `json:"content"`
	FontFamily    string                    `json:"font_family,omitempty"`
	FontSize      float64                   `json:"font_size,omitempty"`
	Color         string                    `json:"color,omitempty"`
	Width         float64                   `json:"width"`
	Height        float64                   `json:"height"`
	PositionX     float64                   `json:"position_x"`
	PositionY     float64                   `json:"position_y"`
	Rotation      float64                   `json:"rotation"`
	ScaleX        float64                   `json:"scale_x"`
	ScaleY        float64                   `json:"scale_y"`
	Source        string                    `json:"source,omitempty"`
	Attributes    *design.ElementAttributes `json:"attributes,omitempty"`
}

// OrderItemResponse is an order line with its design
type OrderItemResponse struct {
	ID             uuid.UUID               `json:"id"`
	ProductID      uuid.UUID               `json:"product_id"`
	ProductName    string                  `json:"product_name"`
	Quantity       int                     `json:"quantity"`
	UnitPrice      decimal.Decimal         `json:"unit_price"`
	Subtotal       decimal.Decimal         `json:"subtotal"`
	VariantDetails map[string]any          `json:"variant_details"`
	DesignElements []DesignElementResponse `json:"design_elements"`
}

// OrderResponse is a full order for the admin back office and order history
type OrderResponse struct {
	ID               uuid.UUID           `json:"id"`
	OrderNumber      string              `json:"order_number"`
	UserID           *uuid.UUID          `json:"user_id,omitempty"`
	CustomerName     string              `json:"customer_name"`
	CustomerEmail    string              `json:"customer_email"`
	CustomerPhone    string              `json:"customer_phone"`
	DeliveryAddress  string              `json:"delivery_address"`
	DeliveryCity     string              `json:"delivery_city,omitempty"`
	DeliveryPostcode string              `json:"delivery_postcode"`
	OrderNotes       string              `json:"order_notes,omitempty"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	Status           string              `json:"status"`
	Items            []OrderItemResponse `json:"items"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// OrderListFilter is the admin listing query
type OrderListFilter struct {
	Status    string `form:"status" binding:"omitempty,oneof=pending in_progress completed cancelled"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset    int    `form:"offset" binding:"omitempty,min=0"`
}

// UpdateStatusRequest is an admin status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderStatsResponse is the dashboard summary
type OrderStatsResponse struct {
	TotalOrders     int64           `json:"total_orders"`
	PendingOrders   int64           `json:"pending_orders"`
	CompletedOrders int64           `json:"completed_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
}

// DailyRevenueResponse is one day of the revenue chart
type DailyRevenueResponse struct {
	Date    string          `json:"date"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ProductSalesResponse is one row of the top products table
type ProductSalesResponse struct {
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"total_quantity"`
	Revenue     decimal.Decimal `json:"total_revenue"`
}

// WhatsAppLinkResponse carries the admin handoff link
type WhatsAppLinkResponse struct {
	WhatsAppURL string `json:"whatsappUrl"`
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		elements := make([]DesignElementResponse, 0, len(it.Elements))
		for _, e := range it.Elements {
			elements = append(elements, DesignElementResponse{
				ID:            e.ID,
				ProductViewID: e.ProductViewID,
				ElementType:   string(e.ElementType),
				Content:       e.Content,
				FontFamily:    e.FontFamily,
				FontSize:      e.FontSize,
				Color:         e.Color,
				Width:         e.Width,
				Height:        e.Height,
				PositionX:     e.PositionX,
				PositionY:     e.PositionY,
				Rotation:      e.Rotation,
				ScaleX:        e.ScaleX,
				ScaleY:        e.ScaleY,
				Source:        string(e.Source),
				Attributes:    e.Attributes,
			})
		}
		items = append(items, OrderItemResponse{
			ID:             it.ID,
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			Subtotal:       it.Subtotal,
			VariantDetails: it.VariantDetails,
			DesignElements: elements,
		})
	}
	return OrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		UserID:           o.UserID,
		CustomerName:     o.Customer.Name,
		CustomerEmail:    o.Customer.Email,
		CustomerPhone:    o.Customer.Phone,
		DeliveryAddress:  o.Delivery.Address,
		DeliveryCity:     o.Delivery.City,
		DeliveryPostcode: o.Delivery.Postcode,
		OrderNotes:       o.Notes,
		TotalAmount:      o.TotalAmount,
		Status:           o.Status.String(),
		Items:            items,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderResponse(&orders[i]))
	}
	return out
}
