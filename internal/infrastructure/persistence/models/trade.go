package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/design"
	"github.com/storefront/backend/internal/domain/trade"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	OrderNumber      string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	UserID           *uuid.UUID        `gorm:"type:uuid;index"`
	CustomerName     string            `gorm:"type:varchar(200);not null"`
	CustomerEmail    string            `gorm:"type:varchar(200);not null"`
	CustomerPhone    string            `gorm:"type:varchar(50);not null"`
	DeliveryAddress  string            `gorm:"type:text;not null"`
	DeliveryCity     string            `gorm:"type:varchar(100);not null"`
	DeliveryPostcode string            `gorm:"type:varchar(20);not null"`
	Notes            string            `gorm:"type:text"`
	TotalAmount      decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Status           trade.OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Items            []OrderItemModel  `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *trade.Order {
	order := &trade.Order{
		BaseAggregateRoot: m.root(),
		OrderNumber:       m.OrderNumber,
		UserID:            m.UserID,
		Customer: trade.Customer{
			Name:  m.CustomerName,
			Email: m.CustomerEmail,
			Phone: m.CustomerPhone,
		},
		Delivery: trade.Delivery{
			Address:  m.DeliveryAddress,
			City:     m.DeliveryCity,
			Postcode: m.DeliveryPostcode,
		},
		Notes:       m.Notes,
		TotalAmount: m.TotalAmount,
		Status:      m.Status,
		Items:       make([]trade.OrderItem, len(m.Items)),
	}
	for i := range m.Items {
		order.Items[i] = *m.Items[i].ToDomain()
	}
	return order
}

// OrderModelFromDomain creates the order row only. Items are written separately.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{
		OrderNumber:      o.OrderNumber,
		UserID:           o.UserID,
		CustomerName:     o.Customer.Name,
		CustomerEmail:    o.Customer.Email,
		CustomerPhone:    o.Customer.Phone,
		DeliveryAddress:  o.Delivery.Address,
		DeliveryCity:     o.Delivery.City,
		DeliveryPostcode: o.Delivery.Postcode,
		Notes:            o.Notes,
		TotalAmount:      o.TotalAmount,
		Status:           o.Status,
	}
	m.setRoot(&o.BaseAggregateRoot)
	return m
}

// OrderItemModel is the persistence model for the OrderItem entity.
type OrderItemModel struct {
	ID             uuid.UUID            `gorm:"type:uuid;primary_key"`
	OrderID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductName    string               `gorm:"type:varchar(200);not null"`
	Quantity       int                  `gorm:"not null"`
	UnitPrice      decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Subtotal       decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	VariantDetails map[string]any       `gorm:"type:jsonb;serializer:json"`
	Position       int                  `gorm:"not null;default:0"`
	Elements       []DesignElementModel `gorm:"foreignKey:OrderItemID;references:ID"`
	CreatedAt      time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
// Elements keep their stored z-order.
func (m *OrderItemModel) ToDomain() *trade.OrderItem {
	item := &trade.OrderItem{
		ID:             m.ID,
		OrderID:        m.OrderID,
		ProductID:      m.ProductID,
		ProductName:    m.ProductName,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
		Subtotal:       m.Subtotal,
		VariantDetails: m.VariantDetails,
		Elements:       make([]trade.DesignElement, len(m.Elements)),
		CreatedAt:      m.CreatedAt,
	}
	if item.VariantDetails == nil {
		item.VariantDetails = map[string]any{}
	}
	for i := range m.Elements {
		item.Elements[i] = m.Elements[i].ToDomain()
	}
	return item
}

// OrderItemModelFromDomain creates the item row only. Elements are written separately.
func OrderItemModelFromDomain(i *trade.OrderItem) *OrderItemModel {
	return &OrderItemModel{
		ID:             i.ID,
		OrderID:        i.OrderID,
		ProductID:      i.ProductID,
		ProductName:    i.ProductName,
		Quantity:       i.Quantity,
		UnitPrice:      i.UnitPrice,
		Subtotal:       i.Subtotal,
		VariantDetails: i.VariantDetails,
		CreatedAt:      i.CreatedAt,
	}
}

// DesignElementModel is a flattened design element as printed.
type DesignElementModel struct {
	ID            uuid.UUID                 `gorm:"type:uuid;primary_key"`
	OrderItemID   uuid.UUID                 `gorm:"type:uuid;not null;index"`
	ProductViewID string                    `gorm:"type:varchar(100);not null"`
	ElementType   design.Kind               `gorm:"type:varchar(20);not null"`
	Content       string                    `gorm:"type:text"`
	FontFamily    string                    `gorm:"type:varchar(100)"`
	FontSize      float64                   `gorm:"not null;default:0"`
	Color         string                    `gorm:"type:varchar(20)"`
	Width         float64                   `gorm:"not null;default:0"`
	Height        float64                   `gorm:"not null;default:0"`
	PositionX     float64                   `gorm:"not null;default:0"`
	PositionY     float64                   `gorm:"not null;default:0"`
	Rotation      float64                   `gorm:"not null;default:0"`
	ScaleX        float64                   `gorm:"not null"`
	ScaleY        float64                   `gorm:"not null"`
	Source        design.ImageOrigin        `gorm:"type:varchar(20)"`
	Attributes    *design.ElementAttributes `gorm:"type:jsonb;serializer:json"`
	SortOrder     int                       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DesignElementModel) TableName() string {
	return "design_elements"
}

// ToDomain converts the persistence model to a domain DesignElement.
func (m *DesignElementModel) ToDomain() trade.DesignElement {
	return trade.DesignElement{
		ID:            m.ID,
		OrderItemID:   m.OrderItemID,
		ProductViewID: m.ProductViewID,
		ElementType:   m.ElementType,
		Content:       m.Content,
		FontFamily:    m.FontFamily,
		FontSize:      m.FontSize,
		Color:         m.Color,
		Width:         m.Width,
		Height:        m.Height,
		PositionX:     m.PositionX,
		PositionY:     m.PositionY,
		Rotation:      m.Rotation,
		ScaleX:        m.ScaleX,
		ScaleY:        m.ScaleY,
		Source:        m.Source,
		Attributes:    m.Attributes,
		SortOrder:     m.SortOrder,
	}
}

// DesignElementModelFromDomain creates a design element row
func DesignElementModelFromDomain(e trade.DesignElement) DesignElementModel {
	return DesignElementModel{
		ID:            e.ID,
		OrderItemID:   e.OrderItemID,
		ProductViewID: e.ProductViewID,
		ElementType:   e.ElementType,
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
		Source:        e.Source,
		Attributes:    e.Attributes,
		SortOrder:     e.SortOrder,
	}
}
