package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the fulfilment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var (
	ErrOrderNotFound           = shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	ErrDuplicateOrderNumber    = shared.NewDomainError("DUPLICATE_ORDER_NUMBER", "Order number already exists")
	ErrInvalidStatus           = shared.NewDomainError(shared.CodeValidationFailed, "Invalid status")
	ErrInvalidStatusTransition = shared.NewDomainError("INVALID_STATUS_TRANSITION", "Order status cannot change this way")
	ErrConcurrentModification  = shared.NewDomainError("CONCURRENCY_CONFLICT", "The order has been modified by another user")
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Transitions are single-step; completed and cancelled are terminal.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusInProgress || target == OrderStatusCancelled
	case OrderStatusInProgress:
		return target == OrderStatusCompleted || target == OrderStatusCancelled
	case OrderStatusCompleted, OrderStatusCancelled:
		return false
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// ParseOrderStatus validates a status value coming from outside the domain
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// Customer is the contact recorded on an order
type Customer struct {
	Name  string
	Email string
	Phone string
}

// Delivery is the shipping destination of an order
type Delivery struct {
	Address  string
	City     string
	Postcode string
}

// Order is a placed storefront order.
// TotalAmount always equals the sum of its items' subtotals.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber string
	UserID      *uuid.UUID
	Customer    Customer
	Delivery    Delivery
	Notes       string
	TotalAmount decimal.Decimal
	Status      OrderStatus
	Items       []OrderItem
}

// NewOrder creates a pending order with no items
func NewOrder(orderNumber string, customer Customer, delivery Delivery, notes string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		Customer:          customer,
		Delivery:          delivery,
		Notes:             notes,
		TotalAmount:       decimal.Zero,
		Status:            OrderStatusPending,
		Items:             make([]OrderItem, 0),
	}, nil
}

// SetUser records the authenticated customer who placed the order
func (o *Order) SetUser(userID uuid.UUID) {
	if userID == uuid.Nil {
		o.UserID = nil
		return
	}
	o.UserID = &userID
}

// AddItem appends a line priced at unitPrice and recalculates the total
func (o *Order) AddItem(productID uuid.UUID, productName string, quantity int, unitPrice decimal.Decimal, variantDetails map[string]any) (*OrderItem, error) {
	item, err := NewOrderItem(o.ID, productID, productName, quantity, unitPrice, variantDetails)
	if err != nil {
		return nil, err
	}
	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	return &o.Items[len(o.Items)-1], nil
}

// Item returns the item at index i for in-place mutation
func (o *Order) Item(i int) *OrderItem {
	return &o.Items[i]
}

// Place finalizes a newly built order and raises OrderCreated
func (o *Order) Place() error {
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot place an order without items")
	}
	o.recalculateTotal()
	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return nil
}

// StartProgress moves a pending order into production
func (o *Order) StartProgress() error {
	return o.TransitionTo(OrderStatusInProgress)
}

// Complete marks an in-progress order as fulfilled
func (o *Order) Complete() error {
	return o.TransitionTo(OrderStatusCompleted)
}

// Cancel cancels a pending or in-progress order
func (o *Order) Cancel() error {
	return o.TransitionTo(OrderStatusCancelled)
}

// TransitionTo applies one admin-triggered status change.
// The version is left alone; the repository bumps it when the change is saved.
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}
	if !o.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, o.Status, target)
	}
	from := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))
	return nil
}

// TotalMoney returns the order total in the storefront currency
func (o *Order) TotalMoney() valueobject.Money {
	return valueobject.Pounds(o.TotalAmount)
}

// ElementCount returns the number of design elements across all items
func (o *Order) ElementCount() int {
	n := 0
	for _, item := range o.Items {
		n += len(item.Elements)
	}
	return n
}

// ItemsTotal sums item subtotals
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	return total
}

func (o *Order) recalculateTotal() {
	o.TotalAmount = o.ItemsTotal()
}

// OrderItem is one priced line of an order
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	// UnitPrice and Subtotal are computed server side
	UnitPrice      decimal.Decimal
	Subtotal       decimal.Decimal
	VariantDetails map[string]any
	Elements       []DesignElement
	CreatedAt      time.Time
}

// DefaultProductName labels items submitted without a name
const DefaultProductName = "Custom Product"

// NewOrderItem creates an order item. Subtotal is unitPrice × quantity with no rounding.
func NewOrderItem(orderID, productID uuid.UUID, productName string, quantity int, unitPrice decimal.Decimal, variantDetails map[string]any) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if productName == "" {
		productName = DefaultProductName
	}
	if variantDetails == nil {
		variantDetails = map[string]any{}
	}
	return &OrderItem{
		ID:             uuid.New(),
		OrderID:        orderID,
		ProductID:      productID,
		ProductName:    productName,
		Quantity:       quantity,
		UnitPrice:      unitPrice,
		Subtotal:       valueobject.Pounds(unitPrice).Times(quantity).Amount,
		VariantDetails: variantDetails,
		CreatedAt:      time.Now(),
	}, nil
}

// AddElement attaches a design element, assigning it to this item
func (i *OrderItem) AddElement(e DesignElement) {
	e.OrderItemID = i.ID
	e.SortOrder = len(i.Elements)
	i.Elements = append(i.Elements, e)
}

// SetPreview stores the composite preview reference in the variant details
func (i *OrderItem) SetPreview(ref string) {
	if i.VariantDetails == nil {
		i.VariantDetails = map[string]any{}
	}
	i.VariantDetails[VariantKeyPreview] = ref
}

// Variant keys with a fixed meaning
const (
	VariantKeySize    = "size"
	VariantKeyColor   = "color"
	VariantKeyPreview = "custom_preview"
)

// VariantString returns a string-valued variant detail
func (i *OrderItem) VariantString(key string) string {
	s, _ := i.VariantDetails[key].(string)
	return s
}
