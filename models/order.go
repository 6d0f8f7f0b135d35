package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Order status values.
const (
	OrderStatusPending    = "pending"
	OrderStatusPaid       = "paid"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// Payment sub-status values.
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Shipping sub-status values.
const (
	ShippingStatusUnshipped = "unshipped"
	ShippingStatusShipped   = "shipped"
	ShippingStatusDelivered = "delivered"
	ShippingStatusReturned  = "returned"
)

// orderTransitions is the validity table for Order.Status. Cancel is reachable
// from any pre-shipped state, refund only after payment settled.
var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusPaid, OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusPaid:       {OrderStatusProcessing, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusRefunded},
	OrderStatusDelivered:  {OrderStatusRefunded},
	OrderStatusCancelled:  {},
	OrderStatusRefunded:   {},
}

var paymentStatusTransitions = map[string][]string{
	PaymentStatusUnpaid:   {PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusFailed:   {PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusPaid:     {PaymentStatusRefunded},
	PaymentStatusRefunded: {},
}

var shippingStatusTransitions = map[string][]string{
	ShippingStatusUnshipped: {ShippingStatusShipped},
	ShippingStatusShipped:   {ShippingStatusDelivered, ShippingStatusReturned},
	ShippingStatusDelivered: {ShippingStatusReturned},
	ShippingStatusReturned:  {},
}

func allowed(table map[string][]string, from, to string) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionOrderStatus reports whether from -> to is a legal order
// status transition.
func CanTransitionOrderStatus(from, to string) bool {
	return allowed(orderTransitions, from, to)
}

// CanTransitionPaymentStatus reports whether from -> to is a legal payment
// sub-status transition. A failed attempt may be retried, so failed -> failed
// and failed -> paid are both legal.
func CanTransitionPaymentStatus(from, to string) bool {
	return allowed(paymentStatusTransitions, from, to)
}

// CanTransitionShippingStatus reports whether from -> to is a legal shipping
// sub-status transition.
func CanTransitionShippingStatus(from, to string) bool {
	return allowed(shippingStatusTransitions, from, to)
}

// Order is an immutable-after-creation transaction record. The monetary
// snapshot (Subtotal/Tax/Shipping/Discount/Total) is frozen at creation and
// is never recomputed by any status transition.
type Order struct {
	ID             uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StoreID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"store_id"`
	OrderNumber    string            `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_number"`
	UserID         *uuid.UUID        `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Email          string            `gorm:"type:varchar(255)" json:"email,omitempty"`
	Status         string            `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus  string            `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	ShippingStatus string            `gorm:"type:varchar(20);not null;default:'unshipped'" json:"shipping_status"`
	Currency       string            `gorm:"type:varchar(10);not null" json:"currency"`
	Subtotal       float64           `gorm:"not null" json:"subtotal"`
	Tax            float64           `gorm:"not null" json:"tax"`
	Shipping       float64           `gorm:"not null" json:"shipping"`
	Discount       float64           `gorm:"not null" json:"discount"`
	Total          float64           `gorm:"not null" json:"total"`
	PaymentID      *uuid.UUID        `gorm:"type:uuid" json:"payment_id,omitempty"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	Items          []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CancelledAt    *time.Time        `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt    `gorm:"index" json:"-"`
}

// OrderItem is a frozen line item. ProductName and Price are snapshots taken
// at order time; later catalog edits must not alter them.
type OrderItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null" json:"product_id"`
	VariantID   *uuid.UUID `gorm:"type:uuid" json:"variant_id,omitempty"`
	ProductName string     `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int        `gorm:"not null" json:"quantity"`
	Price       float64    `gorm:"not null" json:"price"`
	Total       float64    `gorm:"not null" json:"total"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// CreateOrderRequest carries the frozen checkout snapshot. The cart-to-order
// conversion computes these numbers; this layer only persists them.
type CreateOrderRequest struct {
	StoreID  uuid.UUID              `json:"store_id" binding:"required"`
	UserID   *uuid.UUID             `json:"user_id"`
	Email    string                 `json:"email" binding:"omitempty,email"`
	Currency string                 `json:"currency"`
	Subtotal float64                `json:"subtotal" binding:"gte=0"`
	Tax      float64                `json:"tax" binding:"gte=0"`
	Shipping float64                `json:"shipping" binding:"gte=0"`
	Discount float64                `json:"discount" binding:"gte=0"`
	Total    float64                `json:"total" binding:"gte=0"`
	Metadata map[string]interface{} `json:"metadata"`
	Items    []CreateOrderItem      `json:"items" binding:"dive"`
}

// CreateOrderItem is one frozen line of a checkout snapshot.
type CreateOrderItem struct {
	ProductID   uuid.UUID  `json:"product_id" binding:"required"`
	VariantID   *uuid.UUID `json:"variant_id"`
	ProductName string     `json:"product_name" binding:"required"`
	Quantity    int        `json:"quantity" binding:"required,min=1"`
	Price       float64    `json:"price" binding:"gte=0"`
}

// UpdateOrderStatusRequest is the payload for a single status-dimension update.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderCreatedEvent is published when an order is persisted.
type OrderCreatedEvent struct {
	EventType   string    `json:"event_type"`
	OrderID     string    `json:"order_id"`
	StoreID     string    `json:"store_id"`
	OrderNumber string    `json:"order_number"`
	Total       float64   `json:"total"`
	Currency    string    `json:"currency"`
	Timestamp   time.Time `json:"timestamp"`
}
