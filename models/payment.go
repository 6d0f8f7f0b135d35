package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GatewayType tags a configured payment gateway.
type GatewayType string

const (
	GatewayStripe GatewayType = "stripe"
	GatewayPayPal GatewayType = "paypal"
	GatewaySquare GatewayType = "square"
	GatewayCustom GatewayType = "custom"
)

// Payment attempt status values. Every attempt row reaches exactly one
// terminal state; retries are new rows, never mutations of a failed one.
const (
	PaymentAttemptPending   = "pending"
	PaymentAttemptCompleted = "completed"
	PaymentAttemptFailed    = "failed"
)

// Refund status values.
const (
	RefundStatusPending   = "pending"
	RefundStatusCompleted = "completed"
	RefundStatusFailed    = "failed"
)

// PaymentMethod is a store's configured gateway. Config is the gateway's
// opaque settings bag (keys, account ids) and is never interpreted here.
type PaymentMethod struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StoreID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"store_id"`
	Type      GatewayType       `gorm:"type:varchar(20);not null" json:"type"`
	Name      string            `gorm:"type:varchar(128);not null" json:"name"`
	Config    datatypes.JSONMap `gorm:"type:jsonb" json:"config,omitempty"`
	Active    bool              `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt    `gorm:"index" json:"-"`
}

// Payment is one attempt against an order. Rows are append-only per attempt
// and retained for audit.
type Payment struct {
	ID              uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID         uuid.UUID   `gorm:"type:uuid;not null;index" json:"order_id"`
	PaymentMethodID uuid.UUID   `gorm:"type:uuid;not null" json:"payment_method_id"`
	GatewayType     GatewayType `gorm:"type:varchar(20);not null" json:"gateway_type"`
	Amount          float64     `gorm:"not null" json:"amount"`
	Currency        string      `gorm:"type:varchar(10);not null" json:"currency"`
	Status          string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TransactionID   *string     `gorm:"type:varchar(255);index" json:"transaction_id,omitempty"`
	ErrorMessage    *string     `gorm:"type:text" json:"error_message,omitempty"`
	SucceededAt     *time.Time  `json:"succeeded_at,omitempty"`
	FailedAt        *time.Time  `json:"failed_at,omitempty"`
	CreatedAt       time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// Refund is a reversal against a payment. Amount is validated by the payment
// engine against the original payment minus already-completed refunds; the
// storage layer does not enforce it.
type Refund struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	PaymentID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"payment_id"`
	Amount        float64    `gorm:"not null" json:"amount"`
	Currency      string     `gorm:"type:varchar(10);not null" json:"currency"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Reason        *string    `gorm:"type:text" json:"reason,omitempty"`
	TransactionID *string    `gorm:"type:varchar(255)" json:"transaction_id,omitempty"`
	ErrorMessage  *string    `gorm:"type:text" json:"error_message,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// CreatePaymentMethodRequest is the payload for configuring a store gateway.
type CreatePaymentMethodRequest struct {
	StoreID uuid.UUID              `json:"store_id" binding:"required"`
	Type    GatewayType            `json:"type" binding:"required,oneof=stripe paypal square custom"`
	Name    string                 `json:"name" binding:"required,min=1,max=128"`
	Config  map[string]interface{} `json:"config"`
}

// ProcessPaymentRequest is the payload for a single payment attempt.
type ProcessPaymentRequest struct {
	OrderID         uuid.UUID              `json:"order_id" binding:"required"`
	PaymentMethodID uuid.UUID              `json:"payment_method_id" binding:"required"`
	Amount          float64                `json:"amount" binding:"required,gt=0"`
	Currency        string                 `json:"currency"`
	Metadata        map[string]interface{} `json:"metadata"`
}

// CreateRefundRequest is the payload for opening a refund against a payment.
type CreateRefundRequest struct {
	OrderID   uuid.UUID `json:"order_id" binding:"required"`
	PaymentID uuid.UUID `json:"payment_id" binding:"required"`
	Amount    float64   `json:"amount" binding:"required,gt=0"`
	Reason    *string   `json:"reason"`
}

// PaymentEvent is published after a payment attempt reaches a terminal state.
type PaymentEvent struct {
	EventType string    `json:"event_type"`
	OrderID   string    `json:"order_id"`
	PaymentID string    `json:"payment_id"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
