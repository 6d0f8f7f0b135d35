package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DefaultCartLifetime is how long an untouched cart survives before the
// expiry sweep purges it.
const DefaultCartLifetime = 30 * 24 * time.Hour

// Cart is a mutable pre-checkout basket. Exactly one of UserID/SessionID
// identifies the owner. Monetary totals are derived by the cart engine's
// recompute and are never edited independently of it.
type Cart struct {
	ID             uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StoreID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"store_id"`
	UserID         *uuid.UUID        `gorm:"type:uuid;index" json:"user_id,omitempty"`
	SessionID      *string           `gorm:"type:varchar(128);index" json:"session_id,omitempty"`
	TotalPrice     float64           `gorm:"not null;default:0" json:"total_price"`
	TotalTax       float64           `gorm:"not null;default:0" json:"total_tax"`
	TotalShipping  float64           `gorm:"not null;default:0" json:"total_shipping"`
	CouponCode     *string           `gorm:"type:varchar(64)" json:"coupon_code,omitempty"`
	CouponDiscount float64           `gorm:"not null;default:0" json:"coupon_discount"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	ExpiresAt      time.Time         `gorm:"not null;index" json:"expires_at"`
	Items          []CartItem        `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// CartItem is a priced line in a cart. Price is a snapshot taken at add time
// and is not re-fetched from the catalog on read.
type CartItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CartID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"cart_id"`
	ProductID uuid.UUID  `gorm:"type:uuid;not null" json:"product_id"`
	VariantID *uuid.UUID `gorm:"type:uuid" json:"variant_id,omitempty"`
	Quantity  int        `gorm:"not null" json:"quantity"`
	Price     float64    `gorm:"not null" json:"price"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Subtotal is the sum of price x quantity over current items.
func (c *Cart) Subtotal() float64 {
	var subtotal float64
	for _, item := range c.Items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return subtotal
}

// CreateCartRequest is the payload for opening a new cart.
type CreateCartRequest struct {
	StoreID   uuid.UUID  `json:"store_id" binding:"required"`
	UserID    *uuid.UUID `json:"user_id"`
	SessionID *string    `json:"session_id"`
}

// AddCartItemRequest is the payload for adding a line to a cart.
type AddCartItemRequest struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest changes a line's quantity; zero or below removes it.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// ApplyCouponRequest is the payload for applying a coupon code to a cart.
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// SetShippingRequest is the payload for setting a cart's shipping cost.
type SetShippingRequest struct {
	Cost float64 `json:"cost" binding:"gte=0"`
}
