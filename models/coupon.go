package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CouponType represents the type of discount a coupon provides.
type CouponType string

const (
	CouponTypePercentage   CouponType = "percentage"
	CouponTypeFlat         CouponType = "flat"
	CouponTypeFreeShipping CouponType = "freeshipping"
)

// Coupon is a store-scoped promotional code. Codes are unique per store.
type Coupon struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StoreID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_coupon_store_code,unique" json:"store_id"`
	Code          string         `gorm:"type:varchar(64);not null;index:idx_coupon_store_code,unique" json:"code"`
	Type          CouponType     `gorm:"type:varchar(20);not null" json:"type"`
	Value         float64        `gorm:"not null" json:"value"`                     // discount amount or percentage
	MinOrderValue float64        `gorm:"not null;default:0" json:"min_order_value"` // minimum cart subtotal to apply
	UsageLimit    int            `gorm:"not null;default:0" json:"usage_limit"`     // 0 = unlimited
	UsedCount     int            `gorm:"not null;default:0" json:"used_count"`
	ExpiresAt     time.Time      `gorm:"not null" json:"expires_at"`
	Active        bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// CalculateDiscount evaluates the coupon against a cart subtotal. It is a pure
// function: eligibility (expiry, usage, minimum) and the discount amount are
// derived from the coupon's own rules, never from a caller-supplied amount.
func (c *Coupon) CalculateDiscount(subtotal float64, now time.Time) (float64, bool, string) {
	if !c.Active {
		return 0, false, "Coupon is inactive"
	}
	if now.After(c.ExpiresAt) {
		return 0, false, "Coupon has expired"
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return 0, false, "Coupon usage limit reached"
	}
	if subtotal < c.MinOrderValue {
		return 0, false, "Cart subtotal below coupon minimum"
	}

	switch c.Type {
	case CouponTypePercentage:
		return subtotal * (c.Value / 100), true, ""
	case CouponTypeFlat:
		discount := c.Value
		if discount > subtotal {
			discount = subtotal
		}
		return discount, true, ""
	case CouponTypeFreeShipping:
		// shipping is zeroed by the cart engine; no item discount
		return 0, true, ""
	default:
		return 0, false, "Unknown coupon type"
	}
}

// CreateCouponRequest is the payload for creating a new coupon.
type CreateCouponRequest struct {
	StoreID       uuid.UUID  `json:"store_id" binding:"required"`
	Code          string     `json:"code" binding:"required,min=3,max=64"`
	Type          CouponType `json:"type" binding:"required,oneof=percentage flat freeshipping"`
	Value         float64    `json:"value" binding:"required,gte=0"`
	MinOrderValue float64    `json:"min_order_value" binding:"gte=0"`
	UsageLimit    int        `json:"usage_limit" binding:"gte=0"`
	ExpiresAt     time.Time  `json:"expires_at" binding:"required"`
}
