package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Store is a tenant. All catalog, cart, order and payment rows hang off a
// store ID and are never shared across tenants.
type Store struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string            `gorm:"type:varchar(255);not null" json:"name"`
	Slug      string            `gorm:"type:varchar(128);uniqueIndex;not null" json:"slug"`
	Currency  string            `gorm:"type:varchar(10);not null;default:'usd'" json:"currency"`
	TaxRate   float64           `gorm:"not null;default:0" json:"tax_rate"` // percentage, e.g. 10 = 10%
	Active    bool              `gorm:"not null;default:true" json:"active"`
	Settings  datatypes.JSONMap `gorm:"type:jsonb" json:"settings,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt    `gorm:"index" json:"-"`
}

// CreateStoreRequest is the payload for registering a new store.
type CreateStoreRequest struct {
	Name     string                 `json:"name" binding:"required,min=1,max=255"`
	Slug     string                 `json:"slug" binding:"required,min=1,max=128"`
	Currency string                 `json:"currency" binding:"omitempty,len=3"`
	TaxRate  float64                `json:"tax_rate" binding:"gte=0"`
	Settings map[string]interface{} `json:"settings"`
}

// UpdateStoreRequest is the payload for partially updating a store.
type UpdateStoreRequest struct {
	Name     *string                `json:"name"`
	Currency *string                `json:"currency"`
	TaxRate  *float64               `json:"tax_rate" binding:"omitempty,gte=0"`
	Active   *bool                  `json:"active"`
	Settings map[string]interface{} `json:"settings"`
}
