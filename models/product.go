package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProductType distinguishes goods that ship from goods that are delivered
// as downloads. Digital products bypass stock decrement.
type ProductType string

const (
	ProductTypePhysical ProductType = "physical"
	ProductTypeDigital  ProductType = "digital"
)

type Product struct {
	ID            uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	StoreID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"store_id"`
	Name          string            `gorm:"type:varchar(255);not null" json:"name"`
	Description   string            `gorm:"type:text" json:"description,omitempty"`
	Type          ProductType       `gorm:"type:varchar(20);not null;default:'physical'" json:"type"`
	Category      string            `gorm:"type:varchar(128);index" json:"category,omitempty"`
	Price         float64           `gorm:"not null" json:"price"`
	StockQuantity int               `gorm:"not null;default:0" json:"stock_quantity"`
	Active        bool              `gorm:"not null;default:true" json:"active"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	Variants      []ProductVariant  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`
}

// ProductVariant is a priced sub-SKU. A nil Price inherits the parent price.
type ProductVariant struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	SKU           string    `gorm:"type:varchar(128)" json:"sku,omitempty"`
	Price         *float64  `json:"price,omitempty"`
	StockQuantity int       `gorm:"not null;default:0" json:"stock_quantity"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// EffectivePrice returns the variant price when set, otherwise the parent's.
func (p *Product) EffectivePrice(variant *ProductVariant) float64 {
	if variant != nil && variant.Price != nil {
		return *variant.Price
	}
	return p.Price
}

// CreateProductRequest is the payload for creating a catalog product.
type CreateProductRequest struct {
	StoreID       uuid.UUID              `json:"store_id" binding:"required"`
	Name          string                 `json:"name" binding:"required,min=1,max=255"`
	Description   string                 `json:"description"`
	Type          ProductType            `json:"type" binding:"omitempty,oneof=physical digital"`
	Category      string                 `json:"category"`
	Price         float64                `json:"price" binding:"gte=0"`
	StockQuantity int                    `json:"stock_quantity" binding:"gte=0"`
	Metadata      map[string]interface{} `json:"metadata"`
}

// UpdateProductRequest is the payload for partially updating a product.
type UpdateProductRequest struct {
	Name          *string                `json:"name"`
	Description   *string                `json:"description"`
	Category      *string                `json:"category"`
	Price         *float64               `json:"price" binding:"omitempty,gte=0"`
	StockQuantity *int                   `json:"stock_quantity" binding:"omitempty,gte=0"`
	Active        *bool                  `json:"active"`
	Metadata      map[string]interface{} `json:"metadata"`
}

// CreateVariantRequest is the payload for adding a variant to a product.
type CreateVariantRequest struct {
	Name          string   `json:"name" binding:"required,min=1,max=255"`
	SKU           string   `json:"sku"`
	Price         *float64 `json:"price" binding:"omitempty,gte=0"`
	StockQuantity int      `json:"stock_quantity" binding:"gte=0"`
}
