package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DigitalDownload registers one deliverable file for a digital product. The
// storage key is write-once; the file bytes live in the external object store.
type DigitalDownload struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	StorageKey     string         `gorm:"type:varchar(512);not null" json:"storage_key"`
	FileName       string         `gorm:"type:varchar(255);not null" json:"file_name"`
	ContentType    string         `gorm:"type:varchar(128)" json:"content_type,omitempty"`
	FileSize       int64          `gorm:"not null;default:0" json:"file_size"`
	DownloadLimit  *int           `json:"download_limit,omitempty"`  // default per-link max downloads
	ExpirationDays *int           `json:"expiration_days,omitempty"` // default per-link expiry window
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// DownloadLink is a single customer's access grant for a fulfilled digital
// order item. The token is a bearer credential: knowing it is sufficient for
// a download, bounded by expiry and count.
type DownloadLink struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderItemID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_item_id"`
	DigitalDownloadID uuid.UUID  `gorm:"type:uuid;not null;index" json:"digital_download_id"`
	Token             string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`
	DownloadCount     int        `gorm:"not null;default:0" json:"download_count"`
	MaxDownloads      *int       `json:"max_downloads,omitempty"` // nil = unlimited
	ExpiresAt         *time.Time `gorm:"index" json:"expires_at,omitempty"`
	LastDownloadedAt  *time.Time `json:"last_downloaded_at,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// CreateDigitalDownloadRequest is the payload for registering a deliverable file.
type CreateDigitalDownloadRequest struct {
	ProductID      uuid.UUID `json:"product_id" binding:"required"`
	FileName       string    `json:"file_name" binding:"required,min=1,max=255"`
	ContentType    string    `json:"content_type"`
	DownloadLimit  *int      `json:"download_limit" binding:"omitempty,gt=0"`
	ExpirationDays *int      `json:"expiration_days" binding:"omitempty,gte=0"`
}

// CreateDownloadLinkRequest is the payload for minting a customer access grant.
type CreateDownloadLinkRequest struct {
	OrderItemID       uuid.UUID `json:"order_item_id" binding:"required"`
	DigitalDownloadID uuid.UUID `json:"digital_download_id" binding:"required"`
	MaxDownloads      *int      `json:"max_downloads" binding:"omitempty,gt=0"`
	ExpirationDays    *int      `json:"expiration_days" binding:"omitempty,gte=0"`
}

// DownloadIssuedEvent is published after a download link is minted.
type DownloadIssuedEvent struct {
	EventType   string    `json:"event_type"`
	LinkID      string    `json:"link_id"`
	OrderItemID string    `json:"order_item_id"`
	Timestamp   time.Time `json:"timestamp"`
}
