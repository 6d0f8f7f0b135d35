package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sawyelin1011/mtc-platform/models"
)

// DownloadRepository defines data-access operations for digital downloads and
// customer download links.
type DownloadRepository interface {
	CreateDownload(ctx context.Context, download *models.DigitalDownload) error
	FindDownloadByID(ctx context.Context, id uuid.UUID) (*models.DigitalDownload, error)
	FindDownloadsByProduct(ctx context.Context, productID uuid.UUID) ([]models.DigitalDownload, error)
	UpdateDownload(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error

	CreateLink(ctx context.Context, link *models.DownloadLink) error
	FindLinkByToken(ctx context.Context, token string) (*models.DownloadLink, error)

	// RecordDownload performs the check-and-increment as a single conditional
	// update so concurrent requests for the same token cannot exceed the
	// link's download limit. Returns gorm.ErrRecordNotFound when the limit is
	// already exhausted or the link is gone.
	RecordDownload(ctx context.Context, linkID uuid.UUID, now time.Time) error

	// DeleteExpiredLinks purges links past their expiry.
	DeleteExpiredLinks(ctx context.Context, now time.Time) (int64, error)
}

// GormDownloadRepository implements DownloadRepository using GORM.
type GormDownloadRepository struct {
	db *gorm.DB
}

// NewGormDownloadRepository creates a new GormDownloadRepository.
func NewGormDownloadRepository(db *gorm.DB) DownloadRepository {
	return &GormDownloadRepository{db: db}
}

func (r *GormDownloadRepository) CreateDownload(ctx context.Context, download *models.DigitalDownload) error {
	return r.db.WithContext(ctx).Create(download).Error
}

func (r *GormDownloadRepository) FindDownloadByID(ctx context.Context, id uuid.UUID) (*models.DigitalDownload, error) {
	var download models.DigitalDownload
	if err := r.db.WithContext(ctx).First(&download, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &download, nil
}

func (r *GormDownloadRepository) FindDownloadsByProduct(ctx context.Context, productID uuid.UUID) ([]models.DigitalDownload, error) {
	var downloads []models.DigitalDownload
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&downloads).Error; err != nil {
		return nil, err
	}
	return downloads, nil
}

func (r *GormDownloadRepository) UpdateDownload(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&models.DigitalDownload{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormDownloadRepository) CreateLink(ctx context.Context, link *models.DownloadLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *GormDownloadRepository) FindLinkByToken(ctx context.Context, token string) (*models.DownloadLink, error) {
	var link models.DownloadLink
	if err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// RecordDownload increments download_count only while it is below the link's
// limit, checking rows-affected. Unlimited links (max_downloads IS NULL) are
// always incremented.
func (r *GormDownloadRepository) RecordDownload(ctx context.Context, linkID uuid.UUID, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.DownloadLink{}).
		Where("id = ? AND (max_downloads IS NULL OR download_count < max_downloads)", linkID).
		UpdateColumns(map[string]interface{}{
			"download_count":     gorm.Expr("download_count + 1"),
			"last_downloaded_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormDownloadRepository) DeleteExpiredLinks(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&models.DownloadLink{})
	return result.RowsAffected, result.Error
}
