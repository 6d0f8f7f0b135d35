package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sawyelin1011/mtc-platform/models"
	"github.com/sawyelin1011/mtc-platform/pkg/aws"
	"github.com/sawyelin1011/mtc-platform/repository"
)

const (
	downloadTokenLength   = 48
	presignedUploadExpiry = int64(900) // seconds
)

// PresignedUploadFunc mints a presigned PUT URL for direct-to-bucket uploads.
type PresignedUploadFunc func(ctx context.Context, key string, expirySeconds int64) (string, map[string]string, error)

// PresignedUpload is the response for a presigned upload request.
type PresignedUpload struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	Key     string            `json:"key"`
}

// DownloadPayload is a ready-to-stream download: the object body plus the
// metadata the HTTP layer needs for its response headers.
type DownloadPayload struct {
	Body        io.ReadCloser
	FileName    string
	ContentType string
	FileSize    int64
}

// FulfillmentService delivers digital goods: it registers deliverable files,
// stores their bytes, mints tokenized download links and serves the bytes
// back within each link's expiry and count bounds.
type FulfillmentService interface {
	CreateDigitalDownload(ctx context.Context, req *models.CreateDigitalDownloadRequest) (*models.DigitalDownload, *ServiceError)
	GetDigitalDownload(ctx context.Context, id uuid.UUID) (*models.DigitalDownload, *ServiceError)
	ListDigitalDownloads(ctx context.Context, productID uuid.UUID) ([]models.DigitalDownload, *ServiceError)
	UploadFile(ctx context.Context, downloadID uuid.UUID, data []byte) (*models.DigitalDownload, *ServiceError)
	GeneratePresignedUpload(ctx context.Context, downloadID uuid.UUID) (*PresignedUpload, *ServiceError)

	CreateDownloadLink(ctx context.Context, req *models.CreateDownloadLinkRequest) (*models.DownloadLink, *ServiceError)
	GetLinkByToken(ctx context.Context, token string) (*models.DownloadLink, *ServiceError)
	GetDownloadFile(ctx context.Context, token string) (*DownloadPayload, *ServiceError)

	CleanupExpiredLinks(ctx context.Context) (int64, *ServiceError)
}

type fulfillmentServiceImpl struct {
	repo      repository.DownloadRepository
	catalog   CatalogService
	store     aws.ObjectStore
	presign   PresignedUploadFunc
	publisher aws.SNSPublisher
	topicARN  string
	metrics   *aws.MetricsClient
	logger    *zap.Logger
}

// NewFulfillmentService creates a new FulfillmentService. presign, publisher
// and metrics may be nil.
func NewFulfillmentService(
	repo repository.DownloadRepository,
	catalog CatalogService,
	store aws.ObjectStore,
	presign PresignedUploadFunc,
	publisher aws.SNSPublisher,
	topicARN string,
	metrics *aws.MetricsClient,
	logger *zap.Logger,
) FulfillmentService {
	return &fulfillmentServiceImpl{
		repo:      repo,
		catalog:   catalog,
		store:     store,
		presign:   presign,
		publisher: publisher,
		topicARN:  topicARN,
		metrics:   metrics,
		logger:    logger,
	}
}

// CreateDigitalDownload registers a deliverable file for a digital product.
// The storage key is assigned here and never changes afterwards.
func (s *fulfillmentServiceImpl) CreateDigitalDownload(ctx context.Context, req *models.CreateDigitalDownloadRequest) (*models.DigitalDownload, *ServiceError) {
	product, svcErr := s.catalog.GetProduct(ctx, req.ProductID)
	if svcErr != nil {
		return nil, svcErr
	}
	if product.Type != models.ProductTypeDigital {
		return nil, badRequest("Downloads can only be attached to digital products")
	}

	download := &models.DigitalDownload{
		ProductID:      req.ProductID,
		StorageKey:     fmt.Sprintf("downloads/%s/%s/%s", req.ProductID, uuid.New(), req.FileName),
		FileName:       req.FileName,
		ContentType:    req.ContentType,
		DownloadLimit:  req.DownloadLimit,
		ExpirationDays: req.ExpirationDays,
	}
	if err := s.repo.CreateDownload(ctx, download); err != nil {
		s.logger.Error("Failed to create digital download", zap.Error(err))
		return nil, internal("Failed to create download")
	}

	s.logger.Info("Digital download registered",
		zap.String("download_id", download.ID.String()),
		zap.String("product_id", download.ProductID.String()),
	)
	return download, nil
}

func (s *fulfillmentServiceImpl) GetDigitalDownload(ctx context.Context, id uuid.UUID) (*models.DigitalDownload, *ServiceError) {
	download, err := s.repo.FindDownloadByID(ctx, id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Download not found")
		}
		s.logger.Error("Failed to fetch download", zap.Error(err))
		return nil, internal("Failed to fetch download")
	}
	return download, nil
}

func (s *fulfillmentServiceImpl) ListDigitalDownloads(ctx context.Context, productID uuid.UUID) ([]models.DigitalDownload, *ServiceError) {
	downloads, err := s.repo.FindDownloadsByProduct(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to list downloads", zap.Error(err))
		return nil, internal("Failed to list downloads")
	}
	return downloads, nil
}

// UploadFile stores the file bytes under the download's storage key and
// records the size.
func (s *fulfillmentServiceImpl) UploadFile(ctx context.Context, downloadID uuid.UUID, data []byte) (*models.DigitalDownload, *ServiceError) {
	download, svcErr := s.GetDigitalDownload(ctx, downloadID)
	if svcErr != nil {
		return nil, svcErr
	}
	if s.store == nil {
		return nil, configuration("Object storage is not configured")
	}

	disposition := fmt.Sprintf("attachment; filename=%q", download.FileName)
	if err := s.store.Put(ctx, download.StorageKey, data, download.ContentType, disposition); err != nil {
		s.logger.Error("Failed to upload download file",
			zap.String("download_id", downloadID.String()),
			zap.Error(err),
		)
		return nil, internal("Failed to upload file")
	}

	updates := map[string]interface{}{"file_size": int64(len(data))}
	if err := s.repo.UpdateDownload(ctx, downloadID, updates); err != nil {
		s.logger.Error("Failed to record file size", zap.Error(err))
		return nil, internal("Failed to upload file")
	}
	download.FileSize = int64(len(data))
	return download, nil
}

// GeneratePresignedUpload mints a direct-to-bucket PUT URL for large files.
func (s *fulfillmentServiceImpl) GeneratePresignedUpload(ctx context.Context, downloadID uuid.UUID) (*PresignedUpload, *ServiceError) {
	download, svcErr := s.GetDigitalDownload(ctx, downloadID)
	if svcErr != nil {
		return nil, svcErr
	}
	if s.presign == nil {
		return nil, configuration("Presigned uploads are not configured")
	}

	url, headers, err := s.presign(ctx, download.StorageKey, presignedUploadExpiry)
	if err != nil {
		s.logger.Error("Failed to presign upload", zap.Error(err))
		return nil, internal("Failed to generate upload URL")
	}
	return &PresignedUpload{URL: url, Headers: headers, Key: download.StorageKey}, nil
}

// CreateDownloadLink mints a customer access grant. Per-link bounds default
// to the registered file's settings when the request leaves them unset.
func (s *fulfillmentServiceImpl) CreateDownloadLink(ctx context.Context, req *models.CreateDownloadLinkRequest) (*models.DownloadLink, *ServiceError) {
	download, svcErr := s.GetDigitalDownload(ctx, req.DigitalDownloadID)
	if svcErr != nil {
		return nil, svcErr
	}

	maxDownloads := req.MaxDownloads
	if maxDownloads == nil {
		maxDownloads = download.DownloadLimit
	}
	expirationDays := req.ExpirationDays
	if expirationDays == nil {
		expirationDays = download.ExpirationDays
	}

	link := &models.DownloadLink{
		OrderItemID:       req.OrderItemID,
		DigitalDownloadID: download.ID,
		Token:             generateDownloadToken(),
		MaxDownloads:      maxDownloads,
	}
	// nil means no expiry; zero days means the link is already expired.
	if expirationDays != nil {
		expiresAt := time.Now().Add(time.Duration(*expirationDays) * 24 * time.Hour)
		link.ExpiresAt = &expiresAt
	}

	if err := s.repo.CreateLink(ctx, link); err != nil {
		s.logger.Error("Failed to create download link", zap.Error(err))
		return nil, internal("Failed to create download link")
	}

	s.logger.Info("Download link minted",
		zap.String("link_id", link.ID.String()),
		zap.String("order_item_id", link.OrderItemID.String()),
	)
	s.publishDownloadIssued(ctx, link)
	return link, nil
}

// GetLinkByToken resolves a token, distinguishing an expired link from an
// exhausted one. It does not consume a download.
func (s *fulfillmentServiceImpl) GetLinkByToken(ctx context.Context, token string) (*models.DownloadLink, *ServiceError) {
	link, err := s.repo.FindLinkByToken(ctx, token)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Download link not found")
		}
		s.logger.Error("Failed to fetch download link", zap.Error(err))
		return nil, internal("Failed to fetch download link")
	}

	if link.ExpiresAt != nil && time.Now().After(*link.ExpiresAt) {
		return nil, gone("Download link has expired")
	}
	if link.MaxDownloads != nil && link.DownloadCount >= *link.MaxDownloads {
		return nil, limitReached("Download limit reached")
	}
	return link, nil
}

// GetDownloadFile consumes one download and returns the file stream. The
// count is taken by a conditional increment before the object store is
// touched, so concurrent requests cannot exceed the limit.
func (s *fulfillmentServiceImpl) GetDownloadFile(ctx context.Context, token string) (*DownloadPayload, *ServiceError) {
	link, svcErr := s.GetLinkByToken(ctx, token)
	if svcErr != nil {
		return nil, svcErr
	}
	if s.store == nil {
		return nil, configuration("Object storage is not configured")
	}

	if err := s.repo.RecordDownload(ctx, link.ID, time.Now()); err != nil {
		if isRecordNotFound(err) {
			return nil, limitReached("Download limit reached")
		}
		s.logger.Error("Failed to record download", zap.String("link_id", link.ID.String()), zap.Error(err))
		return nil, internal("Failed to serve download")
	}

	download, svcErr := s.GetDigitalDownload(ctx, link.DigitalDownloadID)
	if svcErr != nil {
		return nil, svcErr
	}

	body, contentType, err := s.store.Get(ctx, download.StorageKey)
	if err != nil {
		if err == aws.ErrObjectNotFound {
			s.logger.Error("Download object missing from storage",
				zap.String("download_id", download.ID.String()),
				zap.String("storage_key", download.StorageKey),
			)
			return nil, notFound("Download file not found")
		}
		s.logger.Error("Failed to fetch download object", zap.Error(err))
		return nil, internal("Failed to serve download")
	}
	if contentType == "" {
		contentType = download.ContentType
	}

	if s.metrics != nil {
		_ = s.metrics.RecordCount(ctx, aws.MetricDownloadsServed, nil)
	}

	return &DownloadPayload{
		Body:        body,
		FileName:    download.FileName,
		ContentType: contentType,
		FileSize:    download.FileSize,
	}, nil
}

func (s *fulfillmentServiceImpl) CleanupExpiredLinks(ctx context.Context) (int64, *ServiceError) {
	purged, err := s.repo.DeleteExpiredLinks(ctx, time.Now())
	if err != nil {
		s.logger.Error("Failed to purge expired links", zap.Error(err))
		return 0, internal("Failed to purge expired links")
	}
	if purged > 0 {
		s.logger.Info("Expired download links purged", zap.Int64("count", purged))
	}
	return purged, nil
}

func (s *fulfillmentServiceImpl) publishDownloadIssued(ctx context.Context, link *models.DownloadLink) {
	if s.publisher == nil || s.topicARN == "" {
		return
	}

	event := models.DownloadIssuedEvent{
		EventType:   "download.issued",
		LinkID:      link.ID.String(),
		OrderItemID: link.OrderItemID.String(),
		Timestamp:   time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal download event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, s.topicARN, event.EventType, payload); err != nil {
		s.logger.Error("Failed to publish download event", zap.Error(err))
	}
}

// generateDownloadToken derives an unguessable fixed-length token from fresh
// random entropy and the current time.
func generateDownloadToken() string {
	seed := make([]byte, 40)
	if _, err := rand.Read(seed[:32]); err != nil {
		binary.BigEndian.PutUint64(seed[:8], uint64(time.Now().UnixNano()))
	}
	binary.BigEndian.PutUint64(seed[32:], uint64(time.Now().UnixNano()))

	sum := sha256.Sum256(seed)
	return hex.EncodeToString(sum[:])[:downloadTokenLength]
}
