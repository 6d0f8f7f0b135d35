package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/sawyelin1011/mtc-platform/models"
	"github.com/sawyelin1011/mtc-platform/repository"
)

// StoreService owns tenant identity: currency, tax rate and per-store settings.
type StoreService interface {
	CreateStore(ctx context.Context, req *models.CreateStoreRequest) (*models.Store, *ServiceError)
	GetStore(ctx context.Context, id uuid.UUID) (*models.Store, *ServiceError)
	GetStoreBySlug(ctx context.Context, slug string) (*models.Store, *ServiceError)
	UpdateStore(ctx context.Context, id uuid.UUID, req *models.UpdateStoreRequest) (*models.Store, *ServiceError)
	ListStores(ctx context.Context, page, limit int) ([]models.Store, int64, *ServiceError)
}

type storeServiceImpl struct {
	repo   repository.StoreRepository
	logger *zap.Logger
}

// NewStoreService creates a new StoreService.
func NewStoreService(repo repository.StoreRepository, logger *zap.Logger) StoreService {
	return &storeServiceImpl{repo: repo, logger: logger}
}

func (s *storeServiceImpl) CreateStore(ctx context.Context, req *models.CreateStoreRequest) (*models.Store, *ServiceError) {
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = "usd"
	}

	store := &models.Store{
		Name:     req.Name,
		Slug:     strings.ToLower(req.Slug),
		Currency: currency,
		TaxRate:  req.TaxRate,
		Active:   true,
		Settings: datatypes.JSONMap(req.Settings),
	}

	if err := s.repo.Create(ctx, store); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, &ServiceError{StatusCode: 409, Message: "Store slug already exists"}
		}
		s.logger.Error("Failed to create store", zap.Error(err))
		return nil, internal("Failed to create store")
	}

	s.logger.Info("Store created", zap.String("store_id", store.ID.String()), zap.String("slug", store.Slug))
	return store, nil
}

func (s *storeServiceImpl) GetStore(ctx context.Context, id uuid.UUID) (*models.Store, *ServiceError) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Store not found")
		}
		s.logger.Error("Failed to fetch store", zap.String("store_id", id.String()), zap.Error(err))
		return nil, internal("Failed to fetch store")
	}
	return store, nil
}

func (s *storeServiceImpl) GetStoreBySlug(ctx context.Context, slug string) (*models.Store, *ServiceError) {
	store, err := s.repo.FindBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Store not found")
		}
		s.logger.Error("Failed to fetch store by slug", zap.String("slug", slug), zap.Error(err))
		return nil, internal("Failed to fetch store")
	}
	return store, nil
}

func (s *storeServiceImpl) UpdateStore(ctx context.Context, id uuid.UUID, req *models.UpdateStoreRequest) (*models.Store, *ServiceError) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Currency != nil {
		updates["currency"] = strings.ToLower(*req.Currency)
	}
	if req.TaxRate != nil {
		if *req.TaxRate < 0 {
			return nil, badRequest("Tax rate cannot be negative")
		}
		updates["tax_rate"] = *req.TaxRate
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.Settings != nil {
		updates["settings"] = datatypes.JSONMap(req.Settings)
	}

	if len(updates) == 0 {
		return nil, badRequest("No fields to update")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Store not found")
		}
		s.logger.Error("Failed to update store", zap.String("store_id", id.String()), zap.Error(err))
		return nil, internal("Failed to update store")
	}

	return s.GetStore(ctx, id)
}

func (s *storeServiceImpl) ListStores(ctx context.Context, page, limit int) ([]models.Store, int64, *ServiceError) {
	stores, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list stores", zap.Error(err))
		return nil, 0, internal("Failed to list stores")
	}
	return stores, total, nil
}
