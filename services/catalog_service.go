package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/sawyelin1011/mtc-platform/models"
	"github.com/sawyelin1011/mtc-platform/repository"
)

const (
	productCachePrefix = "product:detail:"
	productCacheTTL    = 5 * time.Minute
)

// ResolvedPrice is the catalog's answer for a cart line: the effective unit
// price plus the snapshot fields a cart or order needs to freeze.
type ResolvedPrice struct {
	Price       float64
	ProductName string
	ProductType models.ProductType
}

// CatalogService owns products, variants and stock.
type CatalogService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, *ServiceError)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError)
	ListProducts(ctx context.Context, storeID uuid.UUID, page, limit int) ([]models.Product, int64, *ServiceError)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *ServiceError)
	DeleteProduct(ctx context.Context, id uuid.UUID) *ServiceError
	CreateVariant(ctx context.Context, productID uuid.UUID, req *models.CreateVariantRequest) (*models.ProductVariant, *ServiceError)

	// ResolvePrice returns the effective unit price for a product/variant pair.
	ResolvePrice(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*ResolvedPrice, *ServiceError)

	// DecreaseStock decrements stock for a checkout. Digital products bypass
	// stock tracking entirely.
	DecreaseStock(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int) *ServiceError
}

type catalogServiceImpl struct {
	repo   repository.ProductRepository
	cache  *redis.Client // optional; nil disables caching
	logger *zap.Logger
}

// NewCatalogService creates a new CatalogService. cache may be nil.
func NewCatalogService(repo repository.ProductRepository, cache *redis.Client, logger *zap.Logger) CatalogService {
	return &catalogServiceImpl{repo: repo, cache: cache, logger: logger}
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, *ServiceError) {
	productType := req.Type
	if productType == "" {
		productType = models.ProductTypePhysical
	}

	product := &models.Product{
		StoreID:       req.StoreID,
		Name:          req.Name,
		Description:   req.Description,
		Type:          productType,
		Category:      req.Category,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Active:        true,
		Metadata:      datatypes.JSONMap(req.Metadata),
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, internal("Failed to create product")
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("store_id", product.StoreID.String()),
		zap.String("type", string(product.Type)),
	)
	return product, nil
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError) {
	if cached := s.cacheGet(ctx, id); cached != nil {
		return cached, nil
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Product not found")
		}
		s.logger.Error("Failed to fetch product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, internal("Failed to fetch product")
	}

	s.cacheSet(ctx, product)
	return product, nil
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context, storeID uuid.UUID, page, limit int) ([]models.Product, int64, *ServiceError) {
	products, total, err := s.repo.FindByStore(ctx, storeID, page, limit)
	if err != nil {
		s.logger.Error("Failed to list products", zap.String("store_id", storeID.String()), zap.Error(err))
		return nil, 0, internal("Failed to list products")
	}
	return products, total, nil
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *ServiceError) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.StockQuantity != nil {
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.Metadata != nil {
		updates["metadata"] = datatypes.JSONMap(req.Metadata)
	}

	if len(updates) == 0 {
		return nil, badRequest("No fields to update")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Product not found")
		}
		s.logger.Error("Failed to update product", zap.String("product_id", id.String()), zap.Error(err))
		return nil, internal("Failed to update product")
	}

	s.cacheInvalidate(ctx, id)
	return s.GetProduct(ctx, id)
}

func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isRecordNotFound(err) {
			return notFound("Product not found")
		}
		s.logger.Error("Failed to delete product", zap.String("product_id", id.String()), zap.Error(err))
		return internal("Failed to delete product")
	}
	s.cacheInvalidate(ctx, id)
	return nil
}

func (s *catalogServiceImpl) CreateVariant(ctx context.Context, productID uuid.UUID, req *models.CreateVariantRequest) (*models.ProductVariant, *ServiceError) {
	if _, svcErr := s.GetProduct(ctx, productID); svcErr != nil {
		return nil, svcErr
	}

	variant := &models.ProductVariant{
		ProductID:     productID,
		Name:          req.Name,
		SKU:           req.SKU,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	}

	if err := s.repo.CreateVariant(ctx, variant); err != nil {
		s.logger.Error("Failed to create variant", zap.String("product_id", productID.String()), zap.Error(err))
		return nil, internal("Failed to create variant")
	}

	s.cacheInvalidate(ctx, productID)
	return variant, nil
}

func (s *catalogServiceImpl) ResolvePrice(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID) (*ResolvedPrice, *ServiceError) {
	product, svcErr := s.GetProduct(ctx, productID)
	if svcErr != nil {
		return nil, svcErr
	}
	if !product.Active {
		return nil, badRequest("Product is not available")
	}

	var variant *models.ProductVariant
	if variantID != nil {
		v, err := s.repo.FindVariantByID(ctx, *variantID)
		if err != nil {
			if isRecordNotFound(err) {
				return nil, notFound("Product variant not found")
			}
			s.logger.Error("Failed to fetch variant", zap.String("variant_id", variantID.String()), zap.Error(err))
			return nil, internal("Failed to fetch variant")
		}
		if v.ProductID != product.ID {
			return nil, badRequest("Variant does not belong to product")
		}
		variant = v
	}

	return &ResolvedPrice{
		Price:       product.EffectivePrice(variant),
		ProductName: product.Name,
		ProductType: product.Type,
	}, nil
}

func (s *catalogServiceImpl) DecreaseStock(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int) *ServiceError {
	product, svcErr := s.GetProduct(ctx, productID)
	if svcErr != nil {
		return svcErr
	}
	if product.Type == models.ProductTypeDigital {
		return nil
	}

	var err error
	if variantID != nil {
		err = s.repo.DecreaseVariantStock(ctx, *variantID, quantity)
	} else {
		err = s.repo.DecreaseStock(ctx, productID, quantity)
	}
	if err != nil {
		if isRecordNotFound(err) {
			return badRequest("Insufficient stock")
		}
		s.logger.Error("Failed to decrease stock", zap.String("product_id", productID.String()), zap.Error(err))
		return internal("Failed to decrease stock")
	}

	s.cacheInvalidate(ctx, productID)
	return nil
}

// --- redis cache helpers ---

func (s *catalogServiceImpl) cacheGet(ctx context.Context, id uuid.UUID) *models.Product {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, productCachePrefix+id.String()).Result()
	if err != nil {
		return nil
	}
	var product models.Product
	if err := json.Unmarshal([]byte(data), &product); err != nil {
		s.logger.Warn("Failed to unmarshal cached product", zap.Error(err))
		return nil
	}
	return &product
}

func (s *catalogServiceImpl) cacheSet(ctx context.Context, product *models.Product) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, productCachePrefix+product.ID.String(), data, productCacheTTL).Err(); err != nil {
		s.logger.Warn("Failed to cache product", zap.Error(err))
	}
}

func (s *catalogServiceImpl) cacheInvalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, productCachePrefix+id.String()).Err(); err != nil {
		s.logger.Warn("Failed to invalidate product cache", zap.Error(err))
	}
}
