package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sawyelin1011/mtc-platform/models"
	"github.com/sawyelin1011/mtc-platform/pkg/aws"
	"github.com/sawyelin1011/mtc-platform/repository"
)

// CartService is the cart engine: it accumulates priced line items for a user
// or anonymous session and recomputes monetary totals after every mutation.
// The recompute is the single source of truth for cart monetary state.
type CartService interface {
	CreateCart(ctx context.Context, req *models.CreateCartRequest) (*models.Cart, *ServiceError)
	GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, *ServiceError)
	AddItem(ctx context.Context, cartID uuid.UUID, req *models.AddCartItemRequest) (*models.Cart, *ServiceError)
	UpdateItem(ctx context.Context, itemID uuid.UUID, quantity int) (*models.Cart, *ServiceError)
	RemoveItem(ctx context.Context, itemID uuid.UUID) (*models.Cart, *ServiceError)
	ClearCart(ctx context.Context, cartID uuid.UUID) *ServiceError
	ApplyCoupon(ctx context.Context, cartID uuid.UUID, code string) (*models.Cart, *ServiceError)
	RemoveCoupon(ctx context.Context, cartID uuid.UUID) (*models.Cart, *ServiceError)
	SetShipping(ctx context.Context, cartID uuid.UUID, cost float64) (*models.Cart, *ServiceError)
	DeleteExpiredCarts(ctx context.Context) (int64, *ServiceError)
}

type cartServiceImpl struct {
	repo      repository.CartRepository
	storeRepo repository.StoreRepository
	catalog   CatalogService
	coupons   CouponService
	metrics   *aws.MetricsClient
	logger    *zap.Logger
}

// NewCartService creates a new CartService. metrics may be nil.
func NewCartService(
	repo repository.CartRepository,
	storeRepo repository.StoreRepository,
	catalog CatalogService,
	coupons CouponService,
	metrics *aws.MetricsClient,
	logger *zap.Logger,
) CartService {
	return &cartServiceImpl{
		repo:      repo,
		storeRepo: storeRepo,
		catalog:   catalog,
		coupons:   coupons,
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *cartServiceImpl) CreateCart(ctx context.Context, req *models.CreateCartRequest) (*models.Cart, *ServiceError) {
	if (req.UserID == nil) == (req.SessionID == nil) {
		return nil, badRequest("Exactly one of user_id or session_id is required")
	}

	if _, err := s.storeRepo.FindByID(ctx, req.StoreID); err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Store not found")
		}
		s.logger.Error("Failed to fetch store", zap.Error(err))
		return nil, internal("Failed to create cart")
	}

	cart := &models.Cart{
		StoreID:   req.StoreID,
		UserID:    req.UserID,
		SessionID: req.SessionID,
		ExpiresAt: time.Now().Add(models.DefaultCartLifetime),
	}

	if err := s.repo.Create(ctx, cart); err != nil {
		s.logger.Error("Failed to create cart", zap.Error(err))
		return nil, internal("Failed to create cart")
	}

	s.logger.Info("Cart created",
		zap.String("cart_id", cart.ID.String()),
		zap.String("store_id", cart.StoreID.String()),
	)
	return cart, nil
}

func (s *cartServiceImpl) GetCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, *ServiceError) {
	cart, err := s.repo.FindByID(ctx, cartID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Cart not found")
		}
		s.logger.Error("Failed to fetch cart", zap.String("cart_id", cartID.String()), zap.Error(err))
		return nil, internal("Failed to fetch cart")
	}
	return cart, nil
}

// AddItem inserts a line priced by the catalog at add time. Re-adding an
// existing product/variant pair merges quantities and refreshes the price
// snapshot; reads never re-price.
func (s *cartServiceImpl) AddItem(ctx context.Context, cartID uuid.UUID, req *models.AddCartItemRequest) (*models.Cart, *ServiceError) {
	cart, svcErr := s.GetCart(ctx, cartID)
	if svcErr != nil {
		return nil, svcErr
	}

	resolved, svcErr := s.catalog.ResolvePrice(ctx, req.ProductID, req.VariantID)
	if svcErr != nil {
		return nil, svcErr
	}

	var existing *models.CartItem
	for i := range cart.Items {
		if cart.Items[i].ProductID == req.ProductID && equalVariant(cart.Items[i].VariantID, req.VariantID) {
			existing = &cart.Items[i]
			break
		}
	}

	if existing != nil {
		if err := s.repo.RefreshItem(ctx, existing.ID, existing.Quantity+req.Quantity, resolved.Price); err != nil {
			s.logger.Error("Failed to merge cart item", zap.Error(err))
			return nil, internal("Failed to add item")
		}
	} else {
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: req.ProductID,
			VariantID: req.VariantID,
			Quantity:  req.Quantity,
			Price:     resolved.Price,
		}
		if err := s.repo.AddItem(ctx, item); err != nil {
			s.logger.Error("Failed to add cart item", zap.Error(err))
			return nil, internal("Failed to add item")
		}
	}

	return s.recalculate(ctx, cart.ID, nil)
}

// UpdateItem sets a line's quantity; zero or below removes the line.
func (s *cartServiceImpl) UpdateItem(ctx context.Context, itemID uuid.UUID, quantity int) (*models.Cart, *ServiceError) {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Cart item not found")
		}
		s.logger.Error("Failed to fetch cart item", zap.Error(err))
		return nil, internal("Failed to update item")
	}

	if quantity <= 0 {
		if err := s.repo.RemoveItem(ctx, itemID); err != nil && !isRecordNotFound(err) {
			s.logger.Error("Failed to remove cart item", zap.Error(err))
			return nil, internal("Failed to update item")
		}
	} else {
		if err := s.repo.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
			if isRecordNotFound(err) {
				return nil, notFound("Cart item not found")
			}
			s.logger.Error("Failed to update cart item", zap.Error(err))
			return nil, internal("Failed to update item")
		}
	}

	return s.recalculate(ctx, item.CartID, nil)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, itemID uuid.UUID) (*models.Cart, *ServiceError) {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Cart item not found")
		}
		s.logger.Error("Failed to fetch cart item", zap.Error(err))
		return nil, internal("Failed to remove item")
	}

	if err := s.repo.RemoveItem(ctx, itemID); err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Cart item not found")
		}
		s.logger.Error("Failed to remove cart item", zap.Error(err))
		return nil, internal("Failed to remove item")
	}

	return s.recalculate(ctx, item.CartID, nil)
}

// ClearCart removes all items and resets totals to zero directly, without a
// recompute round-trip.
func (s *cartServiceImpl) ClearCart(ctx context.Context, cartID uuid.UUID) *ServiceError {
	if _, svcErr := s.GetCart(ctx, cartID); svcErr != nil {
		return svcErr
	}

	if err := s.repo.ClearItems(ctx, cartID); err != nil {
		s.logger.Error("Failed to clear cart items", zap.Error(err))
		return internal("Failed to clear cart")
	}

	updates := map[string]interface{}{
		"total_price":     0.0,
		"total_tax":       0.0,
		"total_shipping":  0.0,
		"coupon_code":     nil,
		"coupon_discount": 0.0,
	}
	if err := s.repo.UpdateTotals(ctx, cartID, updates); err != nil {
		s.logger.Error("Failed to reset cart totals", zap.Error(err))
		return internal("Failed to clear cart")
	}
	return nil
}

// ApplyCoupon evaluates the code against the cart's current subtotal and
// stores the resulting discount, then recomputes.
func (s *cartServiceImpl) ApplyCoupon(ctx context.Context, cartID uuid.UUID, code string) (*models.Cart, *ServiceError) {
	cart, svcErr := s.GetCart(ctx, cartID)
	if svcErr != nil {
		return nil, svcErr
	}

	eval, svcErr := s.coupons.Evaluate(ctx, cart.StoreID, code, cart.Subtotal())
	if svcErr != nil {
		return nil, svcErr
	}

	extra := map[string]interface{}{
		"coupon_code":     eval.Coupon.Code,
		"coupon_discount": round2(eval.Discount),
	}
	if eval.FreeShipping {
		extra["total_shipping"] = 0.0
	}
	return s.recalculate(ctx, cartID, extra)
}

func (s *cartServiceImpl) RemoveCoupon(ctx context.Context, cartID uuid.UUID) (*models.Cart, *ServiceError) {
	if _, svcErr := s.GetCart(ctx, cartID); svcErr != nil {
		return nil, svcErr
	}

	extra := map[string]interface{}{
		"coupon_code":     nil,
		"coupon_discount": 0.0,
	}
	return s.recalculate(ctx, cartID, extra)
}

func (s *cartServiceImpl) SetShipping(ctx context.Context, cartID uuid.UUID, cost float64) (*models.Cart, *ServiceError) {
	if cost < 0 {
		return nil, badRequest("Shipping cost cannot be negative")
	}
	if _, svcErr := s.GetCart(ctx, cartID); svcErr != nil {
		return nil, svcErr
	}

	extra := map[string]interface{}{"total_shipping": round2(cost)}
	return s.recalculate(ctx, cartID, extra)
}

func (s *cartServiceImpl) DeleteExpiredCarts(ctx context.Context) (int64, *ServiceError) {
	purged, err := s.repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("Failed to purge expired carts", zap.Error(err))
		return 0, internal("Failed to purge expired carts")
	}
	if purged > 0 {
		s.logger.Info("Expired carts purged", zap.Int64("count", purged))
		if s.metrics != nil {
			_ = s.metrics.RecordTotal(ctx, aws.MetricCartsExpired, float64(purged), nil)
		}
	}
	return purged, nil
}

// recalculate derives the cart's monetary state from its current items, the
// store tax rate and the pending shipping/discount values, and persists the
// result in one update. extra carries mutations (shipping, coupon fields)
// that take effect in the same statement as the recompute.
func (s *cartServiceImpl) recalculate(ctx context.Context, cartID uuid.UUID, extra map[string]interface{}) (*models.Cart, *ServiceError) {
	cart, svcErr := s.GetCart(ctx, cartID)
	if svcErr != nil {
		return nil, svcErr
	}

	store, err := s.storeRepo.FindByID(ctx, cart.StoreID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Store not found")
		}
		s.logger.Error("Failed to fetch store for recompute", zap.Error(err))
		return nil, internal("Failed to recalculate cart")
	}

	shipping := cart.TotalShipping
	discount := cart.CouponDiscount
	if extra != nil {
		if v, ok := extra["total_shipping"]; ok {
			shipping = v.(float64)
		}
		if v, ok := extra["coupon_discount"]; ok {
			discount = v.(float64)
		}
	}

	subtotal := round2(cart.Subtotal())
	tax := round2(subtotal * (store.TaxRate / 100))
	total := round2(subtotal + tax + shipping - discount)

	updates := map[string]interface{}{
		"total_tax":   tax,
		"total_price": total,
	}
	for k, v := range extra {
		updates[k] = v
	}

	if err := s.repo.UpdateTotals(ctx, cartID, updates); err != nil {
		s.logger.Error("Failed to persist cart totals", zap.Error(err))
		return nil, internal("Failed to recalculate cart")
	}

	return s.GetCart(ctx, cartID)
}

func equalVariant(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
