package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sawyelin1011/mtc-platform/models"
	"github.com/sawyelin1011/mtc-platform/repository"
)

// CouponEvaluation is the result of evaluating a coupon against a cart.
type CouponEvaluation struct {
	Coupon       *models.Coupon
	Discount     float64
	FreeShipping bool
}

// CouponService owns promotional codes and their evaluation rules.
type CouponService interface {
	CreateCoupon(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *ServiceError)
	GetCoupon(ctx context.Context, storeID uuid.UUID, code string) (*models.Coupon, *ServiceError)
	DeactivateCoupon(ctx context.Context, storeID uuid.UUID, code string) *ServiceError
	ListCoupons(ctx context.Context, storeID uuid.UUID, page, limit int) ([]models.Coupon, int64, *ServiceError)

	// Evaluate computes the discount for a cart subtotal from the coupon's own
	// rules and consumes one use. The usage increment is conditional on the
	// limit, so concurrent applications cannot overrun it.
	Evaluate(ctx context.Context, storeID uuid.UUID, code string, subtotal float64) (*CouponEvaluation, *ServiceError)
}

type couponServiceImpl struct {
	repo   repository.CouponRepository
	logger *zap.Logger
}

// NewCouponService creates a new CouponService.
func NewCouponService(repo repository.CouponRepository, logger *zap.Logger) CouponService {
	return &couponServiceImpl{repo: repo, logger: logger}
}

func (s *couponServiceImpl) CreateCoupon(ctx context.Context, req *models.CreateCouponRequest) (*models.Coupon, *ServiceError) {
	if req.ExpiresAt.Before(time.Now()) {
		return nil, badRequest("Expiry date must be in the future")
	}
	if req.Type == models.CouponTypePercentage && req.Value > 100 {
		return nil, badRequest("Percentage discount cannot exceed 100")
	}

	coupon := &models.Coupon{
		StoreID:       req.StoreID,
		Code:          strings.ToUpper(req.Code),
		Type:          req.Type,
		Value:         req.Value,
		MinOrderValue: req.MinOrderValue,
		UsageLimit:    req.UsageLimit,
		ExpiresAt:     req.ExpiresAt,
		Active:        true,
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, &ServiceError{StatusCode: 409, Message: "Coupon code already exists"}
		}
		s.logger.Error("Failed to create coupon", zap.Error(err))
		return nil, internal("Failed to create coupon")
	}

	s.logger.Info("Coupon created",
		zap.String("store_id", coupon.StoreID.String()),
		zap.String("code", coupon.Code),
		zap.String("type", string(coupon.Type)),
	)
	return coupon, nil
}

func (s *couponServiceImpl) GetCoupon(ctx context.Context, storeID uuid.UUID, code string) (*models.Coupon, *ServiceError) {
	coupon, err := s.repo.FindByCode(ctx, storeID, code)
	if err != nil {
		return nil, notFound("Coupon not found")
	}
	return coupon, nil
}

func (s *couponServiceImpl) DeactivateCoupon(ctx context.Context, storeID uuid.UUID, code string) *ServiceError {
	if err := s.repo.Deactivate(ctx, storeID, code); err != nil {
		if isRecordNotFound(err) {
			return notFound("Coupon not found")
		}
		s.logger.Error("Failed to deactivate coupon", zap.String("code", code), zap.Error(err))
		return internal("Failed to deactivate coupon")
	}

	s.logger.Info("Coupon deactivated", zap.String("code", code))
	return nil
}

func (s *couponServiceImpl) ListCoupons(ctx context.Context, storeID uuid.UUID, page, limit int) ([]models.Coupon, int64, *ServiceError) {
	coupons, total, err := s.repo.FindByStore(ctx, storeID, page, limit)
	if err != nil {
		s.logger.Error("Failed to list coupons", zap.Error(err))
		return nil, 0, internal("Failed to list coupons")
	}
	return coupons, total, nil
}

func (s *couponServiceImpl) Evaluate(ctx context.Context, storeID uuid.UUID, code string, subtotal float64) (*CouponEvaluation, *ServiceError) {
	coupon, err := s.repo.FindByCode(ctx, storeID, code)
	if err != nil {
		return nil, notFound("Coupon not found or inactive")
	}

	discount, valid, reason := coupon.CalculateDiscount(subtotal, time.Now())
	if !valid {
		return nil, badRequest(reason)
	}

	if err := s.repo.IncrementUsedCount(ctx, coupon.ID); err != nil {
		if isRecordNotFound(err) {
			return nil, badRequest("Coupon usage limit reached")
		}
		s.logger.Error("Failed to increment coupon usage", zap.String("code", code), zap.Error(err))
		return nil, internal("Failed to apply coupon")
	}

	return &CouponEvaluation{
		Coupon:       coupon,
		Discount:     discount,
		FreeShipping: coupon.Type == models.CouponTypeFreeShipping,
	}, nil
}
