package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sawyelin1011/mtc-platform/models"
	"github.com/sawyelin1011/mtc-platform/services"
)

func newCouponFixture() (*mockCouponRepo, services.CouponService) {
	logger, _ := zap.NewDevelopment()
	repo := newMockCouponRepo()
	return repo, services.NewCouponService(repo, logger)
}

func TestCreateCoupon(t *testing.T) {
	_, svc := newCouponFixture()
	storeID := uuid.New()

	coupon, svcErr := svc.CreateCoupon(context.Background(), &models.CreateCouponRequest{
		StoreID:   storeID,
		Code:      "save10",
		Type:      models.CouponTypePercentage,
		Value:     10,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})

	assert.Nil(t, svcErr)
	assert.Equal(t, "SAVE10", coupon.Code)
	assert.True(t, coupon.Active)
}

func TestCreateCouponRejectsPastExpiry(t *testing.T) {
	_, svc := newCouponFixture()

	_, svcErr := svc.CreateCoupon(context.Background(), &models.CreateCouponRequest{
		StoreID:   uuid.New(),
		Code:      "OLD",
		Type:      models.CouponTypeFlat,
		Value:     5,
		ExpiresAt: time.Now().Add(-time.Hour),
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestCreateCouponRejectsPercentageOver100(t *testing.T) {
	_, svc := newCouponFixture()

	_, svcErr := svc.CreateCoupon(context.Background(), &models.CreateCouponRequest{
		StoreID:   uuid.New(),
		Code:      "TOOMUCH",
		Type:      models.CouponTypePercentage,
		Value:     150,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestCreateCouponDuplicateCode(t *testing.T) {
	_, svc := newCouponFixture()
	storeID := uuid.New()
	req := &models.CreateCouponRequest{
		StoreID:   storeID,
		Code:      "TWICE",
		Type:      models.CouponTypeFlat,
		Value:     5,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}

	_, svcErr := svc.CreateCoupon(context.Background(), req)
	assert.Nil(t, svcErr)

	_, svcErr = svc.CreateCoupon(context.Background(), req)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
}

func TestEvaluatePercentage(t *testing.T) {
	_, svc := newCouponFixture()
	storeID := uuid.New()
	_, svcErr := svc.CreateCoupon(context.Background(), &models.CreateCouponRequest{
		StoreID:   storeID,
		Code:      "PCT20",
		Type:      models.CouponTypePercentage,
		Value:     20,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	assert.Nil(t, svcErr)

	eval, svcErr := svc.Evaluate(context.Background(), storeID, "PCT20", 50)

	assert.Nil(t, svcErr)
	assert.Equal(t, 10.0, eval.Discount)
	assert.False(t, eval.FreeShipping)
}

func TestEvaluateFlatCappedAtSubtotal(t *testing.T) {
	_, svc := newCouponFixture()
	storeID := uuid.New()
	_, svcErr := svc.CreateCoupon(context.Background(), &models.CreateCouponRequest{
		StoreID:   storeID,
		Code:      "FLAT30",
		Type:      models.CouponTypeFlat,
		Value:     30,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	assert.Nil(t, svcErr)

	eval, svcErr := svc.Evaluate(context.Background(), storeID, "FLAT30", 20)

	assert.Nil(t, svcErr)
	assert.Equal(t, 20.0, eval.Discount)
}

func TestEvaluateBelowMinimum(t *testing.T) {
	_, svc := newCouponFixture()
	storeID := uuid.New()
	_, svcErr := svc.CreateCoupon(context.Background(), &models.CreateCouponRequest{
		StoreID:       storeID,
		Code:          "MIN50",
		Type:          models.CouponTypeFlat,
		Value:         10,
		MinOrderValue: 50,
		ExpiresAt:     time.Now().Add(24 * time.Hour),
	})
	assert.Nil(t, svcErr)

	_, svcErr = svc.Evaluate(context.Background(), storeID, "MIN50", 40)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestEvaluateExpiredCoupon(t *testing.T) {
	repo, svc := newCouponFixture()
	storeID := uuid.New()
	repo.coupons[uuid.New()] = &models.Coupon{
		ID:        uuid.New(),
		StoreID:   storeID,
		Code:      "EXPIRED",
		Type:      models.CouponTypeFlat,
		Value:     5,
		ExpiresAt: time.Now().Add(-time.Hour),
		Active:    true,
	}

	_, svcErr := svc.Evaluate(context.Background(), storeID, "EXPIRED", 100)

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestEvaluateConsumesUsage(t *testing.T) {
	_, svc := newCouponFixture()
	storeID := uuid.New()
	coupon, svcErr := svc.CreateCoupon(context.Background(), &models.CreateCouponRequest{
		StoreID:    storeID,
		Code:       "ONCE",
		Type:       models.CouponTypeFlat,
		Value:      5,
		UsageLimit: 1,
		ExpiresAt:  time.Now().Add(24 * time.Hour),
	})
	assert.Nil(t, svcErr)

	_, svcErr = svc.Evaluate(context.Background(), storeID, "ONCE", 100)
	assert.Nil(t, svcErr)
	assert.Equal(t, 1, coupon.UsedCount)

	_, svcErr = svc.Evaluate(context.Background(), storeID, "ONCE", 100)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestEvaluateFreeShipping(t *testing.T) {
	_, svc := newCouponFixture()
	storeID := uuid.New()
	_, svcErr := svc.CreateCoupon(context.Background(), &models.CreateCouponRequest{
		StoreID:   storeID,
		Code:      "SHIPFREE",
		Type:      models.CouponTypeFreeShipping,
		Value:     0,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	assert.Nil(t, svcErr)

	eval, svcErr := svc.Evaluate(context.Background(), storeID, "SHIPFREE", 30)

	assert.Nil(t, svcErr)
	assert.True(t, eval.FreeShipping)
	assert.Equal(t, 0.0, eval.Discount)
}

func TestDeactivateCouponHidesIt(t *testing.T) {
	_, svc := newCouponFixture()
	storeID := uuid.New()
	_, svcErr := svc.CreateCoupon(context.Background(), &models.CreateCouponRequest{
		StoreID:   storeID,
		Code:      "GONE",
		Type:      models.CouponTypeFlat,
		Value:     5,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	assert.Nil(t, svcErr)

	svcErr = svc.DeactivateCoupon(context.Background(), storeID, "GONE")
	assert.Nil(t, svcErr)

	_, svcErr = svc.GetCoupon(context.Background(), storeID, "GONE")
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}
