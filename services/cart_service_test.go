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

type cartFixture struct {
	carts    *mockCartRepo
	stores   *mockStoreRepo
	products *mockProductRepo
	coupons  services.CouponService
	svc      services.CartService
	store    *models.Store
}

func newCartFixture() *cartFixture {
	logger, _ := zap.NewDevelopment()
	stores := newMockStoreRepo()
	store := &models.Store{
		ID:       uuid.New(),
		Name:     "Acme Goods",
		Slug:     "acme-goods",
		Currency: "usd",
		TaxRate:  10,
		Active:   true,
	}
	stores.stores[store.ID] = store

	products := newMockProductRepo()
	catalog := services.NewCatalogService(products, nil, logger)
	coupons := services.NewCouponService(newMockCouponRepo(), logger)
	carts := newMockCartRepo()

	return &cartFixture{
		carts:    carts,
		stores:   stores,
		products: products,
		coupons:  coupons,
		svc:      services.NewCartService(carts, stores, catalog, coupons, nil, logger),
		store:    store,
	}
}

func (f *cartFixture) addProduct(price float64) *models.Product {
	p := &models.Product{
		ID:            uuid.New(),
		StoreID:       f.store.ID,
		Name:          "Widget",
		Type:          models.ProductTypePhysical,
		Price:         price,
		StockQuantity: 100,
		Active:        true,
	}
	f.products.products[p.ID] = p
	return p
}

func (f *cartFixture) openCart(t *testing.T) *models.Cart {
	t.Helper()
	session := "sess-" + uuid.NewString()
	cart, svcErr := f.svc.CreateCart(context.Background(), &models.CreateCartRequest{
		StoreID:   f.store.ID,
		SessionID: &session,
	})
	assert.Nil(t, svcErr)
	return cart
}

func TestCreateCartRequiresExactlyOneOwner(t *testing.T) {
	f := newCartFixture()
	userID := uuid.New()
	session := "sess-abc"

	_, svcErr := f.svc.CreateCart(context.Background(), &models.CreateCartRequest{StoreID: f.store.ID})
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)

	_, svcErr = f.svc.CreateCart(context.Background(), &models.CreateCartRequest{
		StoreID:   f.store.ID,
		UserID:    &userID,
		SessionID: &session,
	})
	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)

	cart, svcErr := f.svc.CreateCart(context.Background(), &models.CreateCartRequest{
		StoreID: f.store.ID,
		UserID:  &userID,
	})
	assert.Nil(t, svcErr)
	assert.WithinDuration(t, time.Now().Add(models.DefaultCartLifetime), cart.ExpiresAt, time.Minute)
}

func TestCreateCartUnknownStore(t *testing.T) {
	f := newCartFixture()
	userID := uuid.New()

	_, svcErr := f.svc.CreateCart(context.Background(), &models.CreateCartRequest{
		StoreID: uuid.New(),
		UserID:  &userID,
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestCartTotalsRecompute(t *testing.T) {
	f := newCartFixture()
	cart := f.openCart(t)
	a := f.addProduct(10.00)
	b := f.addProduct(5.00)

	_, svcErr := f.svc.AddItem(context.Background(), cart.ID, &models.AddCartItemRequest{
		ProductID: a.ID,
		Quantity:  2,
	})
	assert.Nil(t, svcErr)

	updated, svcErr := f.svc.AddItem(context.Background(), cart.ID, &models.AddCartItemRequest{
		ProductID: b.ID,
		Quantity:  1,
	})
	assert.Nil(t, svcErr)

	// subtotal 25.00, 10% tax
	assert.Equal(t, 25.00, updated.Subtotal())
	assert.Equal(t, 2.50, updated.TotalTax)
	assert.Equal(t, 27.50, updated.TotalPrice)

	updated, svcErr = f.svc.SetShipping(context.Background(), cart.ID, 5.00)
	assert.Nil(t, svcErr)
	assert.Equal(t, 5.00, updated.TotalShipping)
	assert.Equal(t, 32.50, updated.TotalPrice)

	_, svcErr = f.coupons.CreateCoupon(context.Background(), &models.CreateCouponRequest{
		StoreID:   f.store.ID,
		Code:      "TAKE3",
		Type:      models.CouponTypeFlat,
		Value:     3,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	assert.Nil(t, svcErr)

	updated, svcErr = f.svc.ApplyCoupon(context.Background(), cart.ID, "TAKE3")
	assert.Nil(t, svcErr)
	assert.Equal(t, 29.50, updated.TotalPrice)
}

func TestAddItemMergesSameLine(t *testing.T) {
	f := newCartFixture()
	cart := f.openCart(t)
	p := f.addProduct(10.00)

	_, svcErr := f.svc.AddItem(context.Background(), cart.ID, &models.AddCartItemRequest{
		ProductID: p.ID,
		Quantity:  1,
	})
	assert.Nil(t, svcErr)

	// Re-adding after a price change merges quantities and takes the new price.
	f.products.products[p.ID].Price = 12.00
	_, svcErr = f.svc.AddItem(context.Background(), cart.ID, &models.AddCartItemRequest{
		ProductID: p.ID,
		Quantity:  1,
	})
	assert.Nil(t, svcErr)

	updated, svcErr := f.svc.GetCart(context.Background(), cart.ID)
	assert.Nil(t, svcErr)
	assert.Len(t, updated.Items, 1)
	assert.Equal(t, 2, updated.Items[0].Quantity)
	assert.Equal(t, 12.00, updated.Items[0].Price)
	assert.Equal(t, 26.40, updated.TotalPrice)
}

func TestUpdateItemZeroQuantityRemovesLine(t *testing.T) {
	f := newCartFixture()
	cart := f.openCart(t)
	p := f.addProduct(10.00)

	updated, svcErr := f.svc.AddItem(context.Background(), cart.ID, &models.AddCartItemRequest{
		ProductID: p.ID,
		Quantity:  3,
	})
	assert.Nil(t, svcErr)
	assert.Len(t, updated.Items, 1)

	updated, svcErr = f.svc.UpdateItem(context.Background(), updated.Items[0].ID, 0)
	assert.Nil(t, svcErr)
	assert.Empty(t, updated.Items)
	assert.Equal(t, 0.0, updated.TotalPrice)
}

func TestApplyFlatCoupon(t *testing.T) {
	f := newCartFixture()
	cart := f.openCart(t)
	p := f.addProduct(10.00)

	_, svcErr := f.svc.AddItem(context.Background(), cart.ID, &models.AddCartItemRequest{
		ProductID: p.ID,
		Quantity:  2,
	})
	assert.Nil(t, svcErr)

	_, svcErr = f.svc.SetShipping(context.Background(), cart.ID, 5.00)
	assert.Nil(t, svcErr)

	_, svcErr = f.coupons.CreateCoupon(context.Background(), &models.CreateCouponRequest{
		StoreID:   f.store.ID,
		Code:      "FLAT3",
		Type:      models.CouponTypeFlat,
		Value:     3,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	assert.Nil(t, svcErr)

	updated, svcErr := f.svc.ApplyCoupon(context.Background(), cart.ID, "FLAT3")
	assert.Nil(t, svcErr)
	assert.NotNil(t, updated.CouponCode)
	assert.Equal(t, "FLAT3", *updated.CouponCode)
	assert.Equal(t, 3.00, updated.CouponDiscount)
	// 20 subtotal + 2 tax + 5 shipping - 3 discount
	assert.Equal(t, 24.00, updated.TotalPrice)

	updated, svcErr = f.svc.RemoveCoupon(context.Background(), cart.ID)
	assert.Nil(t, svcErr)
	assert.Nil(t, updated.CouponCode)
	assert.Equal(t, 0.0, updated.CouponDiscount)
	assert.Equal(t, 27.00, updated.TotalPrice)
}

func TestApplyFreeShippingCouponZeroesShipping(t *testing.T) {
	f := newCartFixture()
	cart := f.openCart(t)
	p := f.addProduct(10.00)

	_, svcErr := f.svc.AddItem(context.Background(), cart.ID, &models.AddCartItemRequest{
		ProductID: p.ID,
		Quantity:  1,
	})
	assert.Nil(t, svcErr)

	_, svcErr = f.svc.SetShipping(context.Background(), cart.ID, 7.50)
	assert.Nil(t, svcErr)

	_, svcErr = f.coupons.CreateCoupon(context.Background(), &models.CreateCouponRequest{
		StoreID:   f.store.ID,
		Code:      "SHIPFREE",
		Type:      models.CouponTypeFreeShipping,
		Value:     0,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	assert.Nil(t, svcErr)

	updated, svcErr := f.svc.ApplyCoupon(context.Background(), cart.ID, "SHIPFREE")
	assert.Nil(t, svcErr)
	assert.Equal(t, 0.0, updated.TotalShipping)
	assert.Equal(t, 0.0, updated.CouponDiscount)
	// 10 subtotal + 1 tax, no shipping
	assert.Equal(t, 11.00, updated.TotalPrice)
}

func TestClearCartResetsTotals(t *testing.T) {
	f := newCartFixture()
	cart := f.openCart(t)
	p := f.addProduct(10.00)

	_, svcErr := f.svc.AddItem(context.Background(), cart.ID, &models.AddCartItemRequest{
		ProductID: p.ID,
		Quantity:  2,
	})
	assert.Nil(t, svcErr)

	svcErr = f.svc.ClearCart(context.Background(), cart.ID)
	assert.Nil(t, svcErr)

	updated, svcErr := f.svc.GetCart(context.Background(), cart.ID)
	assert.Nil(t, svcErr)
	assert.Empty(t, updated.Items)
	assert.Equal(t, 0.0, updated.TotalPrice)
	assert.Equal(t, 0.0, updated.TotalTax)
	assert.Nil(t, updated.CouponCode)
}

func TestAddItemInactiveProduct(t *testing.T) {
	f := newCartFixture()
	cart := f.openCart(t)
	p := f.addProduct(10.00)
	p.Active = false

	_, svcErr := f.svc.AddItem(context.Background(), cart.ID, &models.AddCartItemRequest{
		ProductID: p.ID,
		Quantity:  1,
	})

	assert.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestDeleteExpiredCarts(t *testing.T) {
	f := newCartFixture()
	live := f.openCart(t)

	expired := f.openCart(t)
	f.carts.carts[expired.ID].ExpiresAt = time.Now().Add(-time.Hour)

	purged, svcErr := f.svc.DeleteExpiredCarts(context.Background())
	assert.Nil(t, svcErr)
	assert.Equal(t, int64(1), purged)

	_, svcErr = f.svc.GetCart(context.Background(), live.ID)
	assert.Nil(t, svcErr)
	_, svcErr = f.svc.GetCart(context.Background(), expired.ID)
	assert.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}
