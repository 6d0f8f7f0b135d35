package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sawyelin1011/mtc-platform/models"
	"github.com/sawyelin1011/mtc-platform/services"
)

// CartController handles HTTP requests for cart operations.
type CartController struct {
	cartService services.CartService
}

// NewCartController creates a new CartController.
func NewCartController(cartService services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// CreateCart handles POST /carts.
func (cc *CartController) CreateCart(ctx *gin.Context) {
	var req models.CreateCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, svcErr := cc.cartService.CreateCart(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"cart": cart})
}

// GetCart handles GET /carts/:id.
func (cc *CartController) GetCart(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	cart, svcErr := cc.cartService.GetCart(ctx.Request.Context(), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// AddItem handles POST /carts/:id/items.
func (cc *CartController) AddItem(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.AddCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, svcErr := cc.cartService.AddItem(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// UpdateItem handles PATCH /carts/items/:itemId.
func (cc *CartController) UpdateItem(ctx *gin.Context) {
	itemID, ok := parseUUIDParam(ctx, "itemId")
	if !ok {
		return
	}

	var req models.UpdateCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, svcErr := cc.cartService.UpdateItem(ctx.Request.Context(), itemID, req.Quantity)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// RemoveItem handles DELETE /carts/items/:itemId.
func (cc *CartController) RemoveItem(ctx *gin.Context) {
	itemID, ok := parseUUIDParam(ctx, "itemId")
	if !ok {
		return
	}

	cart, svcErr := cc.cartService.RemoveItem(ctx.Request.Context(), itemID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// ClearCart handles DELETE /carts/:id/items.
func (cc *CartController) ClearCart(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if svcErr := cc.cartService.ClearCart(ctx.Request.Context(), id); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// ApplyCoupon handles POST /carts/:id/coupon.
func (cc *CartController) ApplyCoupon(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.ApplyCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, svcErr := cc.cartService.ApplyCoupon(ctx.Request.Context(), id, req.Code)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// RemoveCoupon handles DELETE /carts/:id/coupon.
func (cc *CartController) RemoveCoupon(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	cart, svcErr := cc.cartService.RemoveCoupon(ctx.Request.Context(), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// SetShipping handles PUT /carts/:id/shipping.
func (cc *CartController) SetShipping(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.SetShippingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, svcErr := cc.cartService.SetShipping(ctx.Request.Context(), id, req.Cost)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"cart": cart})
}

// PurgeExpiredCarts handles POST /internal/carts/purge-expired.
func (cc *CartController) PurgeExpiredCarts(ctx *gin.Context) {
	purged, svcErr := cc.cartService.DeleteExpiredCarts(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"purged": purged})
}
