package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sawyelin1011/mtc-platform/models"
	"github.com/sawyelin1011/mtc-platform/services"
)

// StoreController handles HTTP requests for store operations.
type StoreController struct {
	storeService services.StoreService
}

// NewStoreController creates a new StoreController.
func NewStoreController(storeService services.StoreService) *StoreController {
	return &StoreController{storeService: storeService}
}

// CreateStore handles POST /stores.
func (sc *StoreController) CreateStore(ctx *gin.Context) {
	var req models.CreateStoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	store, svcErr := sc.storeService.CreateStore(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"store": store})
}

// GetStore handles GET /stores/:id.
func (sc *StoreController) GetStore(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	store, svcErr := sc.storeService.GetStore(ctx.Request.Context(), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"store": store})
}

// GetStoreBySlug handles GET /stores/slug/:slug.
func (sc *StoreController) GetStoreBySlug(ctx *gin.Context) {
	slug := ctx.Param("slug")
	if slug == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Store slug is required"})
		return
	}

	store, svcErr := sc.storeService.GetStoreBySlug(ctx.Request.Context(), slug)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"store": store})
}

// UpdateStore handles PATCH /stores/:id.
func (sc *StoreController) UpdateStore(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.UpdateStoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	store, svcErr := sc.storeService.UpdateStore(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"store": store})
}

// ListStores handles GET /stores.
func (sc *StoreController) ListStores(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	stores, total, svcErr := sc.storeService.ListStores(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"meta":   paginationMeta(page, limit, total),
	})
}
