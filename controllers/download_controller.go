package controllers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sawyelin1011/mtc-platform/models"
	"github.com/sawyelin1011/mtc-platform/services"
)

// maxUploadSize bounds direct file uploads; anything larger goes through the
// presigned URL path.
const maxUploadSize = 64 << 20

// DownloadController handles HTTP requests for digital fulfillment.
type DownloadController struct {
	fulfillmentService services.FulfillmentService
}

// NewDownloadController creates a new DownloadController.
func NewDownloadController(fulfillmentService services.FulfillmentService) *DownloadController {
	return &DownloadController{fulfillmentService: fulfillmentService}
}

// CreateDigitalDownload handles POST /downloads.
func (dc *DownloadController) CreateDigitalDownload(ctx *gin.Context) {
	var req models.CreateDigitalDownloadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	download, svcErr := dc.fulfillmentService.CreateDigitalDownload(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"download": download})
}

// GetDigitalDownload handles GET /downloads/:id.
func (dc *DownloadController) GetDigitalDownload(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	download, svcErr := dc.fulfillmentService.GetDigitalDownload(ctx.Request.Context(), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"download": download})
}

// ListDigitalDownloads handles GET /downloads?product_id=...
func (dc *DownloadController) ListDigitalDownloads(ctx *gin.Context) {
	productID, err := uuid.Parse(ctx.Query("product_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
		return
	}

	downloads, svcErr := dc.fulfillmentService.ListDigitalDownloads(ctx.Request.Context(), productID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"downloads": downloads})
}

// UploadFile handles PUT /downloads/:id/file. The raw request body is the
// file content.
func (dc *DownloadController) UploadFile(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	data, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxUploadSize+1))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload body"})
		return
	}
	if len(data) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Upload body is empty"})
		return
	}
	if len(data) > maxUploadSize {
		ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large; use a presigned upload"})
		return
	}

	download, svcErr := dc.fulfillmentService.UploadFile(ctx.Request.Context(), id, data)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"download": download})
}

// GeneratePresignedUpload handles POST /downloads/:id/presign.
func (dc *DownloadController) GeneratePresignedUpload(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	presigned, svcErr := dc.fulfillmentService.GeneratePresignedUpload(ctx.Request.Context(), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"upload": presigned})
}

// CreateDownloadLink handles POST /download-links.
func (dc *DownloadController) CreateDownloadLink(ctx *gin.Context) {
	var req models.CreateDownloadLinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	link, svcErr := dc.fulfillmentService.CreateDownloadLink(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"link": link})
}

// GetLinkInfo handles GET /download-links/:token. It reports link state
// without consuming a download.
func (dc *DownloadController) GetLinkInfo(ctx *gin.Context) {
	token := ctx.Param("token")
	if token == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	link, svcErr := dc.fulfillmentService.GetLinkByToken(ctx.Request.Context(), token)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"link": link})
}

// ServeDownload handles GET /d/:token. It consumes one download and streams
// the file with an attachment disposition.
func (dc *DownloadController) ServeDownload(ctx *gin.Context) {
	token := ctx.Param("token")
	if token == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	payload, svcErr := dc.fulfillmentService.GetDownloadFile(ctx.Request.Context(), token)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	defer payload.Body.Close()

	contentType := payload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.FileName))
	if payload.FileSize > 0 {
		ctx.DataFromReader(http.StatusOK, payload.FileSize, contentType, payload.Body, nil)
		return
	}

	ctx.Header("Content-Type", contentType)
	ctx.Status(http.StatusOK)
	_, _ = io.Copy(ctx.Writer, payload.Body)
}

// PurgeExpiredLinks handles POST /internal/download-links/purge-expired.
func (dc *DownloadController) PurgeExpiredLinks(ctx *gin.Context) {
	purged, svcErr := dc.fulfillmentService.CleanupExpiredLinks(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"purged": purged})
}
