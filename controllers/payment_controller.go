package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sawyelin1011/mtc-platform/models"
	"github.com/sawyelin1011/mtc-platform/services"
)

// PaymentController handles HTTP requests for payment and refund operations.
type PaymentController struct {
	paymentService services.PaymentService
}

// NewPaymentController creates a new PaymentController.
func NewPaymentController(paymentService services.PaymentService) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

// CreatePaymentMethod handles POST /payment-methods.
func (pc *PaymentController) CreatePaymentMethod(ctx *gin.Context) {
	var req models.CreatePaymentMethodRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	method, svcErr := pc.paymentService.CreatePaymentMethod(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"payment_method": method})
}

// ListPaymentMethods handles GET /payment-methods?store_id=...
func (pc *PaymentController) ListPaymentMethods(ctx *gin.Context) {
	storeID, err := uuid.Parse(ctx.Query("store_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store_id"})
		return
	}

	methods, svcErr := pc.paymentService.ListPaymentMethods(ctx.Request.Context(), storeID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"payment_methods": methods})
}

// ProcessPayment handles POST /payments.
func (pc *PaymentController) ProcessPayment(ctx *gin.Context) {
	var req models.ProcessPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	payment, svcErr := pc.paymentService.ProcessPayment(ctx.Request.Context(), &req)
	if svcErr != nil {
		// The attempt row, when one was written, is returned alongside the
		// error so callers can see the terminal state.
		if payment != nil {
			ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "payment": payment})
			return
		}
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// GetPayment handles GET /payments/:id.
func (pc *PaymentController) GetPayment(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	payment, svcErr := pc.paymentService.GetPayment(ctx.Request.Context(), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"payment": payment})
}

// ListPaymentsByOrder handles GET /orders/:id/payments.
func (pc *PaymentController) ListPaymentsByOrder(ctx *gin.Context) {
	orderID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	payments, svcErr := pc.paymentService.ListPaymentsByOrder(ctx.Request.Context(), orderID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"payments": payments})
}

// CreateRefund handles POST /refunds.
func (pc *PaymentController) CreateRefund(ctx *gin.Context) {
	var req models.CreateRefundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	refund, svcErr := pc.paymentService.CreateRefund(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"refund": refund})
}

// ProcessRefund handles POST /refunds/:id/process.
func (pc *PaymentController) ProcessRefund(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	refund, svcErr := pc.paymentService.ProcessRefund(ctx.Request.Context(), id)
	if svcErr != nil {
		if refund != nil {
			ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message, "refund": refund})
			return
		}
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"refund": refund})
}

// ListRefundsByOrder handles GET /orders/:id/refunds.
func (pc *PaymentController) ListRefundsByOrder(ctx *gin.Context) {
	orderID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	refunds, svcErr := pc.paymentService.ListRefundsByOrder(ctx.Request.Context(), orderID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"refunds": refunds})
}
