package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/sawyelin1011/mtc-platform/controllers"
	"github.com/sawyelin1011/mtc-platform/middleware"
)

// RegisterStoreRoutes sets up store-related routes.
func RegisterStoreRoutes(r *gin.Engine, sc *controllers.StoreController, cc *controllers.CouponController) {
	storeRoutes := r.Group("/stores")
	storeRoutes.POST("", sc.CreateStore)
	storeRoutes.GET("", sc.ListStores)
	storeRoutes.GET("/slug/:slug", sc.GetStoreBySlug)
	storeRoutes.GET("/:id", sc.GetStore)
	storeRoutes.PATCH("/:id", sc.UpdateStore)

	// Store-scoped coupon lookup lives under the store path so two stores can
	// share a code.
	storeRoutes.GET("/:id/coupons/:code", cc.GetCoupon)
	storeRoutes.DELETE("/:id/coupons/:code", cc.DeactivateCoupon)
}

// RegisterProductRoutes sets up catalog routes.
func RegisterProductRoutes(r *gin.Engine, pc *controllers.ProductController) {
	productRoutes := r.Group("/products")
	productRoutes.POST("", pc.CreateProduct)
	productRoutes.GET("", pc.ListProducts)
	productRoutes.GET("/:id", pc.GetProduct)
	productRoutes.PATCH("/:id", pc.UpdateProduct)
	productRoutes.DELETE("/:id", pc.DeleteProduct)
	productRoutes.POST("/:id/variants", pc.CreateVariant)
}

// RegisterCartRoutes sets up cart routes.
func RegisterCartRoutes(r *gin.Engine, cc *controllers.CartController) {
	cartRoutes := r.Group("/carts")
	cartRoutes.POST("", cc.CreateCart)
	cartRoutes.GET("/:id", cc.GetCart)
	cartRoutes.POST("/:id/items", cc.AddItem)
	cartRoutes.DELETE("/:id/items", cc.ClearCart)
	cartRoutes.PATCH("/items/:itemId", cc.UpdateItem)
	cartRoutes.DELETE("/items/:itemId", cc.RemoveItem)
	cartRoutes.POST("/:id/coupon", cc.ApplyCoupon)
	cartRoutes.DELETE("/:id/coupon", cc.RemoveCoupon)
	cartRoutes.PUT("/:id/shipping", cc.SetShipping)

	r.POST("/internal/carts/purge-expired", cc.PurgeExpiredCarts)
}

// RegisterOrderRoutes sets up order routes, including the per-order payment
// and refund listings.
func RegisterOrderRoutes(r *gin.Engine, oc *controllers.OrderController, pc *controllers.PaymentController) {
	orderRoutes := r.Group("/orders")
	orderRoutes.POST("", oc.CreateOrder)
	orderRoutes.GET("", oc.ListOrders)
	orderRoutes.GET("/number/:orderNumber", oc.GetOrderByNumber)
	orderRoutes.GET("/:id", oc.GetOrder)
	orderRoutes.POST("/:id/items", oc.AddItem)
	orderRoutes.PUT("/:id/status", oc.UpdateStatus)
	orderRoutes.PUT("/:id/payment-status", oc.UpdatePaymentStatus)
	orderRoutes.PUT("/:id/shipping-status", oc.UpdateShippingStatus)
	orderRoutes.POST("/:id/cancel", oc.CancelOrder)
	orderRoutes.GET("/:id/payments", pc.ListPaymentsByOrder)
	orderRoutes.GET("/:id/refunds", pc.ListRefundsByOrder)
}

// RegisterPaymentRoutes sets up payment method, payment and refund routes.
func RegisterPaymentRoutes(r *gin.Engine, pc *controllers.PaymentController) {
	r.POST("/payment-methods", pc.CreatePaymentMethod)
	r.GET("/payment-methods", pc.ListPaymentMethods)

	paymentRoutes := r.Group("/payments")
	paymentRoutes.POST("", pc.ProcessPayment)
	paymentRoutes.GET("/:id", pc.GetPayment)

	refundRoutes := r.Group("/refunds")
	refundRoutes.POST("", pc.CreateRefund)
	refundRoutes.POST("/:id/process", pc.ProcessRefund)
}

// RegisterCouponRoutes sets up coupon admin routes.
func RegisterCouponRoutes(r *gin.Engine, cc *controllers.CouponController) {
	couponRoutes := r.Group("/coupons")
	couponRoutes.POST("", cc.CreateCoupon)
	couponRoutes.GET("", cc.ListCoupons)
}

// RegisterDownloadRoutes sets up digital fulfillment routes. The public
// token download is rate-limited per client IP.
func RegisterDownloadRoutes(r *gin.Engine, dc *controllers.DownloadController, limiter *middleware.IPRateLimiter) {
	downloadRoutes := r.Group("/downloads")
	downloadRoutes.POST("", dc.CreateDigitalDownload)
	downloadRoutes.GET("", dc.ListDigitalDownloads)
	downloadRoutes.GET("/:id", dc.GetDigitalDownload)
	downloadRoutes.PUT("/:id/file", dc.UploadFile)
	downloadRoutes.POST("/:id/presign", dc.GeneratePresignedUpload)

	linkRoutes := r.Group("/download-links")
	linkRoutes.POST("", dc.CreateDownloadLink)
	linkRoutes.GET("/:token", dc.GetLinkInfo)

	r.GET("/d/:token", middleware.RateLimit(limiter), dc.ServeDownload)

	r.POST("/internal/download-links/purge-expired", dc.PurgeExpiredLinks)
}
