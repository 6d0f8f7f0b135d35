package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/sawyelin1011/mtc-platform/common/errors"
	applogger "github.com/sawyelin1011/mtc-platform/common/logger"
	"github.com/sawyelin1011/mtc-platform/controllers"
	"github.com/sawyelin1011/mtc-platform/database"
	"github.com/sawyelin1011/mtc-platform/middleware"
	"github.com/sawyelin1011/mtc-platform/models"
	aws_pkg "github.com/sawyelin1011/mtc-platform/pkg/aws"
	"github.com/sawyelin1011/mtc-platform/repository"
	"github.com/sawyelin1011/mtc-platform/routes"
	"github.com/sawyelin1011/mtc-platform/services"

	"golang.org/x/time/rate"
)

func main() {
	applogger.Initialize(getEnv("APP_ENV", "production"))
	logger := applogger.Log
	defer logger.Sync()

	cfg, err := LoadConfig()
	if err != nil {
		if apperrors.Is(err, apperrors.ErrConfiguration) {
			logger.Fatal("Secrets Manager configuration failed", zap.Error(err))
		}
		logger.Fatal("Config load failed", zap.Error(err))
	}

	// --- Database ---
	if err := database.Connect(logger); err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}

	// --- Redis catalog cache (optional) ---
	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache = database.NewRedisClient(cfg.RedisURL)
	}

	// --- AWS setup ---
	awsCfg, err := aws_pkg.LoadAWSConfig(context.Background())
	if err != nil {
		logger.Fatal("Failed to load AWS config", zap.Error(err))
	}
	snsClient := aws_pkg.NewSNSClient(awsCfg)
	objectStore := aws_pkg.NewS3ObjectStore(awsCfg, cfg.DownloadsBucket)

	// CloudWatch metrics (non-fatal)
	metricsClient, err := aws_pkg.NewMetricsClient(context.Background())
	if err != nil {
		logger.Warn("CloudWatch metrics client init failed (non-fatal)", zap.Error(err))
		metricsClient = nil
	}

	presign := func(ctx context.Context, key string, expirySeconds int64) (string, map[string]string, error) {
		return aws_pkg.GeneratePresignedPutURL(ctx, awsCfg, cfg.DownloadsBucket, key, expirySeconds)
	}

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())

	// CloudWatch HTTP metrics middleware
	r.Use(func(c *gin.Context) {
		if metricsClient == nil || !metricsClient.IsEnabled() {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		go func(path, method string, status int, dur time.Duration) {
			mctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			dims := map[string]string{"Service": "commerce-platform", "Method": method, "Path": path}
			_ = metricsClient.RecordCount(mctx, aws_pkg.MetricHTTPRequests, dims)
			_ = metricsClient.RecordLatency(mctx, aws_pkg.MetricHTTPLatency, dur, dims)
			if status >= 400 {
				_ = metricsClient.RecordCount(mctx, aws_pkg.MetricHTTPErrors, dims)
			}
		}(c.Request.URL.Path, c.Request.Method, c.Writer.Status(), time.Since(start))
	})

	// Structured HTTP request logging with request IDs
	r.Use(applogger.RequestLogger())

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// --- Payment gateways ---
	gateways := services.NewGatewayRegistry()
	if cfg.StripeSecretKey != "" {
		gateways.Register(models.GatewayStripe, services.NewStripeGateway(cfg.StripeSecretKey))
	}

	// --- Dependency injection ---
	storeRepo := repository.NewGormStoreRepository(database.DB)
	productRepo := repository.NewGormProductRepository(database.DB)
	cartRepo := repository.NewGormCartRepository(database.DB)
	couponRepo := repository.NewGormCouponRepository(database.DB)
	orderRepo := repository.NewGormOrderRepository(database.DB)
	paymentRepo := repository.NewGormPaymentRepository(database.DB)
	downloadRepo := repository.NewGormDownloadRepository(database.DB)

	storeService := services.NewStoreService(storeRepo, logger)
	catalogService := services.NewCatalogService(productRepo, cache, logger)
	couponService := services.NewCouponService(couponRepo, logger)
	cartService := services.NewCartService(cartRepo, storeRepo, catalogService, couponService, metricsClient, logger)
	orderService := services.NewOrderService(orderRepo, storeRepo, snsClient, cfg.OrderSNSTopicARN, metricsClient, logger)
	paymentService := services.NewPaymentService(paymentRepo, orderService, gateways, snsClient, cfg.PaymentSNSTopicARN, metricsClient, logger)
	fulfillmentService := services.NewFulfillmentService(downloadRepo, catalogService, objectStore, presign, snsClient, cfg.FulfillmentSNSTopicARN, metricsClient, logger)

	storeController := controllers.NewStoreController(storeService)
	productController := controllers.NewProductController(catalogService)
	cartController := controllers.NewCartController(cartService)
	couponController := controllers.NewCouponController(couponService)
	orderController := controllers.NewOrderController(orderService)
	paymentController := controllers.NewPaymentController(paymentService)
	downloadController := controllers.NewDownloadController(fulfillmentService)

	// Public downloads get a modest per-IP budget.
	downloadLimiter := middleware.NewIPRateLimiter(rate.Every(time.Second), 10)

	routes.RegisterStoreRoutes(r, storeController, couponController)
	routes.RegisterProductRoutes(r, productController)
	routes.RegisterCartRoutes(r, cartController)
	routes.RegisterCouponRoutes(r, couponController)
	routes.RegisterOrderRoutes(r, orderController, paymentController)
	routes.RegisterPaymentRoutes(r, paymentController)
	routes.RegisterDownloadRoutes(r, downloadController, downloadLimiter)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "commerce-platform"})
	})

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Commerce platform started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	httpShutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(httpShutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	if cache != nil {
		if err := cache.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	if err := database.Close(); err != nil {
		logger.Error("Database close error", zap.Error(err))
	}

	log.Println("Commerce platform stopped gracefully")
}
