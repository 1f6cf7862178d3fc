package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/facturacion/backend/internal/application/catalog"
	inventoryapp "github.com/facturacion/backend/internal/application/inventory"
	"github.com/facturacion/backend/internal/infrastructure/auth"
	"github.com/facturacion/backend/internal/infrastructure/config"
	"github.com/facturacion/backend/internal/infrastructure/logger"
	"github.com/facturacion/backend/internal/infrastructure/persistence"
	"github.com/facturacion/backend/internal/interfaces/http/handler"
	"github.com/facturacion/backend/internal/interfaces/http/middleware"
	"github.com/facturacion/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting inventory backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	stockRecordRepo := persistence.NewGormStockRecordRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	lotRepo := persistence.NewGormLotRepository(db.DB)
	reservationRepo := persistence.NewGormReservationRepository(db.DB)
	transferRepo := persistence.NewGormTransferRepository(db.DB)
	adjustmentRepo := persistence.NewGormAdjustmentRepository(db.DB)
	countRepo := persistence.NewGormPhysicalCountRepository(db.DB)
	alertRepo := persistence.NewGormAlertRepository(db.DB)

	// Transaction scope shared by all services that mutate stock
	scope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services. MovementService is the single write
	// path for stock; transfers, adjustments and counts post through it.
	productService := catalogapp.NewProductService(productRepo, log)
	warehouseService := catalogapp.NewWarehouseService(warehouseRepo, log)
	movementService := inventoryapp.NewMovementService(scope, productRepo, warehouseRepo, movementRepo, log)
	stockService := inventoryapp.NewStockService(stockRecordRepo, movementRepo, reservationRepo, lotRepo, scope, log)
	reservationService := inventoryapp.NewReservationService(scope, reservationRepo, log)
	transferService := inventoryapp.NewTransferService(scope, transferRepo, warehouseRepo, movementService, log)
	adjustmentService := inventoryapp.NewAdjustmentService(scope, adjustmentRepo, warehouseRepo, stockRecordRepo, movementService, log)
	countService := inventoryapp.NewPhysicalCountService(scope, countRepo, stockRecordRepo, warehouseRepo, movementService, log)
	alertService := inventoryapp.NewAlertService(scope, alertRepo, stockRecordRepo, lotRepo, cfg.Alert.ExpiryWindow, log)
	expirationService := inventoryapp.NewReservationExpirationService(reservationRepo, log)

	// JWT service for access token validation
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	warehouseHandler := handler.NewWarehouseHandler(warehouseService)
	stockHandler := handler.NewStockHandler(stockService)
	movementHandler := handler.NewMovementHandler(movementService)
	reservationHandler := handler.NewReservationHandler(reservationService)
	transferHandler := handler.NewTransferHandler(transferService)
	adjustmentHandler := handler.NewAdjustmentHandler(adjustmentService)
	countHandler := handler.NewPhysicalCountHandler(countService)
	alertHandler := handler.NewAlertHandler(alertService)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health and readiness endpoints (outside API versioning)
	engine.GET("/health", healthHandler(db, log))
	engine.GET("/ready", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Catalog domain (products, warehouses)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.GET("/products/sku/:sku", productHandler.GetBySKU)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.POST("/products/:id/activate", productHandler.Activate)
	catalogRoutes.POST("/products/:id/deactivate", productHandler.Deactivate)
	catalogRoutes.POST("/products/:id/lot-tracking", productHandler.EnableLotTracking)

	catalogRoutes.POST("/warehouses", warehouseHandler.Create)
	catalogRoutes.GET("/warehouses", warehouseHandler.List)
	catalogRoutes.GET("/warehouses/:id", warehouseHandler.GetByID)
	catalogRoutes.PUT("/warehouses/:id", warehouseHandler.Update)
	catalogRoutes.POST("/warehouses/:id/activate", warehouseHandler.Activate)
	catalogRoutes.POST("/warehouses/:id/deactivate", warehouseHandler.Deactivate)

	// Stock domain (cached projections, lots, availability)
	stockRoutes := router.NewDomainGroup("stock", "/stock")
	stockRoutes.GET("/records", stockHandler.List)
	stockRoutes.GET("/records/lookup", stockHandler.Lookup)
	stockRoutes.GET("/records/below-minimum", stockHandler.ListBelowMinimum)
	stockRoutes.GET("/records/:id", stockHandler.GetByID)
	stockRoutes.GET("/records/:id/availability", stockHandler.GetAvailability)
	stockRoutes.PUT("/records/:id/thresholds", stockHandler.SetThresholds)
	stockRoutes.PUT("/records/:id/valuation-method", stockHandler.SetValuationMethod)
	stockRoutes.POST("/records/:id/recompute", stockHandler.Recompute)
	stockRoutes.GET("/records/:id/lots", stockHandler.ListLots)
	stockRoutes.POST("/lots/:id/block", stockHandler.BlockLot)
	stockRoutes.POST("/lots/:id/unblock", stockHandler.UnblockLot)

	// Inventory domain (movements, reservations, transfers, adjustments,
	// physical counts, alerts)
	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.POST("/movements", movementHandler.Post)
	inventoryRoutes.GET("/movements", movementHandler.List)
	inventoryRoutes.GET("/movements/:id", movementHandler.GetByID)
	inventoryRoutes.POST("/movements/:id/reverse", movementHandler.Reverse)

	inventoryRoutes.POST("/reservations", reservationHandler.Create)
	inventoryRoutes.GET("/reservations", reservationHandler.List)
	inventoryRoutes.GET("/reservations/:id", reservationHandler.GetByID)
	inventoryRoutes.POST("/reservations/:id/confirm", reservationHandler.Confirm)
	inventoryRoutes.POST("/reservations/:id/cancel", reservationHandler.Cancel)

	inventoryRoutes.POST("/transfers", transferHandler.Create)
	inventoryRoutes.GET("/transfers", transferHandler.List)
	inventoryRoutes.GET("/transfers/:id", transferHandler.GetByID)
	inventoryRoutes.POST("/transfers/:id/ship", transferHandler.Ship)
	inventoryRoutes.POST("/transfers/:id/receive", transferHandler.Receive)
	inventoryRoutes.POST("/transfers/:id/cancel", transferHandler.Cancel)

	inventoryRoutes.POST("/adjustments", adjustmentHandler.Create)
	inventoryRoutes.GET("/adjustments", adjustmentHandler.List)
	inventoryRoutes.GET("/adjustments/:id", adjustmentHandler.GetByID)
	inventoryRoutes.POST("/adjustments/:id/approve", adjustmentHandler.Approve)
	inventoryRoutes.POST("/adjustments/:id/reject", adjustmentHandler.Reject)
	inventoryRoutes.POST("/adjustments/:id/process", adjustmentHandler.Process)

	inventoryRoutes.POST("/physical-counts", countHandler.Create)
	inventoryRoutes.GET("/physical-counts", countHandler.List)
	inventoryRoutes.GET("/physical-counts/:id", countHandler.GetByID)
	inventoryRoutes.POST("/physical-counts/:id/start", countHandler.Start)
	inventoryRoutes.POST("/physical-counts/:id/count", countHandler.RecordCount)
	inventoryRoutes.POST("/physical-counts/:id/finish", countHandler.Finish)
	inventoryRoutes.POST("/physical-counts/:id/apply", countHandler.Apply)
	inventoryRoutes.POST("/physical-counts/:id/cancel", countHandler.Cancel)

	inventoryRoutes.GET("/alerts", alertHandler.ListOpen)
	inventoryRoutes.POST("/alerts/:id/acknowledge", alertHandler.Acknowledge)
	inventoryRoutes.POST("/alerts/:id/assign", alertHandler.Assign)
	inventoryRoutes.POST("/alerts/refresh", alertHandler.RefreshAll)
	inventoryRoutes.POST("/alerts/refresh/:id", alertHandler.Refresh)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(catalogRoutes).
		Register(stockRoutes).
		Register(inventoryRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Background sweeps: reservation expiry and periodic alert re-evaluation
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go expirationService.Run(sweepCtx, cfg.Reservation.SweepInterval)
	go alertService.Run(sweepCtx, cfg.Alert.RefreshInterval)

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
