package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "commission-backend/api/swagger" // swagger docs
	"commission-backend/internal/backup"
	"commission-backend/internal/config"
	"commission-backend/internal/database"
	"commission-backend/internal/handler"
	"commission-backend/internal/middleware"
	"commission-backend/internal/repository"
	"commission-backend/internal/service"
	"commission-backend/internal/websocket"
)

// @title           Commission API
// @version         1.0
// @description     Sales and marketing commission calculation with Brazilian tax retention.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store *repository.Store
	switch cfg.Store {
	case config.StoreMemory:
		store = repository.NewMemoryStore()
		log.Println("Using in-memory store; data is lost on restart.")
	default:
		db, err := database.NewConnection(cfg.DB.DSN(), cfg.DB.LogLevel)
		if err != nil {
			log.Fatalf("Database connection failed: %v", err)
		}
		log.Println("Connected to PostgreSQL successfully.")
		store = repository.NewGormStore(db)
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)

	jwtSecret := middleware.GetJWTSecret()

	// Set up dependencies (Repository -> Service -> Handler)
	auditService := service.NewAuditService(store.Audit)
	userService := service.NewUserService(store.Users, auditService, jwtSecret)
	saleService := service.NewSaleService(store, cfg.Business, auditService, wsHub)
	commissionService := service.NewCommissionService(store, auditService)
	marketingService := service.NewMarketingService(store, cfg.Business, auditService, wsHub)
	reportService := service.NewReportService(store, cfg.Business)
	taxService := service.NewTaxService(cfg.Business.Tax)

	if cfg.SeedDemoUsers {
		if err := userService.SeedDemoUsers(ctx); err != nil {
			log.Printf("Demo user seed failed: %v", err)
		}
	}

	backups := backup.NewManager(backup.StoreSource{Store: store}, cfg.BackupDir, cfg.BackupKeep, cfg.BackupInterval)
	go backups.Run(ctx)

	// Set up Gin Router
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	if cfg.PrometheusEnabled {
		log.Println("Prometheus metrics exposed at /metrics")
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "store": cfg.Store, "ws_clients": wsHub.ClientCount()})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, jwtSecret)
	})

	// API Routing
	api := router.Group("")
	handler.NewUserHandler(userService).RegisterRoutes(api)
	handler.NewSaleHandler(saleService).RegisterRoutes(api)
	handler.NewCommissionHandler(commissionService).RegisterRoutes(api)
	handler.NewMarketingHandler(marketingService).RegisterRoutes(api)
	handler.NewReportHandler(reportService).RegisterRoutes(api)
	handler.NewTaxHandler(taxService).RegisterRoutes(api)
	handler.NewAuditHandler(auditService).RegisterRoutes(api)
	handler.NewBackupHandler(backups).RegisterRoutes(api)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
