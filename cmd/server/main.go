package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/edubooks-storefront/config"
	"github.com/ikkim/edubooks-storefront/internal/app/controller"
	"github.com/ikkim/edubooks-storefront/internal/app/repository"
	"github.com/ikkim/edubooks-storefront/internal/app/service"
	"github.com/ikkim/edubooks-storefront/internal/db"
	"github.com/ikkim/edubooks-storefront/internal/middleware"
	"github.com/ikkim/edubooks-storefront/internal/router"
	"github.com/ikkim/edubooks-storefront/internal/scheduler"
	"github.com/ikkim/edubooks-storefront/internal/storage"
	ws "github.com/ikkim/edubooks-storefront/internal/websocket"
	"github.com/ikkim/edubooks-storefront/pkg/logger"
	"github.com/ikkim/edubooks-storefront/pkg/redis"
	"github.com/ikkim/edubooks-storefront/pkg/storeapi"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting storefront gateway", map[string]interface{}{
		"environment":    cfg.Server.Environment,
		"port":           cfg.Server.Port,
		"log_level":      logLevel,
		"storage_driver": cfg.Storage.Driver,
		"api_base_url":   cfg.API.BaseURL,
	})

	store, closeStorage := initStorage(cfg)
	defer closeStorage()

	apiClient, err := storeapi.NewClient(storeapi.Config{
		BaseURL:         cfg.API.BaseURL,
		Timeout:         cfg.API.Timeout,
		DefaultLanguage: cfg.API.DefaultLanguage,
	})
	if err != nil {
		logger.Fatal("Failed to create store API client", err)
	}

	// Notification hub
	hub := ws.NewHub()

	// Initialize services
	sessionService := service.NewSessionService(store, cfg.API.DefaultLanguage)
	if err := sessionService.StartSession(context.Background()); err != nil {
		logger.Fatal("Failed to start session", err)
	}
	notificationService := service.NewNotificationService(hub)
	cartService := service.NewCartService(apiClient, sessionService, notificationService)
	catalogService := service.NewCatalogService(apiClient, sessionService, cartService, notificationService)
	shopService := service.NewShopService(apiClient, sessionService, cfg.Shop.FilterDebounce)
	defer shopService.Close()
	authService := service.NewAuthService(
		apiClient,
		sessionService,
		cartService,
		notificationService,
		cfg.OTP.Length,
		service.NewCooldown(cfg.OTP.ResendCooldown, nil),
	)
	orderService := service.NewOrderService(apiClient, sessionService, cartService, notificationService)
	settingsService := service.NewSettingsService(apiClient, sessionService, notificationService)

	// Initialize controllers
	sessionController := controller.NewSessionController(sessionService)
	cartController := controller.NewCartController(cartService)
	catalogController := controller.NewCatalogController(catalogService)
	shopController := controller.NewShopController(shopService)
	authController := controller.NewAuthController(authService)
	orderController := controller.NewOrderController(orderService, initExportArchive(cfg))
	settingsController := controller.NewSettingsController(settingsService)
	notificationController := controller.NewNotificationController(notificationService, hub, cfg.CORS.AllowedOrigins)

	go hub.Run()
	defer hub.Stop()

	// Initial cart load for a stored token
	if err := cartService.Fetch(context.Background()); err != nil {
		logger.Warn("Initial cart fetch failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	cartSync := scheduler.NewCartSyncScheduler(cartService)
	if err := cartSync.Start(cfg.Schedule.CartSync); err != nil {
		logger.Fatal("Failed to start cart sync scheduler", err)
	}
	defer cartSync.Stop()

	// Setup router
	r := router.NewRouter(
		sessionController,
		cartController,
		catalogController,
		shopController,
		authController,
		orderController,
		settingsController,
		notificationController,
		middleware.NewSessionMiddleware(sessionService),
		cfg,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r.Setup(),
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}

// initStorage opens the configured client-state store.
func initStorage(cfg *config.Config) (repository.StorageRepository, func()) {
	switch cfg.Storage.Driver {
	case "redis":
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		return repository.NewRedisStorageRepository(redis.GetClient()), func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}
	default:
		if err := db.Initialize(&cfg.Database); err != nil {
			logger.Fatal("Failed to initialize database", err)
		}
		if err := db.Migrate(); err != nil {
			logger.Fatal("Failed to run migrations", err)
		}
		return repository.NewStorageRepository(db.GetDB()), func() {
			if err := db.Close(); err != nil {
				logger.Error("Failed to close database connection", err)
			}
		}
	}
}

// initExportArchive returns nil when no export bucket is configured.
func initExportArchive(cfg *config.Config) controller.ExportArchiver {
	archive, err := storage.NewExportArchive(storage.ArchiveConfig{
		Region:          cfg.S3.Region,
		Bucket:          cfg.S3.Bucket,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		Endpoint:        cfg.S3.Endpoint,
		LinkExpiry:      cfg.S3.LinkExpiry,
	})
	if errors.Is(err, storage.ErrArchiveDisabled) {
		logger.Info("Order export archive disabled")
		return nil
	}
	if err != nil {
		logger.Fatal("Failed to initialize export archive", err)
	}
	logger.Info("Order export archive enabled", map[string]interface{}{
		"bucket": cfg.S3.Bucket,
	})
	return archive
}
