package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"multiMart/app/echo-server/router"
	"multiMart/business/dispute"
	"multiMart/business/message"
	"multiMart/business/orders"
	"multiMart/business/payout"
	"multiMart/business/product"
	"multiMart/business/review"
	"multiMart/business/storage"
	userService "multiMart/business/user"
	"multiMart/business/vendor"
	"multiMart/domain"
	"multiMart/internal/middleware"
	"multiMart/internal/repository/notification"
	"multiMart/internal/repository/objectstore"
	psqlRepo "multiMart/internal/repository/postgres"
	redisRepo "multiMart/internal/repository/redis"
	"multiMart/internal/rest"
	"multiMart/pkg/config"
	"multiMart/pkg/database"
	redisClient "multiMart/pkg/database/redis"
	"multiMart/pkg/logger"
	"multiMart/pkg/metrics"
	"multiMart/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting MultiMart", "version", cfg.App.Version, "env", cfg.App.Environment)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Redis is optional; without it in-flight duplicate orders fall back to
	// the unique idempotency key in postgres.
	var idempotency orders.IdempotencyStore
	if cfg.Redis.Enabled() {
		rdb, err := redisClient.NewRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", "error", err)
		}
		defer func() {
			if err := redisClient.CloseRedisClient(rdb); err != nil {
				logger.Error("Failed to close redis", "error", err)
			}
		}()
		idempotency = redisRepo.NewIdempotencyRepository(rdb)
		logger.Info("Redis connected successfully")
	}

	store, err := newObjectStore(cfg)
	if err != nil {
		logger.Fatal("Failed to init object storage", "error", err, "driver", cfg.Storage.Driver)
	}

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	jwtManager := utils.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.TTL)
	validate := validator.New()

	// Init repo
	tx := psqlRepo.NewTransactor(db)
	userRepo := psqlRepo.NewUserRepository(db)
	vendorRepo := psqlRepo.NewVendorRepository(db)
	productsRepo := psqlRepo.NewProductRepository(db)
	ordersRepo := psqlRepo.NewOrdersRepository(db)
	reviewRepo := psqlRepo.NewReviewRepository(db)
	disputeRepo := psqlRepo.NewDisputeRepository(db)
	payoutRepo := psqlRepo.NewPayoutRepository(db)
	messageRepo := psqlRepo.NewMessageRepository(db)

	// Init service
	userSvc := userService.NewUserService(userRepo, validate, mailjetEmail, jwtManager, userService.Config{
		EmailVerificationKey: cfg.App.AppEmailVerificationKey,
		DeploymentURL:        cfg.App.AppDeploymentUrl,
		SkipVerification:     cfg.App.Environment == config.EnvDevelopment,
	})
	vendorSvc := vendor.NewVendorService(vendorRepo, userRepo, tx)
	productSvc := product.NewProductService(productsRepo)
	ordersSvc := orders.NewOrdersService(ordersRepo, productsRepo, tx, idempotency, orders.Config{
		StrictTransitions: cfg.Orders.StrictTransitions,
		IdempotencyTTL:    cfg.Orders.IdempotencyTTL,
	})
	reviewSvc := review.NewReviewService(reviewRepo, productsRepo)
	disputeSvc := dispute.NewDisputeService(disputeRepo, ordersRepo)
	payoutSvc := payout.NewPayoutService(payoutRepo)
	messageSvc := message.NewMessageService(messageRepo, userRepo)
	storageSvc := storage.NewStorageService(store, cfg.Storage.MaxUploadMB<<20)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middleware.HTTPErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestMetrics())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, rest.HeaderIdempotencyKey},
	}))

	if cfg.Storage.Driver == config.StorageDriverLocal {
		e.Static("/uploads", cfg.Storage.LocalPath)
	}

	guards := router.Guards{
		Auth:      middleware.AuthMiddleware(jwtManager),
		AdminOnly: middleware.RequireRole(domain.RoleAdmin),
		Vendor:    middleware.ResolveVendor(vendorSvc),
		RateLimit: middleware.RateLimit(cfg.RateLimit.Limit, cfg.RateLimit.Period),
	}

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupHealthRoutes(api, rest.NewHealthHandler(database.HealthChecker{DB: db}, cfg.App.Version))
	router.SetupUserRoutes(api, rest.NewUserHandler(userSvc), guards)
	router.SetupVendorRoutes(api, rest.NewVendorHandler(vendorSvc), guards)
	router.SetupProductRoutes(api, rest.NewProductHandler(productSvc), rest.NewReviewHandler(reviewSvc), guards)
	router.SetupOrdersRoutes(api, rest.NewOrdersHandler(ordersSvc), guards)
	router.SetupDisputeRoutes(api, rest.NewDisputeHandler(disputeSvc), guards)
	router.SetupPayoutRoutes(api, rest.NewPayoutHandler(payoutSvc), guards)
	router.SetupMessageRoutes(api, rest.NewMessageHandler(messageSvc), guards)
	router.SetupStorageRoutes(api, rest.NewStorageHandler(storageSvc), fmt.Sprintf("%dM", cfg.Storage.MaxUploadMB*10), guards)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}

	logger.Info("Server stopped")
}

func newObjectStore(cfg *config.Config) (storage.ObjectStore, error) {
	if cfg.Storage.Driver != config.StorageDriverS3 {
		local, err := objectstore.NewLocalStore(cfg.Storage.LocalPath, cfg.Storage.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		return local, nil
	}

	s3, err := objectstore.NewS3Store(objectstore.S3Config{
		Endpoint:      cfg.Storage.S3Endpoint,
		AccessKey:     cfg.Storage.S3AccessKey,
		SecretKey:     cfg.Storage.S3SecretKey,
		Bucket:        cfg.Storage.S3Bucket,
		UseSSL:        cfg.Storage.S3UseSSL,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	return s3, nil
}
