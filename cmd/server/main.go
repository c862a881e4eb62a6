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

	"github.com/valeriy167/paint-store/config"
	"github.com/valeriy167/paint-store/internal/app/controller"
	"github.com/valeriy167/paint-store/internal/app/repository"
	"github.com/valeriy167/paint-store/internal/app/service"
	"github.com/valeriy167/paint-store/internal/db"
	"github.com/valeriy167/paint-store/internal/middleware"
	"github.com/valeriy167/paint-store/internal/router"
	"github.com/valeriy167/paint-store/internal/storage"
	"github.com/valeriy167/paint-store/pkg/logger"
	"github.com/valeriy167/paint-store/pkg/mailer"
	"github.com/valeriy167/paint-store/pkg/redis"
	"github.com/valeriy167/paint-store/pkg/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.ConfigForEnvironment(cfg.Server.Environment))

	logger.Info("Starting paint store backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional: without it the contact info is read from the
	// database every time and logout cannot revoke tokens.
	var (
		contactCache   service.ContactCache
		tokenBlacklist service.TokenBlacklist
		tokenChecker   middleware.TokenChecker
		cachePinger    controller.Pinger
	)
	if cfg.Redis.Enabled() {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, continuing without cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
			store := redis.NewStore(redis.GetClient())
			contactCache, tokenBlacklist, tokenChecker, cachePinger = store, store, store, store
		}
	}

	var images service.ImageStorage
	if cfg.S3.Bucket != "" && cfg.S3.AccessKeyID != "" {
		s3Storage, err := storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			logger.Warn("S3 storage unavailable, image uploads disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			images = s3Storage
		}
	}

	chat := telegram.NewClient(telegram.Config{
		BotToken: cfg.Telegram.BotToken,
		ChatID:   cfg.Telegram.ChatID,
		BaseURL:  cfg.Telegram.BaseURL,
	})
	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
	})
	logger.Info("Order notification channels", map[string]interface{}{
		"telegram": chat.Configured(),
		"email":    mail.Configured(),
	})

	gdb := db.GetDB()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gdb)
	productRepo := repository.NewProductRepository(gdb)
	manufacturerRepo := repository.NewManufacturerRepository(gdb)
	cartRepo := repository.NewCartRepository(gdb)
	reviewRepo := repository.NewReviewRepository(gdb)
	contactRepo := repository.NewContactRepository(gdb)

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		tokenBlacklist,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	contactService := service.NewContactService(contactRepo, contactCache, cfg.Redis.ContactCacheTTL)
	cartService := service.NewCartService(cartRepo, productRepo)
	checkoutService := service.NewCheckoutService(
		userRepo,
		cartRepo,
		contactService,
		chat,
		mail,
		service.CheckoutConfig{
			ChatID:         chat.ChatID(),
			FromEmail:      cfg.SMTP.DefaultFromEmail,
			ChannelTimeout: cfg.Checkout.ChannelTimeout,
		},
	)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	catalogService := service.NewCatalogService(productRepo, manufacturerRepo, images)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	cartController := controller.NewCartController(cartService, checkoutService)
	reviewController := controller.NewReviewController(reviewService)
	catalogController := controller.NewCatalogController(catalogService)
	healthController := controller.NewHealthController(gdb, cachePinger)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, tokenChecker)

	r := router.NewRouter(
		authController,
		cartController,
		reviewController,
		catalogController,
		healthController,
		authMiddleware,
		cfg,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": server.Addr,
			"pid":     os.Getpid(),
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
