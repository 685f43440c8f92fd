package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/learnhub-service/internal/ai"
	"github.com/SAP-F-2025/learnhub-service/internal/auth"
	"github.com/SAP-F-2025/learnhub-service/internal/cache"
	"github.com/SAP-F-2025/learnhub-service/internal/config"
	"github.com/SAP-F-2025/learnhub-service/internal/events"
	"github.com/SAP-F-2025/learnhub-service/internal/handlers"
	"github.com/SAP-F-2025/learnhub-service/internal/media"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories/casdoor"
	"github.com/SAP-F-2025/learnhub-service/internal/repositories/docstore"
	"github.com/SAP-F-2025/learnhub-service/internal/services"
	"github.com/SAP-F-2025/learnhub-service/internal/store"
	"github.com/SAP-F-2025/learnhub-service/internal/store/postgres"
	"github.com/SAP-F-2025/learnhub-service/internal/utils"
	"github.com/SAP-F-2025/learnhub-service/internal/validator"
	"github.com/SAP-F-2025/learnhub-service/pkg"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(slogLogger)
	logger := utils.NewSlogLogger(slogLogger)

	// Change feed: Kafka when brokers are configured, in-process otherwise
	feed, err := events.NewFeed(events.Config{
		Brokers:       cfg.Kafka.Brokers,
		ConsumerGroup: cfg.Kafka.ConsumerGroup,
		Topic:         cfg.Kafka.Topic,
	}, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize change feed: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Failed to initialize Redis, continuing without cache", "error", err)
			redisClient = nil
		}
	}
	cacheManager := cache.NewCacheManager(redisClient)

	// Initialize document store
	var db *gorm.DB
	var docStore store.DocumentStore
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		docStore, err = store.NewMemoryStore(feed, slogLogger)
	default:
		db, err = pkg.InitDatabase(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		docStore, err = postgres.New(db, feed, slogLogger)
	}
	if err != nil {
		log.Fatalf("Failed to initialize document store: %v", err)
	}
	if redisClient != nil {
		docStore = store.NewCachedStore(docStore, cacheManager, 0, slogLogger)
	}

	// Identity directory is optional; without it the user directory is empty
	var identity repositories.IdentityDirectory
	if cfg.Casdoor.Endpoint != "" {
		identity = casdoor.NewUserCasdoor(cfg.Casdoor, cacheManager, slogLogger)
	}

	// Initialize repositories
	repoManager := docstore.NewRepositoryManager(docstore.RepositoryConfig{
		Store:    docStore,
		Identity: identity,
		Logger:   slogLogger,
	})
	if err := repoManager.Initialize(); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	// Initialize validator
	validator := validator.New()

	// AI completion is optional; roadmaps fall back to fixed steps without it
	var completer ai.Completer
	if cfg.AI.Endpoint != "" {
		completer = ai.NewClient(cfg.AI)
	} else {
		logger.Warn("AI endpoint not configured, learning assist is disabled")
	}

	// Initialize services
	serviceManager := services.NewServiceManager(
		repoManager,
		cacheManager,
		completer,
		slogLogger,
		validator,
		services.ConfigFromApp(cfg),
	)
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Sessions
	authenticator := auth.NewAuthenticator(
		auth.NewCasdoorProvider(cfg.Casdoor),
		repoManager.GetRepository().User(),
		cacheManager,
		nil,
		slogLogger,
	)
	authEvents, unsubscribe := authenticator.Observer().Subscribe(64)
	go func() {
		for event := range authEvents {
			logger.Info("Auth state changed", "user_id", event.UserID, "kind", event.Kind, "at", event.At)
		}
	}()

	uploader := media.NewUploader(cfg.Media, slogLogger)

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, authenticator, uploader, validator, logger)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handlers.SetupMiddleware(router, logger, cfg.CORSOrigins...)
	handlerManager.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment, "store", cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown services; this also closes the document store
	if err := serviceManager.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown services", "error", err)
	}
	unsubscribe()

	if err := feed.Close(); err != nil {
		logger.Error("Failed to close change feed", "error", err)
	}

	// Close database connection
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}
