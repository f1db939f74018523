package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"messenger_go/internal/config"
	"messenger_go/internal/domain"
	"messenger_go/internal/httpserver"
	"messenger_go/internal/logging"
	"messenger_go/internal/provider"
	"messenger_go/internal/security"
	"messenger_go/internal/service"
	"messenger_go/internal/store/mongo"
	"messenger_go/internal/store/postgres"
	"messenger_go/internal/store/sqlite"
	"messenger_go/internal/ws"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Document store for chats, messages, and permissions
	mongoClient, mdb, err := mongo.Connect(ctx, cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		logger.Fatal("connect mongodb", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())

	if err := mongo.EnsureIndexes(ctx, mdb); err != nil {
		logger.Fatal("ensure mongodb indexes", zap.Error(err))
	}

	// Relational store for users
	var userDB *sql.DB
	var userRepo domain.UserRepository
	switch cfg.UserDBDriver {
	case "sqlite":
		userDB, err = sqlite.Open(cfg.SQLitePath)
		if err != nil {
			logger.Fatal("open sqlite", zap.Error(err))
		}
		if err := sqlite.Migrate(userDB); err != nil {
			logger.Fatal("migrate sqlite", zap.Error(err))
		}
		userRepo = sqlite.NewUserRepo(userDB)
	default:
		userDB, err = postgres.Open(cfg.PostgresURL)
		if err != nil {
			logger.Fatal("open postgres", zap.Error(err))
		}
		if err := postgres.Migrate(userDB); err != nil {
			logger.Fatal("migrate postgres", zap.Error(err))
		}
		userRepo = postgres.NewUserRepo(userDB)
	}
	defer userDB.Close()

	// Security components
	tokenSvc := security.NewTokenService(cfg.JWTSecret, time.Duration(cfg.AccessTokenMinutes)*time.Minute)
	passwordHasher := security.NewPasswordHasher(0)

	// Live-delivery hub, optionally bridged across instances via redis
	hub := ws.NewHub(logger)

	var broadcast service.Broadcaster = hub
	var redisClient *redis.Client
	bridgeCtx, stopBridge := context.WithCancel(ctx)
	defer stopBridge()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("parse redis url", zap.Error(err))
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()

		bridge := ws.NewRedisBridge(hub, redisClient, logger)
		go bridge.Run(bridgeCtx)
		broadcast = bridge
	}

	// External providers for the in-chat bot
	asker := provider.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
	photos := provider.NewUnsplashClient(cfg.UnsplashAccessKey, logger)

	// Build HTTP router
	router := httpserver.NewRouter(cfg, userRepo, mdb, hub, broadcast, tokenSvc, passwordHasher, asker, photos, logger)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("starting server",
			zap.String("addr", cfg.HTTPAddr()),
			zap.String("env", cfg.Env),
			zap.String("user_db", cfg.UserDBDriver),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
	hub.Shutdown()
}
