package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appmarketplace "github.com/shopbridge/backend/internal/application/marketplace"
	"github.com/shopbridge/backend/internal/domain/marketplace"
	"github.com/shopbridge/backend/internal/infrastructure/auth"
	"github.com/shopbridge/backend/internal/infrastructure/cache"
	"github.com/shopbridge/backend/internal/infrastructure/config"
	"github.com/shopbridge/backend/internal/infrastructure/crypto"
	"github.com/shopbridge/backend/internal/infrastructure/logger"
	"github.com/shopbridge/backend/internal/infrastructure/persistence"
	"github.com/shopbridge/backend/internal/infrastructure/shopee"
	"github.com/shopbridge/backend/internal/interfaces/http/handler"
	"github.com/shopbridge/backend/internal/interfaces/http/middleware"
	"github.com/shopbridge/backend/internal/interfaces/http/router"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("starting shopbridge backend",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	// Database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level)))
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Sync lock: Redis when configured, in-process otherwise
	var syncLock marketplace.SyncLock
	if cfg.Redis.Host != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		syncLock = cache.NewRedisSyncLock(redisClient)
		log.Info("using redis sync lock", zap.String("addr", cfg.Redis.Addr()))
	} else {
		syncLock = cache.NewLocalSyncLock()
		log.Info("redis not configured, using in-process sync lock")
	}

	// Credential cipher
	cipher, err := crypto.NewSecretCipher(cfg.Shopee.EncryptionPassphrase)
	if err != nil {
		log.Fatal("failed to initialize credential cipher", zap.Error(err))
	}

	// Platform gateway
	shopeeConfig := &shopee.Config{
		PartnerID:      cfg.Shopee.PartnerID,
		PartnerKey:     cfg.Shopee.PartnerKey,
		Region:         cfg.Shopee.Region,
		IsSandbox:      cfg.Shopee.Sandbox,
		TimeoutSeconds: cfg.Shopee.TimeoutSeconds,
	}
	gateway, err := shopee.NewClient(shopeeConfig, log)
	if err != nil {
		log.Fatal("failed to initialize platform client", zap.Error(err))
	}

	// Repositories
	connRepo := persistence.NewConnectionRepository(db.DB)
	orderRepo := persistence.NewRemoteOrderRepository(db.DB)
	productRepo := persistence.NewRemoteProductRepository(db.DB)

	// Application services
	tokens := appmarketplace.NewTokenService(connRepo, gateway, cipher, log)
	connections := appmarketplace.NewConnectionService(connRepo, gateway, cipher, cfg.Shopee.PartnerID, log)
	orderSync := appmarketplace.NewOrderSyncService(connRepo, orderRepo, tokens, gateway, syncLock, log)
	productSync := appmarketplace.NewProductSyncService(connRepo, productRepo, tokens, gateway, syncLock, log)
	shipping := appmarketplace.NewShippingService(orderRepo, tokens, gateway, log)

	// HTTP surface
	jwtService := auth.NewJWTService(cfg.JWT)
	engine := router.Setup(router.Config{
		Marketplace: handler.NewMarketplaceHandler(connections, orderSync, productSync, shipping, orderRepo, productRepo, log),
		System:      handler.NewSystemHandler(db),
		JWTService:  jwtService,
		CORS:        middleware.DefaultCORSConfig(),
		Logger:      log,
	})

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
