package main

import (
	"context"   // context package is needed for Redis and shutdown
	"errors"    // Server shutdown error comparison
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Graceful shutdown
	"syscall"   // SIGTERM
	"time"      // Shutdown timeout

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging

	"trusty_wallet/internal/api"                 // HTTP handlers
	"trusty_wallet/internal/config"              // Configuration
	"trusty_wallet/internal/db"                  // Database connection
	"trusty_wallet/internal/metrics"             // Prometheus collectors
	"trusty_wallet/internal/notification"        // Notification service client
	"trusty_wallet/internal/repository"          // gorm store
	"trusty_wallet/internal/repository/memstore" // In-memory store
	"trusty_wallet/internal/scheduler"           // Monthly credit sweep
	"trusty_wallet/internal/service"             // Business services
	"trusty_wallet/internal/utils"               // Cache
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Setup the store
	var store repository.Store
	if cfg.DBDriver == db.DriverMemory {
		logrus.Warn("Using in-memory store, data is lost on restart")
		store = memstore.New()
	} else {
		gdb, err := db.Open(cfg)
		if err != nil {
			logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
		}
		store = repository.NewGormStore(gdb)
	}

	// Setup Redis cache, disabled when REDIS_ADDR is empty
	var cache utils.Cache = utils.NopCache{}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		cache = utils.NewRedisCache(redisClient)
	}

	notifications := notification.NewClient(cfg.NotificationURL)
	if !notifications.Enabled() {
		logrus.Warn("NOTIFICATION_URL is empty, notification preferences are disabled")
	}

	metrics.Init()
	svc := service.New(store, service.Options{
		Cache:    cache,
		CacheTTL: cfg.UsersCacheTTL,
		Notifier: notifications,
	})

	// Schedule the monthly credit sweep
	sweeps, err := scheduler.Start(ctx, scheduler.NewCreditChecker(svc.Credits, 10*time.Minute), cfg.CreditSweepCron)
	if err != nil {
		logrus.Fatalf("failed to schedule credit sweep: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r := api.NewRouter(api.RouterDeps{Services: svc, Notifications: notifications, JWTSecret: cfg.JWTSecret})
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	srv := &http.Server{Addr: ":" + cfg.AppPort, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logrus.Info("Server running on " + cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("server shutdown: %v", err)
	}
	<-sweeps.Stop().Done() // Wait for an in-flight sweep
}
