package main

import (
	"context"   // Startup and shutdown deadlines
	"errors"    // Error inspection
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Shutdown on interrupt
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"catalog_system/internal/api"        // HTTP handlers and router
	"catalog_system/internal/config"     // Application configuration
	"catalog_system/internal/db"         // Database, migrations, seed data
	"catalog_system/internal/middleware" // Metrics and rate limiting
	"catalog_system/internal/service"    // Business services
	"catalog_system/internal/session"    // Session store and manager
	"catalog_system/internal/storage"    // Logo file storage

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

func setupLogger(cfg *config.Config) {
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("level", cfg.LogLevel).Warn("Unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// sessionStore picks redis when REDIS_ADDR is set, memory otherwise
func sessionStore(ctx context.Context, cfg *config.Config) session.Store {
	if cfg.RedisAddr == "" {
		logrus.Warn("REDIS_ADDR not set, sessions are kept in memory")
		return session.NewMemoryStore()
	}
	// Setup Redis client
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	// Test Redis connection
	if err := rdb.Ping(ctx).Err(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}
	return session.NewRedisStore(rdb)
}

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}
	if err := db.Seed(ctx, gdb); err != nil {
		logrus.Fatalf("failed to seed DB: %v", err)
	}

	files, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		logrus.Fatalf("failed to prepare upload dir: %v", err)
	}

	if cfg.SessionSecret == "change-me-in-production" {
		logrus.Warn("SESSION_SECRET is the built-in default, set a real secret")
	}
	sessions := session.NewManager(sessionStore(ctx, cfg), cfg.SessionSecret, cfg.SessionTTL)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(api.Deps{
		Config:        cfg,
		DB:            gdb,
		Auth:          service.NewAuthService(gdb),
		Sessions:      sessions,
		Categories:    service.NewCategoryService(gdb),
		Logos:         service.NewLogoService(gdb, files),
		PrintSettings: service.NewPrintSettingsService(gdb),
		Products:      service.NewProductService(gdb),
		Metrics:       middleware.NewMetrics(),
		LoginLimiter:  middleware.NewRateLimiter(cfg.LoginRate, cfg.LoginBurst),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.WithField("port", cfg.AppPort).Info("Server running") // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Graceful shutdown failed")
	}
}
