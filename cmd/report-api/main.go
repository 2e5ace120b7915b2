package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/barani-1502/Management-reports/internal/api"
	"github.com/barani-1502/Management-reports/internal/api/health"
	"github.com/barani-1502/Management-reports/internal/api/report"
	"github.com/barani-1502/Management-reports/internal/pkg/config"
	"github.com/barani-1502/Management-reports/internal/pkg/logger"
	"github.com/barani-1502/Management-reports/internal/pkg/redis"
	"github.com/barani-1502/Management-reports/internal/repository"
	"github.com/barani-1502/Management-reports/internal/service"
)

func main() {
	// Load configuration
	configPath := os.Getenv("REPORT_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting ride reporting API")

	// Initialize database
	if err := repository.InitDB(cfg.Database); err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer repository.Close()

	// Initialize Redis (optional)
	if err := redis.Init(cfg); err != nil {
		zap.L().Warn("Redis initialization failed, rate limiting falls back to in-memory",
			zap.Error(err))
	} else {
		defer redis.Close()
	}

	// Wire the report pipeline
	repo := repository.NewReportRepo(repository.GetDB(), cfg.Database.Database)
	reportHandler := report.NewHandler(service.NewReportService(repo))
	healthHandler := health.NewHandler(repo)

	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	// Create router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	rateLimit := api.RateLimitMiddleware(
		cfg.RateLimit.Requests,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
	)
	api.SetupRouter(r, reportHandler, healthHandler, rateLimit)

	srv := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("Server listening",
			zap.String("addr", cfg.GetServerAddr()),
			zap.String("schema", cfg.Database.Database))
		fmt.Printf("🚀 Server running on http://%s\n", cfg.GetServerAddr())

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("Forced shutdown", zap.Error(err))
	}
}
