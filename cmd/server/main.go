package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/puckcap/internal/api/handlers"
	"github.com/stitts-dev/puckcap/internal/cache"
	"github.com/stitts-dev/puckcap/internal/config"
	"github.com/stitts-dev/puckcap/internal/lineup"
	"github.com/stitts-dev/puckcap/internal/store"
	"github.com/stitts-dev/puckcap/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	structuredLogger := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	logger.WithComponent("server").WithFields(logrus.Fields{
		"environment": cfg.Env,
		"port":        cfg.Port,
		"season_year": cfg.SeasonYear,
	}).Info("Starting puckcap service")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := store.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logger.WithComponent("server").Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// The lineup cache is optional; a cold cache just means solving from
	// scratch, so redis failures only log a warning here.
	var lineupCache lineup.Cache
	var redisClient *redis.Client
	if opt, err := redis.ParseURL(cfg.RedisURL); err != nil {
		logger.WithComponent("server").Warnf("Invalid Redis URL, running without cache: %v", err)
	} else {
		redisClient = redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.WithComponent("server").Warnf("Redis unavailable, running without cache: %v", err)
			redisClient.Close()
			redisClient = nil
		} else {
			defer redisClient.Close()
			lineupCache = cache.NewLineupCacheService(redisClient, structuredLogger)
		}
	}

	provider := store.NewProvider(db)
	lineupService := lineup.NewService(provider, lineupCache, cfg, structuredLogger)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	optimizationHandler := handlers.NewOptimizationHandler(lineupService, structuredLogger)
	settingsHandler := handlers.NewSettingsHandler(provider, cfg, structuredLogger)
	healthHandler := handlers.NewHealthHandler(db, redisClient, structuredLogger)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/optimize/lineup", optimizationHandler.OptimizeLineup)

		apiV1.GET("/settings", settingsHandler.GetSettings)
		apiV1.GET("/settings/default", settingsHandler.GetDefaultSettings)
		apiV1.POST("/settings", settingsHandler.SaveSettings)
	}

	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.WithComponent("server").WithField("port", cfg.Port).Info("Service started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithComponent("server").Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.WithComponent("server").Info("Shutting down service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithComponent("server").Fatalf("Service forced to shutdown: %v", err)
	}

	logger.WithComponent("server").Info("Service exited")
}
