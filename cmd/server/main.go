package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/damon-houk/exchange-rates-calculator/internal/application/service"
	"github.com/damon-houk/exchange-rates-calculator/internal/config"
	"github.com/damon-houk/exchange-rates-calculator/internal/domain/repository"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/api"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/cache"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/db"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/handler"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/logger"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/metrics"
	"github.com/damon-houk/exchange-rates-calculator/internal/infrastructure/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The configured logger is not available yet
		logger.NewJSONLogger(os.Stderr, logger.InfoLevel).Fatal("Failed to load config", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Setup logging
	appLogger := newLogger(cfg.Log)
	defer appLogger.Sync()
	logger.SetDefaultLogger(appLogger)

	appLogger.Info("Starting exchange rates calculator", map[string]interface{}{
		"addr":          cfg.Server.Addr,
		"cache_backend": cfg.Cache.Backend,
	})

	appMetrics := metrics.NewMetrics()

	// Setup cache store
	store, closeStore, err := openStore(cfg.Cache)
	if err != nil {
		appLogger.Fatal("Failed to open cache store", map[string]interface{}{
			"backend": cfg.Cache.Backend,
			"error":   err.Error(),
		})
	}
	defer func() {
		if err := closeStore(); err != nil {
			appLogger.Error("Error closing cache store", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// Initialize API clients
	alphaVantage := api.NewAlphaVantageClient(
		cfg.AlphaVantage.BaseURL,
		cfg.AlphaVantage.APIKey,
		&http.Client{Timeout: cfg.AlphaVantage.Timeout},
		appLogger,
	)

	// Initialize services
	opts := []service.Option{
		service.WithLogger(appLogger),
		service.WithMetrics(appMetrics),
	}
	rateService := service.NewRateCacheService(store, alphaVantage, opts...)
	historyService := service.NewHistoryCacheService(store, alphaVantage, opts...)
	conversionService := service.NewConversionService(rateService, appLogger)

	// Initialize handlers
	rateHandler := handler.NewRateHandler(rateService, historyService, appLogger)
	conversionHandler := handler.NewConversionHandler(conversionService, appLogger)

	// Setup router
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.RecoverMiddleware(appLogger))
	router.Use(middleware.LoggingMiddleware(appLogger))
	router.Use(middleware.MetricsMiddleware(appMetrics))

	rateHandler.RegisterRoutes(router)
	conversionHandler.RegisterRoutes(router)
	router.Handle("/metrics", appMetrics.Handler()).Methods("GET")

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server
	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Server listening", map[string]interface{}{
			"addr": cfg.Server.Addr,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			appLogger.Error("Server failed", map[string]interface{}{
				"error": err.Error(),
			})
			return
		}
	case sig := <-stop:
		appLogger.Info("Shutting down server", map[string]interface{}{
			"signal": sig.String(),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Graceful shutdown failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func newLogger(cfg config.Log) *logger.ZapLogger {
	level, err := logger.ParseLevel(cfg.Level)
	if err != nil {
		level = logger.InfoLevel
	}

	if cfg.File == "" {
		return logger.NewJSONLogger(os.Stdout, level)
	}

	return logger.NewRotatingLogger(level, logger.RotationOptions{
		Filename:   cfg.File,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
	})
}

// openStore builds the configured CacheStore and the function that releases it
func openStore(cfg config.Cache) (repository.CacheStore, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return cache.NewMemoryStore(), func() error { return nil }, nil

	case config.BackendBadger:
		if err := os.MkdirAll(cfg.BadgerDir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		badgerDB, err := db.OpenBadger(cfg.BadgerDir)
		if err != nil {
			return nil, nil, err
		}
		return db.NewBadgerCacheStore(badgerDB), badgerDB.Close, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return db.NewRedisCacheStore(client), client.Close, nil

	case config.BackendSQLite:
		store, err := db.NewSQLiteCacheStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
