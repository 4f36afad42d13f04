package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"invtrack/docs"
	"invtrack/internal/cache"
	"invtrack/internal/config"
	"invtrack/internal/db"
	"invtrack/internal/logger"
	"invtrack/internal/router"
)

const shutdownTimeout = 15 * time.Second

// @title Inventory Tracking API
// @version 1.0
// @description Inventory tracking API with JWT authentication, role-gated routes and an atomic stock ledger.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger is configured from cfg, so this one goes to a default logger.
		zap.NewExample().Fatal("load config", zap.Error(err))
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	if cfg.JWT.Secret == "change-me" {
		log.Warn("JWT_SECRET is the built-in default; set a real secret outside development")
	}

	gormDB, err := db.Open(cfg.Database, log.Named("gorm"), cfg.Log.Level)
	if err != nil {
		log.Fatal("database init", zap.Error(err))
	}
	if err := db.Migrate(gormDB, cfg.ResetDB, log); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	var cacheClient *cache.Client
	if cfg.Redis.Addr != "" {
		cacheClient = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() { _ = cacheClient.Close() }()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	e := router.New(router.Deps{
		Config:   cfg,
		DB:       gormDB,
		Cache:    cacheClient,
		Registry: registry,
		Logger:   log,
	})

	if cfg.SwaggerHost != "" {
		// SwaggerHost may include a scheme; swag wants host[:port] only.
		host := strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
		docs.SwaggerInfo.Host = host
	}
	log.Info("swagger documentation available", zap.String("path", "/swagger/index.html"))

	addr := ":" + cfg.Server.Port
	go func() {
		log.Info("server starting", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server exited")
}
