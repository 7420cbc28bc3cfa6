// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/product-feedback/internal/auth"
	"github.com/yourusername/product-feedback/internal/config"
	"github.com/yourusername/product-feedback/internal/logging"
	"github.com/yourusername/product-feedback/internal/storage"
)

const (
	startupTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:    cfg.LogLevel,
		Mode:     cfg.LogMode,
		Filename: cfg.LogFile,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ドキュメントストアへの接続（失敗したら起動しない）
	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	store, err := storage.Connect(startCtx, cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		cancel()
		logger.Fatal("Failed to connect to document store", zap.Error(err))
	}
	if err := store.EnsureIndexes(startCtx); err != nil {
		cancel()
		logger.Fatal("Failed to create indexes", zap.Error(err))
	}
	cancel()
	logger.Info("Connected to document store")

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret)
	if err != nil {
		logger.Fatal("Failed to configure token issuer", zap.Error(err))
	}
	authManager := auth.NewManager(store, auth.NewHasher(), tokens, logger)

	deps := routeDeps{
		cfg:    cfg,
		store:  store,
		auth:   authManager,
		logger: logger,
	}
	if cfg.QueueEnabled() {
		manager, err := setupJobs(cfg, store, logger)
		if err != nil {
			logger.Fatal("Failed to initialize job manager", zap.Error(err))
		}
		manager.StartWorkers()
		deps.scheduler = manager
		defer func() {
			if err := manager.Shutdown(context.Background()); err != nil {
				logger.Warn("Failed to shut down job manager", zap.Error(err))
			}
		}()
	}

	router := newRouter(deps)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting API server", zap.String("addr", server.Addr), zap.String("mode", cfg.GinMode))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped with error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down API server")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Failed to shut down server gracefully", zap.Error(err))
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Warn("Failed to disconnect from document store", zap.Error(err))
	}
}
