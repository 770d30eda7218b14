package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ostazy-app/ostazy-api/internal/handler"
	"github.com/ostazy-app/ostazy-api/internal/repository"
	"github.com/ostazy-app/ostazy-api/internal/service"
	"github.com/ostazy-app/ostazy-api/pkg/cache"
	"github.com/ostazy-app/ostazy-api/pkg/config"
	"github.com/ostazy-app/ostazy-api/pkg/database"
	"github.com/ostazy-app/ostazy-api/pkg/logger"
	"github.com/ostazy-app/ostazy-api/pkg/storage"
)

// @title Ostazy Discovery API
// @version 1.0.0
// @description Tutor discovery and ranking service for the Ostazy tutoring platform.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Discovery works without the cache; start degraded instead of
		// failing the whole service.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	exportStore, err := storage.NewLocalStorage(cfg.Exports.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}

	tutorRepo := repository.NewTutorRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, cfg.Discovery)
	authSvc := service.NewAuthService(cfg.JWT)
	discoverySvc := service.NewDiscoveryService(tutorRepo, studentRepo, cacheSvc, metrics, logr, cfg)
	tutorSvc := service.NewTutorService(tutorRepo)
	exportSvc := service.NewExportService(discoverySvc, exportStore, metrics, logr, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Cached listing pages ranked under a previous deploy's scoring
	// weights must not outlive the restart.
	if err := cacheSvc.InvalidateListings(ctx); err != nil {
		logr.Sugar().Warnw("listing cache invalidation failed", "error", err)
	}

	exportSvc.Start(ctx)
	defer exportSvc.Stop()

	router := handler.NewRouter(
		cfg,
		logr,
		metrics,
		authSvc,
		handler.NewDiscoveryHandler(discoverySvc),
		handler.NewTutorHandler(tutorSvc),
		handler.NewExportHandler(exportSvc),
		handler.NewHealthHandler(db, redisClient),
	)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
