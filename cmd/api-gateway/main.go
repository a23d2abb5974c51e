package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/dropout-api/internal/client"
	"github.com/noah-isme/dropout-api/internal/handler"
	"github.com/noah-isme/dropout-api/internal/middleware"
	"github.com/noah-isme/dropout-api/internal/repository"
	"github.com/noah-isme/dropout-api/internal/service"
	"github.com/noah-isme/dropout-api/pkg/cache"
	"github.com/noah-isme/dropout-api/pkg/config"
	"github.com/noah-isme/dropout-api/pkg/database"
	"github.com/noah-isme/dropout-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/dropout-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/dropout-api/pkg/middleware/requestid"
	"github.com/noah-isme/dropout-api/pkg/pdf"
	"github.com/noah-isme/dropout-api/pkg/storage"
)

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()

	// Redis backs the report cache; without it every request hits upstream.
	var cacheRepo *repository.CacheRepository
	cacheEnabled := false
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unavailable, report caching disabled", zap.Error(err))
	} else {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		cacheEnabled = true
		defer cacheRepo.Close() //nolint:errcheck
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr, cacheEnabled)

	// Postgres backs export history; without it exports still work, unaudited.
	var historyRepo *repository.ExportHistoryRepository
	if db, err := database.NewPostgres(cfg.Database); err != nil {
		logr.Warn("postgres unavailable, export history disabled", zap.Error(err))
	} else {
		historyRepo = repository.NewExportHistoryRepository(db)
		defer db.Close() //nolint:errcheck
	}

	store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}

	reportsClient := client.NewReportsClient(cfg.Upstream, logr)
	summarySvc := service.NewSummaryService()
	reportSvc := service.NewReportService(reportsClient, cacheSvc, summarySvc, cfg.Reports.CacheTTL, logr)
	generator := pdf.NewGenerator(pdf.Config{
		PrincipalName:       cfg.Documents.PrincipalName,
		ConfidentialityNote: cfg.Documents.ConfidentialityTag,
	})

	var history service.ExportHistoryStore
	if historyRepo != nil {
		history = historyRepo
	}
	exportSvc := service.NewExportService(reportSvc, generator, store, history, metricsSvc, logr)
	authSvc := service.NewAuthService(cfg.JWT.Secret)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	exportSvc.StartCleanup(ctx, cfg.Reports.CleanupInterval, cfg.Reports.ResultTTL)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	reportHandler := handler.NewReportHandler(reportSvc, exportSvc)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))
	{
		api.GET("/reports/:schoolId", reportHandler.GetReport)
		api.GET("/reports/:schoolId/export", reportHandler.ExportReport)
		api.GET("/reports/:schoolId/exports", reportHandler.ListExports)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
