package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/adr-api/api/swagger"
	"github.com/noah-isme/adr-api/internal/excel"
	"github.com/noah-isme/adr-api/internal/handler"
	"github.com/noah-isme/adr-api/internal/middleware"
	"github.com/noah-isme/adr-api/internal/models"
	"github.com/noah-isme/adr-api/internal/repository"
	"github.com/noah-isme/adr-api/internal/service"
	"github.com/noah-isme/adr-api/pkg/cache"
	"github.com/noah-isme/adr-api/pkg/config"
	"github.com/noah-isme/adr-api/pkg/crypto"
	"github.com/noah-isme/adr-api/pkg/database"
	"github.com/noah-isme/adr-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/adr-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/adr-api/pkg/middleware/requestid"
)

// @title Admin Daily Report API
// @version 1.0.0
// @description Operational daily reporting backend with dual persistence
// @BasePath /api/v1
// @schemes http

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

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logr.Sugar().Fatalw("invalid timezone", "timezone", cfg.Timezone, "error", err)
	}

	cipher, err := crypto.NewCipher(cfg.Encryption)
	if err != nil {
		logr.Sugar().Fatalw("failed to init field cipher", "error", err)
	}
	gate := crypto.NewFieldGate(cipher, logr)

	store, err := excel.NewStore(cfg.Excel, loc, gate, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to open workbook", "path", cfg.Excel.FilePath, "error", err)
	}

	// The mirror and the cache degrade gracefully: the workbook alone keeps
	// the API serving.
	var db *sqlx.DB
	if db, err = database.NewPostgres(cfg.Database); err != nil {
		logr.Sugar().Warnw("postgres unavailable, mirror disabled", "error", err)
		db = nil
	}

	var redisClient *redis.Client
	if redisClient, err = cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	reportRepo := repository.NewReportRepository(db, gate)
	userRepo := repository.NewUserRepository(db, gate)
	auditRepo := repository.NewAuditRepository(db, gate)
	configRepo := repository.NewConfigurationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, auditRepo, cfg.JWT, logr)
	reconcileSvc := service.NewReconcileService(store, reportRepo, userRepo, metricsSvc, cfg.Reconciler, loc, logr)
	reportSvc := service.NewReportService(store, reportRepo, userRepo, auditRepo, cacheRepo, reconcileSvc, metricsSvc, cfg.Catalog, cfg.Reports, loc, logr)
	consolidatedSvc := service.NewConsolidatedService(store, cacheRepo, metricsSvc, cfg.Consolidated.CacheTTL, loc, logr)
	analyticsSvc := service.NewAnalyticsService(store, cacheRepo, cfg.Consolidated.CacheTTL, loc, logr)
	configSvc := service.NewConfigurationService(store, configRepo, logr)
	catalogSvc := service.NewCatalogService(cfg.Catalog)
	exportSvc := service.NewExportService(store, loc, logr)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()
	if db != nil {
		reconcileSvc.Start(rootCtx)
	}

	reportHandler := handler.NewReportHandler(reportSvc)
	consolidatedHandler := handler.NewConsolidatedHandler(consolidatedSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	configHandler := handler.NewConfigurationHandler(configSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.Excel.FilePath)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)
		api.GET("/catalogos", catalogHandler.Catalog)

		// Submission stays open for the intranet form; claims are attached
		// when a token is present so audit rows carry the actor. Mutations
		// additionally get an HTTP-level audit row with status and latency.
		httpAudit := middleware.Audit(auditRepo, models.AuditActionHTTPMutation, "http")
		api.POST("/report", middleware.OptionalJWT(authSvc), httpAudit, reportHandler.Create)
		api.GET("/reports", middleware.OptionalJWT(authSvc), reportHandler.List)
		api.GET("/reports/:id", middleware.OptionalJWT(authSvc), reportHandler.Get)
		api.PUT("/reports/:id", middleware.OptionalJWT(authSvc), httpAudit, reportHandler.Update)
		api.DELETE("/reports/:id", middleware.OptionalJWT(authSvc), httpAudit, reportHandler.Delete)

		admin := api.Group("/admin")
		{
			admin.GET("/daily-general-operations", consolidatedHandler.DailyGeneral)
			admin.GET("/daily-detailed-operations", consolidatedHandler.DailyDetailed)
			admin.GET("/accumulated-general-operations", consolidatedHandler.AccumulatedGeneral)
			admin.GET("/accumulated-detailed-operations", consolidatedHandler.AccumulatedDetailed)
			admin.GET("/analytics", analyticsHandler.Dashboard)
			admin.GET("/reports/export", exportHandler.Download)

			secured := admin.Group("", middleware.JWT(authSvc))
			{
				secured.GET("/configuration", configHandler.List)
				secured.PUT("/configuration/:key",
					middleware.RequireRoles(models.RoleAdmin, models.RoleSupervisor),
					httpAudit,
					configHandler.Set)
			}
		}

		auth := api.Group("/auth", middleware.JWT(authSvc))
		{
			auth.GET("/me", authHandler.Me)
			auth.POST("/change-password", authHandler.ChangePassword)
			auth.POST("/register", middleware.RequireRoles(models.RoleAdmin), authHandler.Register)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "timezone", cfg.Timezone)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}

	rootCancel()
	if db != nil {
		reconcileSvc.Stop()
		_ = db.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	logr.Info("stopped", zap.String("addr", addr))
}
