package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/amirhzq/unit-media-api/api/swagger"
	"github.com/amirhzq/unit-media-api/internal/handler"
	"github.com/amirhzq/unit-media-api/internal/middleware"
	"github.com/amirhzq/unit-media-api/internal/models"
	"github.com/amirhzq/unit-media-api/internal/service"
	"github.com/amirhzq/unit-media-api/internal/store"
	"github.com/amirhzq/unit-media-api/pkg/cache"
	"github.com/amirhzq/unit-media-api/pkg/config"
	"github.com/amirhzq/unit-media-api/pkg/database"
	"github.com/amirhzq/unit-media-api/pkg/jobs"
	"github.com/amirhzq/unit-media-api/pkg/logger"
	corsmiddleware "github.com/amirhzq/unit-media-api/pkg/middleware/cors"
	reqidmiddleware "github.com/amirhzq/unit-media-api/pkg/middleware/requestid"
	"github.com/amirhzq/unit-media-api/pkg/storage"
)

// @title Unit Media API
// @version 0.1.0
// @description Approval workflow service for media unit submissions and leave requests
// @BasePath /
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

	st, err := newStore(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to init store", "driver", cfg.Store.Driver, "error", err)
	}

	files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	cleanupQueue := jobs.NewQueue("export-cleanup", func(context.Context, jobs.Job) error {
		removed, err := files.Sweep(cfg.Exports.SignedURLTTL)
		if err != nil {
			return err
		}
		if len(removed) > 0 {
			logr.Sugar().Infow("expired exports removed", "count", len(removed))
		}
		return nil
	}, jobs.QueueConfig{Logger: logr})
	cleanupQueue.Start(context.Background())
	defer cleanupQueue.Stop()

	metricsSvc := service.NewMetricsService()
	identitySvc := service.NewIdentityService(st, logr, cfg.JWT)
	workflowSvc := service.NewWorkflowService(st, validator.New(), logr, metricsSvc)
	exportSvc := service.NewExportService(workflowSvc, files, signer, cleanupQueue, logr)

	var authHandler *handler.AuthHandler
	if cfg.Seed.Enabled {
		authHandler = handler.NewAuthHandler(identitySvc, service.NewSeedService(st, logr), metricsSvc)
	} else {
		authHandler = handler.NewAuthHandler(identitySvc, nil, metricsSvc)
	}
	submissionHandler := handler.NewSubmissionHandler(workflowSvc)
	leaveHandler := handler.NewLeaveHandler(workflowSvc)
	dashboardHandler := handler.NewDashboardHandler(workflowSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/session", authHandler.Session)

	protected := api.Group("")
	protected.Use(middleware.JWT(identitySvc))

	submissions := protected.Group("/submissions")
	submissions.GET("", submissionHandler.List)
	submissions.POST("", submissionHandler.Create)
	submissions.GET("/pending", submissionHandler.Pending)
	submissions.POST("/:id/support", submissionHandler.Support)
	submissions.POST("/:id/approve", middleware.RequireCapability(models.CapApproveSubmission), submissionHandler.Approve)

	leaves := protected.Group("/leaves")
	leaves.GET("", leaveHandler.List)
	leaves.POST("", leaveHandler.Create)
	leaves.GET("/pending", leaveHandler.Pending)
	leaves.POST("/:id/support", leaveHandler.Support)
	leaves.POST("/:id/approve", middleware.RequireCapability(models.CapApproveLeave), leaveHandler.Approve)

	dashboard := protected.Group("/dashboard")
	dashboard.GET("/stats", dashboardHandler.Stats)
	dashboard.GET("/activity", dashboardHandler.Activity)

	protected.GET("/calendar/leaves", dashboardHandler.CalendarLeaves)

	protected.POST("/exports/submissions", exportHandler.Render)
	// Downloads authorize through the signed token alone so a link can be
	// handed to a client without its bearer token.
	api.GET("/exports/download", exportHandler.Download)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store_driver", cfg.Store.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func newStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		return store.NewMemoryStore(), nil
	case config.StoreDriverFile:
		return store.NewFileStore(cfg.Store.Dir)
	case config.StoreDriverRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(client, "unitmedia"), nil
	case config.StoreDriverPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		pg := store.NewPostgresStore(db)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
