package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/artsfest/admin-panel/internal/backend"
	"github.com/artsfest/admin-panel/internal/handler"
	internalmiddleware "github.com/artsfest/admin-panel/internal/middleware"
	"github.com/artsfest/admin-panel/internal/repository"
	"github.com/artsfest/admin-panel/internal/service"
	"github.com/artsfest/admin-panel/internal/web"
	"github.com/artsfest/admin-panel/pkg/cache"
	"github.com/artsfest/admin-panel/pkg/config"
	"github.com/artsfest/admin-panel/pkg/database"
	"github.com/artsfest/admin-panel/pkg/export"
	"github.com/artsfest/admin-panel/pkg/logger"
	corsmiddleware "github.com/artsfest/admin-panel/pkg/middleware/cors"
	reqidmiddleware "github.com/artsfest/admin-panel/pkg/middleware/requestid"
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

	renderer, err := web.NewRenderer()
	if err != nil {
		logr.Sugar().Fatalw("failed to parse templates", "error", err)
	}

	client := backend.New(cfg.Backend, logr)

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
		client.SetObserver(metricsSvc.ObserveBackendCall)
	}

	var sessionRepo repository.Store
	if cfg.Session.UseRedis {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close() //nolint:errcheck
		sessionRepo = repository.NewRedisSessionRepository(redisClient, logr)
	} else {
		sessionRepo = repository.NewMemorySessionRepository()
		logr.Info("using in-memory session store; sessions will not survive a restart")
	}

	var auditSvc *service.AuditService
	if cfg.Audit.Enabled {
		db, err := database.NewPostgres(cfg.Audit)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to audit database", "error", err)
		}
		defer db.Close() //nolint:errcheck
		auditSvc = service.NewAuditService(repository.NewAuditRepository(db), logr)
	} else {
		auditSvc = service.NewAuditService(nil, logr)
	}

	validate := validator.New()

	sessionSvc := service.NewSessionService(client, sessionRepo, validate, logr, cfg.Session.TTL)
	rosterSvc := service.NewRosterService(client, validate, logr)
	programmeSvc := service.NewProgrammeService(client, validate, logr)
	entrySvc := service.NewEntryService(client, sessionRepo, cfg.Session.TTL, logr)
	reviewSvc := service.NewReviewService(client, logr)

	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(sessionSvc, auditSvc, renderer, cfg.Session),
		Dashboard:  handler.NewDashboardHandler(renderer, cfg.Exports.Enabled),
		Roster:     handler.NewRosterHandler(rosterSvc, auditSvc, renderer),
		Programmes: handler.NewProgrammeHandler(programmeSvc, auditSvc, renderer, cfg.Exports.Enabled),
		Entries:    handler.NewEntryHandler(entrySvc, auditSvc, renderer),
		Reviews:    handler.NewReviewHandler(reviewSvc, auditSvc, renderer),
	}
	if cfg.Exports.Enabled {
		exportSvc := service.NewExportService(client, logr)
		handlers.Exports = handler.NewExportHandler(exportSvc, export.NewCSVExporter(), export.NewPDFExporter())
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metricsSvc != nil {
		r.Use(internalmiddleware.Metrics(metricsSvc))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if metricsSvc != nil {
		r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	}

	handler.RegisterRoutes(r, handlers, sessionSvc, cfg.Session.CookieName)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("admin panel starting", "addr", addr, "env", cfg.Env, "backend", cfg.Backend.BaseURL)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
