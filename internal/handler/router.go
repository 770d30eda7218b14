package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/ostazy-app/ostazy-api/api/swagger"
	"github.com/ostazy-app/ostazy-api/internal/middleware"
	"github.com/ostazy-app/ostazy-api/internal/service"
	"github.com/ostazy-app/ostazy-api/pkg/config"
	"github.com/ostazy-app/ostazy-api/pkg/logger"
	"github.com/ostazy-app/ostazy-api/pkg/middleware/cors"
	"github.com/ostazy-app/ostazy-api/pkg/middleware/requestid"
)

// Router bundles the handlers and cross-cutting middleware into a gin
// engine.
type Router struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *service.MetricsService
	auth    middleware.TokenValidator

	discovery *DiscoveryHandler
	tutors    *TutorHandler
	exports   *ExportHandler
	health    *HealthHandler
}

// NewRouter constructs a Router.
func NewRouter(
	cfg *config.Config,
	log *zap.Logger,
	metrics *service.MetricsService,
	auth middleware.TokenValidator,
	discovery *DiscoveryHandler,
	tutors *TutorHandler,
	exports *ExportHandler,
	health *HealthHandler,
) *Router {
	return &Router{
		cfg:       cfg,
		log:       log,
		metrics:   metrics,
		auth:      auth,
		discovery: discovery,
		tutors:    tutors,
		exports:   exports,
		health:    health,
	}
}

// Engine assembles the gin engine with all routes registered.
func (r *Router) Engine() *gin.Engine {
	if r.cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestid.Middleware())
	engine.Use(logger.GinMiddleware(r.log))
	engine.Use(cors.New(r.cfg.CORS.AllowedOrigins))
	engine.Use(middleware.Metrics(r.metrics))

	engine.GET("/health", r.health.Health)
	engine.GET("/ready", r.health.Ready)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.metrics.Registry(), promhttp.HandlerOpts{})))

	if r.cfg.Env != config.EnvProduction {
		engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := engine.Group(r.cfg.APIPrefix)
	{
		tutors := api.Group("/tutors")
		{
			tutors.GET("", r.discovery.List)
			tutors.GET("/recommended", middleware.JWT(r.auth), r.discovery.Recommended)
			tutors.GET("/export", middleware.JWT(r.auth), r.exports.Export)
			tutors.POST("/export", middleware.JWT(r.auth), r.exports.EnqueueExport)
			tutors.GET("/:id", r.tutors.Get)
		}

		exports := api.Group("/exports")
		{
			exports.GET("/download", r.exports.Download)
			exports.GET("/:id", middleware.JWT(r.auth), r.exports.ExportStatus)
		}
	}

	return engine
}
