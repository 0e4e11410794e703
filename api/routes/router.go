// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	_ "mergington/docs"
	"mergington/internal/activities"
	"mergington/internal/shared/config"
	"mergington/internal/shared/database"
	"mergington/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const serviceName = "mergington-activities"

// Router holds all route dependencies
type Router struct {
	config          *config.Config
	db              *database.DB
	activityService activities.Service
	logger          *logger.Logger
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, activityService activities.Service, log *logger.Logger) *Router {
	if log == nil {
		log = logger.GetDefault()
	}
	return &Router{
		config:          cfg,
		db:              db,
		activityService: activityService,
		logger:          log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// Landing page
	r.setupStaticRoutes(engine)

	// Docs and metrics
	r.setupOpsRoutes(engine)

	// Activity catalog and rosters
	r.setupActivityRoutes(engine)
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   serviceName,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   serviceName,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":           "operational",
			"api_version":      r.config.APIVersion,
			"redis":            r.db.GetRedis() != nil,
			"rate_limiting":    r.config.RateLimitActive(),
			"kafka_events":     r.config.Kafka.Enabled,
			"enforce_capacity": r.config.Activities.EnforceCapacity,
			"timestamp":        time.Now(),
		})
	})
}

// setupStaticRoutes serves the frontend and sends the root to it
func (r *Router) setupStaticRoutes(engine *gin.Engine) {
	engine.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, "/static/index.html")
	})

	engine.Static("/static", r.config.StaticDir)
}

func (r *Router) setupOpsRoutes(engine *gin.Engine) {
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if r.config.MetricsEnabled {
		engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
}

// setupActivityRoutes configures activity routes
func (r *Router) setupActivityRoutes(engine *gin.Engine) {
	activityController := activities.NewController(r.activityService, r.logger)
	activities.SetupActivityRoutes(engine, activityController)
}
