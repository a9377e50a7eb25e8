package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cinezone/cinezone/internal/infrastructure/config"
	"github.com/cinezone/cinezone/internal/interfaces/http/middleware"
	"github.com/cinezone/cinezone/internal/interfaces/http/routes"
	"github.com/cinezone/cinezone/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	engine    *gin.Engine
	container *Container
	cfg       *config.Config
	log       logger.Interface
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(gdb *gorm.DB, cfg *config.Config, log logger.Interface) (*Router, error) {
	container, err := NewContainer(gdb, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Router{
		engine:    gin.New(),
		container: container,
		cfg:       cfg,
		log:       log,
	}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() error {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.CustomLogger(r.log.Named("http")))
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())
	r.engine.Use(middleware.ErrorHandler(r.log))

	r.engine.GET("/", status)
	r.engine.GET("/health", r.health)

	uploads := r.engine.Group(r.container.store.PublicPath(), crossOriginResource)
	uploads.Static("/", r.container.store.Dir())

	api := r.engine.Group(apiPrefix(r.cfg.Server.APIPrefix))
	if r.container.limiter != nil {
		api.Use(middleware.RateLimit(r.container.limiter, r.log.Named("ratelimit")))
	}
	api.GET("", status)

	if err := routes.Register(api, r.container.services, r.container.dispatchMiddleware(), r.log.Named("routes")); err != nil {
		return err
	}

	r.engine.NoRoute(middleware.NotFound())
	return nil
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Shutdown releases resources held by the router's dependencies.
func (r *Router) Shutdown() {
	r.container.Shutdown()
}

func status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "API CineZone", "status": "active"})
}

func (r *Router) health(c *gin.Context) {
	sqlDB, err := r.container.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		r.log.Warnw("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// crossOriginResource lets other origins embed uploaded posters.
func crossOriginResource(c *gin.Context) {
	c.Header("Cross-Origin-Resource-Policy", "cross-origin")
	c.Header("Access-Control-Allow-Origin", "*")
	c.Next()
}

func apiPrefix(prefix string) string {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		return "/api"
	}
	return prefix
}
