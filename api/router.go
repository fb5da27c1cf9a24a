package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/simprint/api/handler"
	"github.com/use-agent/simprint/api/middleware"
	"github.com/use-agent/simprint/cache"
	"github.com/use-agent/simprint/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Fingerprint a single document.
	protected.POST("/fingerprint", handler.Fingerprint(cfg, cc))

	// Compare two documents.
	protected.POST("/compare", handler.Compare(cfg))

	// Group near-duplicate texts.
	protected.POST("/dedupe", handler.Dedupe(cfg))

	return r
}
