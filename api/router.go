package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/corpreg/api/handler"
	"github.com/use-agent/corpreg/api/middleware"
	"github.com/use-agent/corpreg/config"
	"github.com/use-agent/corpreg/registry"
	"github.com/use-agent/corpreg/snapshot"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled)
//
// Health endpoint is outside auth so monitoring probes always work.
func NewRouter(rc *registry.Client, stats handler.StatsReporter, conv *snapshot.Converter, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health: no auth required.
	v1.GET("/health", handler.Health(stats, rc.State(), startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}

	protected.GET("/search", handler.Search(rc))
	protected.GET("/details", handler.Details(rc, conv))

	return r
}
