// Package httpapi exposes the sync layer to the PWA presentation
// layer over HTTP.
package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/annemirova/innerflow/internal/service"
)

// NewRouter builds the gin engine with logging, recovery and CORS for
// the browser front-end.
func NewRouter(svc *service.Journal, log *zap.Logger, corsOrigins []string) *gin.Engine {
	h := &Handler{svc: svc, log: log}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	corsCfg := cors.DefaultConfig()
	if len(corsOrigins) == 1 && corsOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = corsOrigins
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", h.Health)

	api := r.Group("/api/v1")
	{
		api.POST("/entries", h.SaveEntry)
		api.GET("/entries", h.ListEntries)
		api.GET("/entries/today", h.Today)
		api.GET("/entries/relative", h.Relative)
		api.POST("/entries/:id/insight", h.AttachInsight)
		api.GET("/stats", h.Stats)
		api.POST("/migrate", h.Migrate)
	}
	return r
}

// requestLogger logs method, path, status and duration; no payloads.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("dur", time.Since(start)),
		)
	}
}
