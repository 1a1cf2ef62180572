package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"clickpulse.backend/internal/interfaces/http/handlers"
	"clickpulse.backend/internal/interfaces/http/middleware"
	"clickpulse.backend/pkg/metrics"
)

const serviceName = "clickpulse-backend"

var serviceVersion = "dev"

type routeDeps struct {
	appHandler       *handlers.AppHandler
	eventHandler     *handlers.EventHandler
	analyticsHandler *handlers.AnalyticsHandler
	authMiddleware   gin.HandlerFunc
}

// allowedHeaders is the pre-flight allow-list of every header this API
// reads.
var allowedHeaders = []string{
	"Origin",
	"Content-Type",
	"Authorization",
	"X-Api-Key",
	"X-Request-ID",
	"Idempotency-Key",
}

// applyCORSMiddleware permits cross-origin requests from any origin.
// Ingest scripts run on arbitrary third-party sites, so an origin
// allow-list is not an option here.
func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", strings.Join(allowedHeaders, ", "))

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	// Ingest path: API-key authenticated inside the usecase, never via
	// bearer token.
	r.POST("/events", d.eventHandler.Ingest)

	r.GET("/metrics", metrics.Handler())

	// Dashboard surface: bearer-token callers only.
	apps := r.Group("/apps", d.authMiddleware)
	{
		apps.POST("", middleware.IdempotencyMiddleware(), d.appHandler.CreateApp)
		apps.GET("", d.appHandler.ListApps)
		apps.POST("/:id/keys", middleware.IdempotencyMiddleware(), d.appHandler.IssueKey)
		apps.GET("/:id/keys", d.appHandler.ListKeys)
		apps.DELETE("/:id", d.appHandler.DeleteApp)
	}

	keys := r.Group("/keys", d.authMiddleware)
	{
		keys.POST("/:id/revoke", d.appHandler.RevokeKey)
	}

	analytics := r.Group("/events", d.authMiddleware)
	{
		analytics.GET("/summary", d.analyticsHandler.Summary)
		analytics.GET("/by-ip", d.analyticsHandler.ByIP)
	}
}
