package api

import (
	"github.com/gin-gonic/gin"

	"github.com/barani-1502/Management-reports/internal/api/health"
	"github.com/barani-1502/Management-reports/internal/api/report"
)

// SetupRouter configures all routes
func SetupRouter(r *gin.Engine, reportHandler *report.Handler, healthHandler *health.Handler, rateLimit gin.HandlerFunc) {
	// CORS middleware
	r.Use(CORSMiddleware())
	r.Use(RequestIDMiddleware())

	// Health check
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Ride reporting API is running",
			"version": "1.0.0",
		})
	})

	// Operational probes
	r.GET("/test-db", healthHandler.TestDB)
	r.GET("/check-table", healthHandler.CheckTable)

	// Report routes; the static daily_summary2 route takes priority over
	// the :table wildcard, so that report always runs the specialized path.
	apiRoutes := r.Group("/api")
	apiRoutes.Use(rateLimit)
	{
		apiRoutes.GET("/daily_summary2/:period", reportHandler.GetRideSummary)
		apiRoutes.GET("/:table/:period", reportHandler.GetReport)
	}
}

// CORSMiddleware provides CORS support
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
