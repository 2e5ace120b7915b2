package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/barani-1502/Management-reports/internal/pkg/redis"
	"github.com/barani-1502/Management-reports/internal/service"
)

// RequestIDMiddleware honors an inbound X-Request-ID or mints one, and
// echoes it on the response for correlation.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// RateLimitMiddleware applies a fixed-window per-IP limit to the report
// endpoints. Redis keeps the window when available; otherwise the
// in-memory limiter takes over, so a redis outage never blocks reports.
func RateLimitMiddleware(maxReqs int, window time.Duration) gin.HandlerFunc {
	fallback := service.NewClientRateLimit(window, maxReqs)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		allowed := true
		if redis.GetClient() != nil {
			key := fmt.Sprintf("report:ratelimit:%s", ip)
			count, err := redis.Hit(c.Request.Context(), key, window)
			if err != nil {
				zap.L().Warn("Rate limit counter failed, using in-memory fallback",
					zap.Error(err))
				allowed = fallback.Check(ip)
			} else {
				allowed = count <= int64(maxReqs)
			}
		} else {
			allowed = fallback.Check(ip)
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}

		c.Next()
	}
}
