package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"careergap/internal/shared/metrics"
	"careergap/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	WorkplaceIDKey = "workplaceId"
	OutcomeKindKey = "outcomeKind"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		metrics.ObserveHTTP(c.Request.Method, status, latency)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if id := c.GetString(WorkplaceIDKey); id != "" {
			fields["workplace_id"] = id
		}
		if kind := c.GetString(OutcomeKindKey); kind != "" {
			fields["outcome_kind"] = kind
		}
		telemetry.Info("request.complete", fields)
	}
}
