package ratelimit

import (
	"fmt"
	"net/http"
	"time"

	"github.com/astrofauna/totemeter/internal/monitoring"
	"github.com/gin-gonic/gin"
)

// Middleware creates Gin middleware enforcing the per-IP request limit.
// Standard X-RateLimit headers are set on every response.
func Middleware(rl *RateLimiter, metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := rl.AllowIP(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Limiter failure must not take down the API
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetAt.Unix()))

		if !result.Allowed {
			if metrics != nil {
				metrics.IncrementRateLimitRejection()
			}
			retryAfter := result.RetryAfter
			if retryAfter <= 0 {
				retryAfter = time.Minute
			}
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(retryAfter.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// AnalysisMiddleware enforces the per-IP daily analysis quota on the
// analyze endpoint only.
func AnalysisMiddleware(rl *RateLimiter, metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path != "/analyze" {
			c.Next()
			return
		}

		result, err := rl.AllowAnalysis(c.Request.Context(), c.ClientIP())
		if err != nil {
			c.Next()
			return
		}

		if !result.Allowed {
			if metrics != nil {
				metrics.IncrementRateLimitRejection()
			}
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":     "daily analysis limit exceeded",
				"limit":     result.Limit,
				"reset_at":  result.ResetAt.Format(time.RFC3339),
				"remaining": result.Remaining,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
