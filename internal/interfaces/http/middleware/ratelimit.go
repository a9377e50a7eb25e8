package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cinezone/cinezone/internal/infrastructure/ratelimit"
	"github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/logger"
	"github.com/cinezone/cinezone/internal/shared/utils"
)

// RateLimit enforces limiter per client IP. Limiter failures let the request
// through.
func RateLimit(limiter ratelimit.Limiter, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), "ip:"+c.ClientIP())
		if err != nil {
			log.Warnw("rate limiter unavailable", "error", err, "client_ip", c.ClientIP())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			log.Warnw("rate limit exceeded", "client_ip", c.ClientIP(), "path", c.Request.URL.Path)
			utils.ErrorResponseWithError(c, errors.NewRateLimitError("Too many requests, please try again later"))
			c.Abort()
			return
		}

		c.Next()
	}
}
