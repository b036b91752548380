// RateLimit is grounded on the shape of the teacher's in-memory
// src/diplomat/middleware/ratelimit.go (a gin.HandlerFunc keyed by client
// IP) but delegates the actual counting to internal/pkg/ratelimit's
// Redis-backed fixed-window Limiter so the limit holds across replicas.
package middleware

import (
	"net/http"

	"core-banking-ledger/internal/api/apierror"
	"core-banking-ledger/internal/pkg/apperrors"
	"core-banking-ledger/internal/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), "ratelimit:"+c.ClientIP())
		if err != nil {
			// Redis being unavailable shouldn't take the API down with it;
			// fail open and let the request through.
			c.Next()
			return
		}
		if !allowed {
			_, body := apierror.FromError(apperrors.New(apperrors.KindConflict, nil, "rate limit exceeded"))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, body)
			return
		}
		c.Next()
	}
}
