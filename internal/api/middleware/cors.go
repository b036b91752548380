package middleware

import (
	"net/http"

	"core-banking-ledger/internal/config"

	"github.com/gin-gonic/gin"
)

// CORS mirrors the teacher's per-request Origin matching against the
// configured allow-list, grounded on src/diplomat/middleware/cors.go.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.AllowOrigins))
	for _, o := range cfg.AllowOrigins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowed[origin] || allowed["*"] {
			c.Header("Access-Control-Allow-Origin", origin)
		}
		c.Header("Access-Control-Allow-Methods", joinComma(cfg.AllowMethods))
		c.Header("Access-Control-Allow-Headers", joinComma(cfg.AllowHeaders))
		if cfg.AllowCredentials {
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func joinComma(values []string) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ", "
		}
		out += v
	}
	return out
}
