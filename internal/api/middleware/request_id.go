// RequestID is grounded on the teacher's RequestContext middleware
// (src/context/request_context.go): a UUID minted per request, echoed back
// on the response, stored on the gin context (see GetRequestID), and
// included in the "request completed" log line this middleware emits. It
// drops the teacher's embedded DB/broker singletons —
// this module's handlers already get those through their own constructors,
// not through the request context.
package middleware

import (
	"core-banking-ledger/internal/pkg/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"
const requestIDKey = "request_id"

// RequestID assigns c.GetHeader(RequestIDHeader) if the caller supplied one,
// otherwise mints a new UUID, and sets it on both the gin context and the
// response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()

		logging.Info("request completed", map[string]interface{}{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
		})
	}
}

// GetRequestID retrieves the request id set by RequestID for use in handler
// logging.
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
