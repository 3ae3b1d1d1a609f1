package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yukikurage/org-hierarchy-api/internal/constants"
	"github.com/yukikurage/org-hierarchy-api/internal/logging"
)

// RequestLogger tags every request with an id and attaches a request scoped
// logger to the request context. An incoming X-Request-ID is kept.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(constants.RequestIDHeader, requestID)

		entry := logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		})
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), entry))

		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if userID, ok := GetUserID(c); ok {
			fields["user_id"] = userID
		}
		e := entry.WithFields(fields)
		switch {
		case c.Writer.Status() >= 500:
			e.Error("http.request")
		case c.Writer.Status() >= 400:
			e.Warn("http.request")
		default:
			e.Info("http.request")
		}
	}
}
