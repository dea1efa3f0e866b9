package middlewares

import (
	"time"

	"github.com/devleo10/dishly/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

// LoggerMiddleware tags each request with an id (reusing the client's when
// sent) and logs it once the handler has finished.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		status := c.Writer.Status()
		fields := logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"status":     status,
			"latency":    time.Since(start).String(),
			"path":       path,
			"client_ip":  c.ClientIP(),
		}
		if userID, ok := c.Get("user_id"); ok {
			fields["user_id"] = userID
		}

		switch {
		case status >= 500:
			utils.ErrorLogger.WithFields(fields).Error("request failed")
		case len(c.Errors) > 0:
			utils.InfoLogger.WithFields(fields).Warn(c.Errors.String())
		default:
			utils.InfoLogger.WithFields(fields).Info("request")
		}
	}
}
