package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Logger logs one line per request. Bodies and query strings are left out:
// booking requests carry personal data.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		l := RequestLogger(c)
		var event *zerolog.Event
		switch {
		case statusCode >= 500:
			event = l.Error()
		case statusCode >= 400:
			event = l.Warn()
		default:
			event = l.Info()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("route", c.FullPath()).
			Str("client_ip", c.ClientIP()).
			Int("status", statusCode).
			Int("size", c.Writer.Size()).
			Dur("latency", latency).
			Str("user_agent", c.Request.UserAgent()).
			Msg("Request processed")
	}
}
