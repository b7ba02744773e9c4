package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/greenwell/pkg/httputil"
)

// ErrorHandler answers with the last error attached through c.Error when the
// handler itself wrote nothing.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		for _, e := range c.Errors {
			RequestLogger(c).Warn().
				Err(e.Err).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("Request error")
		}

		if c.Writer.Written() {
			return
		}
		httputil.RespondWithError(c, c.Errors.Last().Err)
	}
}
