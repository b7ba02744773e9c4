package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/greenwell/pkg/errors"
	"github.com/jwalitptl/greenwell/pkg/httputil"
)

// ErrorRenderer writes an error response in whatever format the route serves.
type ErrorRenderer func(c *gin.Context, err error)

// Recovery turns panics into a 500 written by render, or a JSON envelope when
// render is nil.
func Recovery(render ErrorRenderer) gin.HandlerFunc {
	if render == nil {
		render = httputil.RespondWithError
	}
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			RequestLogger(c).Error().
				Interface("error", rec).
				Str("stack", string(debug.Stack())).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Str("client_ip", c.ClientIP()).
				Msg("Request panic recovered")

			render(c, apperrors.Internal(fmt.Errorf("panic: %v", rec)))
			c.Abort()
		}()
		c.Next()
	}
}
