package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const ContextSessionID = "session_id"

type SessionCookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Session copies the visitor's session id from its cookie into the context.
// Handlers call SetSession once they know the (possibly new) id.
func Session(config SessionCookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := c.Cookie(config.Name); err == nil && id != "" {
			c.Set(ContextSessionID, id)
		}
		c.Set(contextSessionConfig, config)
		c.Next()
	}
}

const contextSessionConfig = "session_cookie_config"

// SessionID returns the id from the request cookie, or "" for a new visitor.
func SessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}

// SetSession refreshes the cookie so it expires with the stored session.
func SetSession(c *gin.Context, id string) {
	v, ok := c.Get(contextSessionConfig)
	if !ok {
		return
	}
	config := v.(SessionCookieConfig)

	c.Set(ContextSessionID, id)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(config.Name, id, int(config.TTL.Seconds()), "/", "", config.Secure, true)
}
