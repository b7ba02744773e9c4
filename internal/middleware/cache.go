package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CacheConfig represents cache control configuration
type CacheConfig struct {
	MaxAge               int
	Private              bool
	NoStore              bool
	MustRevalidate       bool
	StaleWhileRevalidate int
	Vary                 []string
}

// PublicCache suits the fixed catalog.
func PublicCache(maxAge int) CacheConfig {
	return CacheConfig{
		MaxAge:               maxAge,
		StaleWhileRevalidate: maxAge,
		Vary:                 []string{"Accept"},
	}
}

// NoStore suits anything that reflects a visitor's session.
func NoStore() CacheConfig {
	return CacheConfig{NoStore: true, Private: true}
}

// Directives renders the Cache-Control value.
func (config CacheConfig) Directives() string {
	if config.NoStore {
		return "no-store"
	}

	directives := make([]string, 0, 4)
	if config.Private {
		directives = append(directives, "private")
	} else {
		directives = append(directives, "public")
	}
	if config.MaxAge > 0 {
		directives = append(directives, "max-age="+strconv.Itoa(config.MaxAge))
	}
	if config.MustRevalidate {
		directives = append(directives, "must-revalidate")
	}
	if config.StaleWhileRevalidate > 0 {
		directives = append(directives, "stale-while-revalidate="+strconv.Itoa(config.StaleWhileRevalidate))
	}
	return strings.Join(directives, ", ")
}

// Cache adds cache control headers to responses. Non-GET requests are never
// cached.
func Cache(config CacheConfig) gin.HandlerFunc {
	value := config.Directives()
	vary := strings.Join(config.Vary, ", ")

	return func(c *gin.Context) {
		if c.Request.Method != "GET" && c.Request.Method != "HEAD" {
			c.Header("Cache-Control", "no-store")
			c.Next()
			return
		}

		c.Header("Cache-Control", value)
		if vary != "" {
			c.Header("Vary", vary)
		}
		c.Next()
	}
}
