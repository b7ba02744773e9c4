package router

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/greenwell/internal/handler"
	"github.com/jwalitptl/greenwell/internal/handler/prometheus"
	"github.com/jwalitptl/greenwell/internal/handler/web"
	"github.com/jwalitptl/greenwell/internal/middleware"
	"github.com/jwalitptl/greenwell/pkg/httputil"
)

const apiPrefix = "/api/v1"

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine   *gin.Engine
	h        *handler.Handler
	web      *web.Handler
	catalogH Handler
	bookingH Handler
	cartH    Handler
	metrics  *prometheus.Handler
	config   RouterConfig
}

type RouterConfig struct {
	Mode             string
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	AllowedOrigins   []string
	MetricsEnabled   bool
	MetricsPath      string
	MaxBodyBytes     int64
	Session          middleware.SessionCookieConfig
	// CatalogMaxAge is the public cache lifetime of catalog responses, in seconds.
	CatalogMaxAge int
}

func NewRouter(
	h *handler.Handler,
	webH *web.Handler,
	catalogH Handler,
	bookingH Handler,
	cartH Handler,
	metrics *prometheus.Handler,
	config RouterConfig,
) (*Router, error) {
	if config.Mode != "" {
		gin.SetMode(config.Mode)
	}
	if config.CatalogMaxAge == 0 {
		config.CatalogMaxAge = 300
	}

	if err := middleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	engine := gin.New()
	engine.SetHTMLTemplate(templates)

	r := &Router{
		engine:   engine,
		h:        h,
		web:      webH,
		catalogH: catalogH,
		bookingH: bookingH,
		cartH:    cartH,
		metrics:  metrics,
		config:   config,
	}

	// Add core middlewares
	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(renderError),
		middleware.Logger(),
		middleware.ErrorHandler(),
		metrics.Middleware(),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig(config.Session.Secure)),
		middleware.SizeLimit(config.MaxBodyBytes),
	)

	if config.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	// CORS must see preflight requests, which match no route
	engine.Use(middleware.CORS(config.AllowedOrigins))
	engine.Use(middleware.Session(config.Session))

	return r, nil
}

func (r *Router) Setup() {
	if r.config.MetricsEnabled {
		r.engine.GET(r.config.MetricsPath, r.metrics.Handler())
	}

	site := r.engine.Group("")
	site.Use(middleware.Cache(middleware.NoStore()))
	r.web.RegisterRoutes(site)

	api := r.engine.Group(apiPrefix)

	// Add version header
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)

	reference := api.Group("")
	reference.Use(middleware.Cache(middleware.PublicCache(r.config.CatalogMaxAge)))
	r.catalogH.RegisterRoutes(reference)

	visitor := api.Group("")
	visitor.Use(middleware.Cache(middleware.NoStore()))
	r.bookingH.RegisterRoutes(visitor)
	r.cartH.RegisterRoutes(visitor)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	health.Use(middleware.Cache(middleware.NoStore()))
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
	}
}

// renderError answers API paths with the JSON envelope and everything else
// with the HTML error page.
func renderError(c *gin.Context, err error) {
	if strings.HasPrefix(c.Request.URL.Path, apiPrefix) {
		httputil.RespondWithError(c, err)
		return
	}
	web.RenderError(c, err)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
