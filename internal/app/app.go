package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/greenwell/internal/config"
	"github.com/jwalitptl/greenwell/internal/handler"
	bookingHandler "github.com/jwalitptl/greenwell/internal/handler/booking"
	cartHandler "github.com/jwalitptl/greenwell/internal/handler/cart"
	catalogHandler "github.com/jwalitptl/greenwell/internal/handler/catalog"
	"github.com/jwalitptl/greenwell/internal/handler/prometheus"
	"github.com/jwalitptl/greenwell/internal/handler/web"
	"github.com/jwalitptl/greenwell/internal/middleware"
	"github.com/jwalitptl/greenwell/internal/repository"
	"github.com/jwalitptl/greenwell/internal/repository/memory"
	redisRepo "github.com/jwalitptl/greenwell/internal/repository/redis"
	"github.com/jwalitptl/greenwell/internal/repository/static"
	"github.com/jwalitptl/greenwell/internal/router"
	"github.com/jwalitptl/greenwell/internal/service/booking"
	"github.com/jwalitptl/greenwell/internal/service/cart"
	"github.com/jwalitptl/greenwell/internal/service/catalog"
	"github.com/jwalitptl/greenwell/pkg/logger"
	"github.com/jwalitptl/greenwell/pkg/metrics"
)

const metricsNamespace = "greenwell"

// App is the fully wired site.
type App struct {
	Engine   *gin.Engine
	Bookings *booking.Service
	Catalog  *catalog.Service

	closers []func() error
}

// Options replace default collaborators, mainly for tests.
type Options struct {
	Sessions  repository.SessionRepository
	Submitter booking.Submitter
}

func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts Options) (*App, error) {
	a := &App{}

	catalogRepo, err := static.NewCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	prom := prometheus.New(metricsNamespace)
	m := metrics.NewMetrics(metricsNamespace, prom.Registry())

	sessions := opts.Sessions
	if sessions == nil {
		if sessions, err = a.sessionStore(ctx, cfg); err != nil {
			return nil, err
		}
	}
	sessions = repository.Instrument(sessions, m)

	submitter := opts.Submitter
	if submitter == nil {
		submitter = booking.SimulatedSubmitter{Delay: cfg.Booking.SubmitDelay}
	}

	catalogSvc := catalog.NewService(catalogRepo)
	bookingSvc := booking.NewService(sessions, catalogRepo, submitter, m, log)
	cartSvc := cart.NewService(bookingSvc, catalogSvc, m, log)

	h := handler.NewHandler(map[string]handler.Pinger{"sessions": sessions})

	r, err := router.NewRouter(
		h,
		web.NewHandler(bookingSvc, cartSvc, catalogSvc),
		catalogHandler.NewHandler(catalogSvc),
		bookingHandler.NewHandler(bookingSvc),
		cartHandler.NewHandler(cartSvc),
		prom,
		router.RouterConfig{
			Mode:             cfg.Server.Mode,
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			MetricsEnabled:   cfg.Monitoring.PrometheusEnabled,
			MetricsPath:      cfg.Monitoring.MetricsPath,
			MaxBodyBytes:     cfg.Server.MaxBodyBytes,
			Session: middleware.SessionCookieConfig{
				Name:   cfg.Session.CookieName,
				TTL:    cfg.Session.TTL,
				Secure: cfg.Session.Secure,
			},
		},
	)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	r.Setup()

	a.Engine = r.Engine()
	a.Bookings = bookingSvc
	a.Catalog = catalogSvc
	return a, nil
}

func (a *App) sessionStore(ctx context.Context, cfg *config.Config) (repository.SessionRepository, error) {
	switch cfg.Session.Driver {
	case config.DriverRedis:
		store, err := redisRepo.NewSessionRepository(ctx, redisRepo.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			TTL:          cfg.Session.TTL,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		return memory.NewSessionRepository(cfg.Session.TTL, cfg.Session.CleanupInterval), nil
	}
}

// Close releases external connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
