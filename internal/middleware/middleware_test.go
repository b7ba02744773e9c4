package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/greenwell/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(HeaderXRequestID))
	assert.Equal(t, w.Header().Get(HeaderXRequestID), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "abc-123")
	w = serve(engine, req)
	assert.Equal(t, "abc-123", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, strings.Repeat("x", 500))
	w = serve(engine, req)
	assert.Len(t, w.Body.String(), 36)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "abc 123")
	w = serve(engine, req)
	assert.NotEqual(t, "abc 123", w.Body.String())
}

func TestRequestLoggerCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) {
		RequestLogger(c).Info().Msg("hello")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "rid-42")
	serve(engine, req)
	assert.Contains(t, buf.String(), `"request_id":"rid-42"`)
}

func TestCacheDirectives(t *testing.T) {
	assert.Equal(t, "public, max-age=300, stale-while-revalidate=300", PublicCache(300).Directives())
	assert.Equal(t, "no-store", NoStore().Directives())
	assert.Equal(t, "private, max-age=60, must-revalidate", CacheConfig{MaxAge: 60, Private: true, MustRevalidate: true}.Directives())

	engine := gin.New()
	engine.Use(Cache(PublicCache(300)))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "public, max-age=300, stale-while-revalidate=300", w.Header().Get("Cache-Control"))
	assert.Equal(t, "Accept", w.Header().Get("Vary"))

	w = serve(engine, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestSecurityHeaders(t *testing.T) {
	engine := gin.New()
	engine.Use(SecurityHeaders(DefaultSecurityConfig(false)))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "form-action 'self'")
	assert.Contains(t, w.Header().Get("Permissions-Policy"), "camera=()")
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	engine = gin.New()
	engine.Use(SecurityHeaders(DefaultSecurityConfig(true)))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	w = serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))

	headers := SecurityConfig{FrameOptions: "DENY"}.Headers()
	assert.Equal(t, map[string]string{"X-Frame-Options": "DENY"}, headers)
}

func TestRateLimitPerClient(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 2})
	engine := gin.New()
	engine.Use(rl.RateLimit())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	from := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(engine, req).Code
	}

	assert.Equal(t, http.StatusOK, from("10.0.0.1"))
	assert.Equal(t, http.StatusOK, from("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, from("10.0.0.1"))
	assert.Equal(t, http.StatusOK, from("10.0.0.2"))
}

func TestSizeLimit(t *testing.T) {
	engine := gin.New()
	engine.Use(SizeLimit(8))
	engine.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(engine, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("short")))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(engine, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("much too long")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSessionCookie(t *testing.T) {
	engine := gin.New()
	engine.Use(Session(SessionCookieConfig{Name: "sid", TTL: time.Hour}))
	engine.GET("/", func(c *gin.Context) {
		got := SessionID(c)
		SetSession(c, "new-id")
		c.String(http.StatusOK, got)
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, w.Body.String())
	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "sid=new-id")
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "Max-Age=3600")
	assert.Contains(t, cookie, "SameSite=Lax")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "old-id"})
	w = serve(engine, req)
	assert.Equal(t, "old-id", w.Body.String())
}

func TestErrorHandlerMapsAppErrors(t *testing.T) {
	engine := gin.New()
	engine.Use(ErrorHandler())
	engine.GET("/missing", func(c *gin.Context) { _ = c.Error(apperrors.NotFound("clinician", nil)) })
	engine.GET("/written", func(c *gin.Context) {
		_ = c.Error(apperrors.Conflict("x"))
		c.String(http.StatusTeapot, "tea")
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"clinician not found"}`, w.Body.String())

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/written", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID(), Recovery(nil))
	engine.GET("/", func(c *gin.Context) { panic("boom") })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"status":"error","message":"internal server error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestRecoveryCustomRenderer(t *testing.T) {
	var got error
	engine := gin.New()
	engine.Use(Recovery(func(c *gin.Context, err error) {
		got = err
		c.String(http.StatusInternalServerError, "page")
	}))
	engine.GET("/", func(c *gin.Context) { panic("boom") })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "page", w.Body.String())
	require.Error(t, got)
	assert.True(t, apperrors.HasCode(got, apperrors.ErrInternal))
}

func TestCORSPreflight(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS([]string{"https://shop.example"}))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	w := serve(engine, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://shop.example", w.Header().Get("Access-Control-Allow-Origin"))
}
