package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/combosss/combo-api/internal/config"
)

func TestTokenBucketLocalFallback(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		KeyStrategy:    "ip",
		Prefix:         "test:rl",
	}
	e := echo.New()
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
		NewTokenBucket(cfg, nil, zap.NewNop()))

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, do("10.0.0.1").Code)
	assert.Equal(t, http.StatusNoContent, do("10.0.0.1").Code)
	rec := do("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")

	assert.Equal(t, http.StatusNoContent, do("10.0.0.2").Code)
}

func TestTokenBucketPerUser(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       1,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		KeyStrategy:    "user",
		Prefix:         "test:rl",
	}
	sessions := fakeSessions{"first": 1, "second": 2}
	e := echo.New()
	g := e.Group("/v1", OptionalSession(sessions), NewTokenBucket(cfg, nil, zap.NewNop()))
	g.GET("/me", whoami, SessionAuth(sessions))

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/v1/me", "first").Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/v1/me", "second").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(e, http.MethodGet, "/v1/me", "first").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(e, http.MethodGet, "/v1/me", "second").Code)
}

func TestTokenBucketDisabled(t *testing.T) {
	e := echo.New()
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
		NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil, zap.NewNop()))
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/combos", nil)
	req.RemoteAddr = "10.1.2.3:4000"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/combos")
	setIdentity(c, Identity{UserID: 12})

	cfg := config.RateLimitConfig{Prefix: "p"}
	assert.Equal(t, "p:ip:10.1.2.3:user:12:route:POST /v1/combos", buildRateKey(cfg, c))
	cfg.KeyStrategy = "user"
	assert.Equal(t, "p:user:12", buildRateKey(cfg, c))
}
