package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-booking-api/internal/apperr"
	"github.com/iliyamo/venue-booking-api/internal/auth"
	"github.com/iliyamo/venue-booking-api/internal/config"
)

type stubAuthenticator struct{}

var testIssuer = auth.NewIssuer("test-secret", time.Hour)

func (stubAuthenticator) Authenticate(raw string) (auth.Admin, error) {
	if raw == "good" {
		tok, _, err := testIssuer.Issue("a1", "admin@example.com")
		if err != nil {
			return auth.Admin{}, err
		}
		return testIssuer.Verify(tok)
	}
	return auth.Admin{}, apperr.Unauthenticatedf("Invalid or expired token")
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAdminAuth(t *testing.T) {
	var seen auth.Admin
	h := AdminAuth(stubAuthenticator{})(func(c echo.Context) error {
		seen = AdminFrom(c)
		return c.NoContent(http.StatusNoContent)
	})
	e := echo.New()

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"missing", "", "Access denied. No token provided"},
		{"not bearer", "Basic Zm9vOmJhcg==", "Access denied. No token provided"},
		{"empty bearer", "Bearer   ", "Access denied. No token provided"},
		{"rejected", "Bearer bad", "Invalid or expired token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			err := h(e.NewContext(req, httptest.NewRecorder()))
			var ae *apperr.Error
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, apperr.Unauthenticated, ae.Kind)
			assert.Equal(t, tt.message, ae.Message)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")
	require.NoError(t, h(e.NewContext(req, httptest.NewRecorder())))
	assert.Equal(t, "a1", seen.ID())
}

func TestAdminFromWithoutGate(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.False(t, AdminFrom(c).Valid())
	assert.Equal(t, "anon", actorID(c))
}

func limitConfig(capacity int) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            5 * time.Hour,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
}

func limitedEcho(cfg config.RateLimitConfig, rdb *redis.Client) *echo.Echo {
	e := echo.New()
	e.POST("/api/bookings", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, NewTokenBucket(cfg, rdb, nil))
	return e
}

func post(e *echo.Echo, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
	req.RemoteAddr = ip + ":1234"
	return serve(e, req)
}

func TestTokenBucketRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	e := limitedEcho(limitConfig(2), rdb)

	assert.Equal(t, http.StatusCreated, post(e, "10.0.0.1").Code)
	rec := post(e, "10.0.0.1")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = post(e, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "Too many requests")

	// other clients have their own bucket
	assert.Equal(t, http.StatusCreated, post(e, "10.0.0.2").Code)
	assert.True(t, mr.Exists("rl:ip:10.0.0.1:route:POST /api/bookings"))
}

func TestTokenBucketFallsBackWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	e := limitedEcho(limitConfig(1), rdb)
	assert.Equal(t, http.StatusCreated, post(e, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(e, "10.0.0.1").Code)
}

func TestTokenBucketLocal(t *testing.T) {
	e := limitedEcho(limitConfig(1), nil)
	assert.Equal(t, http.StatusCreated, post(e, "10.0.0.1").Code)
	rec := post(e, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
}

func TestTokenBucketDisabled(t *testing.T) {
	cfg := limitConfig(1)
	cfg.Enabled = false
	e := limitedEcho(cfg, nil)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusCreated, post(e, "10.0.0.1").Code)
	}
}

func TestLocalBucketsSweepIdleKeys(t *testing.T) {
	l := newLocalBuckets(limitConfig(1))
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.take("a", now)
	l.take("b", now)
	require.Len(t, l.buckets, 2)

	l.take("b", now.Add(6*time.Hour))
	assert.Len(t, l.buckets, 1)
	assert.Contains(t, l.buckets, "b")
}
