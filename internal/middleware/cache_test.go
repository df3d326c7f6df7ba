package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-booking-api/internal/config"
)

func cacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      []string{"GET"},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

func cachedEcho(rc *ResponseCache, calls *int) *echo.Echo {
	e := echo.New()
	e.GET("/api/venues/:id", func(c echo.Context) error {
		*calls++
		if c.Param("id") == "missing" {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Venue not found"})
		}
		return c.JSON(http.StatusOK, echo.Map{"venue": echo.Map{"id": c.Param("id"), "n": *calls}})
	}, rc.Cache())
	e.PUT("/api/venues/:id", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "Venue updated successfully"})
	}, rc.Invalidate())
	return e
}

func TestResponseCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	calls := 0
	e := cachedEcho(NewResponseCache(cacheConfig(), rdb, "venues", nil), &calls)
	get := func(path string) *httptest.ResponseRecorder {
		return serve(e, httptest.NewRequest(http.MethodGet, path, nil))
	}

	first := get("/api/venues/v1")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := get("/api/venues/v1")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, second.Header().Get(echo.HeaderContentType))
	assert.Equal(t, 1, calls)

	// distinct ids are distinct entries
	assert.Equal(t, "MISS", get("/api/venues/v2").Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)

	// errors are not stored
	get("/api/venues/missing")
	get("/api/venues/missing")
	assert.Equal(t, 4, calls)

	put := serve(e, httptest.NewRequest(http.MethodPut, "/api/venues/v1", strings.NewReader("{}")))
	require.Equal(t, http.StatusOK, put.Code)
	assert.Equal(t, "MISS", get("/api/venues/v1").Header().Get("X-Cache"))
	assert.Equal(t, 5, calls)
}

func TestResponseCacheSkipsOversizedBodies(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := cacheConfig()
	cfg.MaxBodyBytes = 8
	calls := 0
	e := cachedEcho(NewResponseCache(cfg, rdb, "venues", nil), &calls)

	for i := 0; i < 2; i++ {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/venues/v1", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":"v1"`)
	}
	assert.Equal(t, 2, calls)
}

func TestNilResponseCachePassesThrough(t *testing.T) {
	assert.Nil(t, NewResponseCache(cacheConfig(), nil, "venues", nil))
	cfg := cacheConfig()
	cfg.Enabled = false
	rc := NewResponseCache(cfg, redis.NewClient(&redis.Options{Addr: "localhost:0"}), "venues", nil)
	require.Nil(t, rc)

	calls := 0
	e := cachedEcho(rc, &calls)
	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/venues/v1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestPayloadRoundTrip(t *testing.T) {
	h := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, h, []byte(`{"ok":true}`))
	require.NoError(t, err)
	status, hdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, h, hdr)
	assert.Equal(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
}
