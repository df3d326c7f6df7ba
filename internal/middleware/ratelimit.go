package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/iliyamo/venue-booking-api/internal/config"
)

// limiterScript is a token bucket kept in a Redis hash. It returns
// {allowed, tokens left, retry after in ms}.
var limiterScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 and refill_tokens > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + (intervals * refill_tokens))
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		local until_next = interval_ms - (now_ms - last_refill)
		if until_next < 0 then until_next = 0 end
		retry_after_ms = until_next
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill, 'capacity', capacity)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

// decision is the outcome of one bucket take.
type decision struct {
	allowed   bool
	remaining int64
	retry     time.Duration
}

// NewTokenBucket limits requests per key. The bucket lives in Redis when rdb
// is set; without Redis, or when a script call fails, an in-process limiter
// with the same capacity and refill rate takes over.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, logger *slog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if logger == nil {
		logger = slog.Default()
	}
	local := newLocalBuckets(cfg)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)

			var d decision
			var err error
			if rdb != nil {
				d, err = takeRedis(c, rdb, cfg, key)
				if err != nil && cfg.Debug {
					logger.Warn("ratelimit redis error", "key", key, "err", err)
				}
			}
			if rdb == nil || err != nil {
				d = local.take(key, time.Now())
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}

			if !d.allowed {
				secs := int(math.Ceil(d.retry.Seconds()))
				if secs < 1 {
					secs = 1
				}
				h.Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, map[string]any{
					"error":       "Too many requests, please try again later",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

func takeRedis(c echo.Context, rdb *redis.Client, cfg config.RateLimitConfig, key string) (decision, error) {
	args := []any{
		time.Now().UnixMilli(),
		cfg.Capacity,
		cfg.RefillTokens,
		cfg.RefillInterval.Milliseconds(),
		int64(cfg.TTL / time.Second),
	}
	vals, err := limiterScript.Run(c.Request().Context(), rdb, []string{key}, args...).Result()
	if err != nil {
		return decision{}, err
	}
	arr, ok := vals.([]any)
	if !ok || len(arr) != 3 {
		return decision{}, fmt.Errorf("unexpected script result %#v", vals)
	}
	return decision{
		allowed:   asInt64(arr[0]) == 1,
		remaining: asInt64(arr[1]),
		retry:     time.Duration(asInt64(arr[2])) * time.Millisecond,
	}, nil
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// localBuckets is the in-process fallback. Idle keys are swept once per TTL.
type localBuckets struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	buckets   map[string]*localBucket
	lastSweep time.Time
}

type localBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newLocalBuckets(cfg config.RateLimitConfig) *localBuckets {
	return &localBuckets{
		limit:   rate.Limit(cfg.PerSecond()),
		burst:   cfg.Capacity,
		ttl:     cfg.TTL,
		buckets: make(map[string]*localBucket),
	}
}

func (l *localBuckets) take(key string, now time.Time) decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.ttl {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > l.ttl {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &localBucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	r := b.lim.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return decision{retry: delay}
	}
	return decision{allowed: true, remaining: int64(b.lim.TokensAt(now))}
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	parts := []string{cfg.Prefix}
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	uid := actorID(c)
	route := c.Request().Method + " " + c.Path()

	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "user":
		parts = append(parts, "user", uid)
	case "route":
		parts = append(parts, "route", route)
	case "ip_user":
		parts = append(parts, "ip", ip, "user", uid)
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	case "user_route":
		parts = append(parts, "user", uid, "route", route)
	default:
		parts = append(parts, "ip", ip, "user", uid, "route", route)
	}
	return strings.Join(parts, ":")
}
