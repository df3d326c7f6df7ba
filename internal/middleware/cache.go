package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/venue-booking-api/internal/config"
)

// captureWriter copies the response body while forwarding it to the client.
// It stops copying once limit is exceeded and marks the capture as overflowed.
type captureWriter struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.overflow {
		if cw.limit > 0 && cw.buf.Len()+len(b) > cw.limit {
			cw.overflow = true
			cw.buf.Reset()
		} else {
			cw.buf.Write(b)
		}
	}
	return cw.ResponseWriter.Write(b)
}

// ResponseCache stores successful responses of one resource namespace in
// Redis. Every key embeds the namespace generation; Invalidate bumps it so
// earlier entries are never read again and expire on their own.
type ResponseCache struct {
	cfg config.CacheConfig
	rdb *redis.Client
	ns  string
	log *slog.Logger
}

// NewResponseCache returns nil when caching is disabled or rdb is nil. A nil
// cache's middlewares pass requests straight through.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client, namespace string, logger *slog.Logger) *ResponseCache {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ResponseCache{cfg: cfg, rdb: rdb, ns: namespace, log: logger}
}

func (rc *ResponseCache) genKey() string {
	return fmt.Sprintf("%s:%s:gen", rc.cfg.Prefix, rc.ns)
}

func (rc *ResponseCache) generation(ctx context.Context) (int64, error) {
	n, err := rc.rdb.Get(ctx, rc.genKey()).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

// key hashes the request identity chosen by the key strategy.
func (rc *ResponseCache) key(c echo.Context, gen int64) string {
	r := c.Request()
	route := c.Path()
	query := r.URL.RawQuery

	var parts []string
	switch strings.ToLower(rc.cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", route}
	case "method_route":
		parts = []string{"method", r.Method, "route", route}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", route, "q", query}
	default: // route_query
		parts = []string{"route", route, "q", query}
	}
	// the route pattern alone would collapse /:id lookups onto one entry
	parts = append(parts, "path", r.URL.Path)

	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%s:%d:%x", rc.cfg.Prefix, rc.ns, gen, sum[:])
}

// Cache serves stored responses and records fresh 200s.
func (rc *ResponseCache) Cache() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if rc == nil {
			return next
		}
		return func(c echo.Context) error {
			if !rc.cfg.Caches(c.Request().Method) {
				return next(c)
			}
			ctx := c.Request().Context()
			gen, err := rc.generation(ctx)
			if err != nil {
				rc.log.Warn("cache generation lookup failed", "ns", rc.ns, "err", err)
				return next(c)
			}
			key := rc.key(c, gen)

			if bs, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					h := c.Response().Header()
					for k, vals := range hdr {
						if strings.EqualFold(k, echo.HeaderContentLength) || strings.EqualFold(k, echo.HeaderXRequestID) {
							continue
						}
						for _, v := range vals {
							h.Add(k, v)
						}
					}
					h.Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, err := c.Response().Write(body)
					return err
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: rc.cfg.MaxBodyBytes}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.overflow {
				return nil
			}
			payload, err := encodePayload(cw.status, c.Response().Header().Clone(), cw.buf.Bytes())
			if err != nil {
				return nil
			}
			if err := rc.rdb.SetEx(context.WithoutCancel(ctx), key, payload, rc.cfg.TTL).Err(); err != nil {
				rc.log.Warn("cache store failed", "ns", rc.ns, "err", err)
			}
			return nil
		}
	}
}

// Invalidate bumps the namespace generation after a successful write.
func (rc *ResponseCache) Invalidate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if rc == nil {
			return next
		}
		return func(c echo.Context) error {
			if err := next(c); err != nil {
				return err
			}
			if status := c.Response().Status; status >= 200 && status < 300 {
				ctx := context.WithoutCancel(c.Request().Context())
				if err := rc.rdb.Incr(ctx, rc.genKey()).Err(); err != nil {
					rc.log.Warn("cache invalidation failed", "ns", rc.ns, "err", err)
				}
			}
			return nil
		}
	}
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := jsoniter.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := jsoniter.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}
