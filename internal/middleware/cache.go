package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/rs/zerolog/log"

    "github.com/iliyamo/tailor-api/internal/config"
    "github.com/iliyamo/tailor-api/internal/metrics"
)

// bodyRecorder forwards the response and keeps a copy of the body for the
// cache.  Once the body grows past limit the copy is dropped and the
// response is marked uncacheable; the client still gets every byte.
type bodyRecorder struct {
    http.ResponseWriter
    status   int
    buf      bytes.Buffer
    limit    int
    overflow bool
}

func (r *bodyRecorder) WriteHeader(code int) {
    r.status = code
    r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
    if !r.overflow {
        if r.limit > 0 && r.buf.Len()+len(b) > r.limit {
            r.overflow = true
            r.buf.Reset()
        } else {
            r.buf.Write(b)
        }
    }
    return r.ResponseWriter.Write(b)
}

func (r *bodyRecorder) cacheable() bool {
    return r.status == http.StatusOK && !r.overflow
}

// cacheKeyFrom builds a stable cache key honoring prefix/strategy.  Every
// strategy includes the authenticated user, so cached bodies never leak
// between owners; "guest" stands in on unauthenticated routes.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
    r := c.Request()
    method := r.Method
    route := c.Path()
    query := r.URL.RawQuery
    uid := userID(c)

    parts := []string{cfg.Prefix}
    switch strings.ToLower(cfg.KeyStrategy) {
    case "user_route":
        parts = append(parts, "user", uid, "route", route)
    case "user_method_route_query":
        parts = append(parts, "user", uid, "method", method, "route", route, "q", query)
    default: // "user_route_query"
        parts = append(parts, "user", uid, "route", route, "q", query)
    }

    tail := strings.Join(parts[1:], ":")
    sum := sha1.Sum([]byte(tail))
    return fmt.Sprintf("%s:%s:%x", parts[0], uid, sum[:])
}

// skipCachedHeader lists headers that are recomputed per request and must
// not be stored with a cached entry.
var skipCachedHeader = map[string]bool{
    "Content-Length":   true,
    "Content-Encoding": true,
    "Vary":             true,
    "X-Cache":          true,
    "X-Request-Id":     true,
}

// cachedResponse is the value stored under a cache key.
type cachedResponse struct {
    Status int         `json:"status"`
    Header http.Header `json:"header"`
    Body   []byte      `json:"body"`
}

func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
    kept := make(http.Header, len(header))
    for k, vals := range header {
        if skipCachedHeader[http.CanonicalHeaderKey(k)] {
            continue
        }
        kept[k] = append([]string(nil), vals...)
    }
    return json.Marshal(cachedResponse{Status: status, Header: kept, Body: body})
}

func decodePayload(bs []byte) (*cachedResponse, bool) {
    var cr cachedResponse
    if err := json.Unmarshal(bs, &cr); err != nil || cr.Status == 0 {
        return nil, false
    }
    return &cr, true
}

// replay writes a cached response to the client.
func replay(c echo.Context, cr *cachedResponse) error {
    h := c.Response().Header()
    for k, vals := range cr.Header {
        for _, v := range vals {
            h.Add(k, v)
        }
    }
    h.Set("X-Cache", "HIT")
    c.Response().WriteHeader(cr.Status)
    _, err := c.Response().Write(cr.Body)
    return err
}

// NewRedisCache caches 200 responses (status, headers and body) in Redis
// under a per-user key.  Error responses and bodies over MaxBodyBytes are
// never stored.  With caching disabled or no Redis client it is a
// pass-through.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = time.Minute
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[c.Request().Method] {
                return next(c)
            }
            ctx := c.Request().Context()
            key := cacheKeyFrom(cfg, c)

            bs, err := rdb.Get(ctx, key).Bytes()
            if err != nil && !errors.Is(err, redis.Nil) {
                log.Warn().Err(err).Str("key", key).Msg("cache lookup failed")
            }
            if err == nil {
                if cr, ok := decodePayload(bs); ok {
                    metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
                    return replay(c, cr)
                }
            }

            metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
            rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
            c.Response().Writer = rec
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }
            if !rec.cacheable() {
                return nil
            }
            payload, err := encodePayload(rec.status, c.Response().Header(), rec.buf.Bytes())
            if err != nil {
                return nil
            }
            if err := rdb.Set(context.WithoutCancel(ctx), key, payload, ttl).Err(); err != nil {
                log.Warn().Err(err).Str("key", key).Msg("cache store failed")
            }
            return nil
        }
    }
}
