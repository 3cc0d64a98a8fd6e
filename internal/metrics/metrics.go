package metrics

import (
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus"
)

var (
    HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
        Name: "http_requests_total",
        Help: "Total number of HTTP requests",
    }, []string{"method", "path", "status"})
    HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
        Name:    "http_request_duration_seconds",
        Help:    "HTTP request duration in seconds",
        Buckets: prometheus.DefBuckets,
    }, []string{"method", "path", "status"})
    AuthOperationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
        Name: "tailor_auth_operations_total",
        Help: "Authentication operations by outcome",
    }, []string{"operation", "result"})
    SessionsSweptTotal = prometheus.NewCounter(prometheus.CounterOpts{
        Name: "tailor_sessions_swept_total",
        Help: "Expired refresh-token sessions removed by the sweeper",
    })
    AuditEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
        Name: "tailor_audit_events_total",
        Help: "Audit events handed to the broker, by result",
    }, []string{"result"})
    CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
        Name: "tailor_cache_lookups_total",
        Help: "Response cache lookups, by result (hit or miss)",
    }, []string{"result"})
)

func init() {
    prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration, AuthOperationsTotal,
        SessionsSweptTotal, AuditEventsTotal, CacheLookupsTotal)
}

// Auth records one authentication outcome, e.g. Auth("login", "failure").
func Auth(operation, result string) {
    AuthOperationsTotal.WithLabelValues(operation, result).Inc()
}

// EchoMiddleware counts requests and observes their latency.  Errors are
// handed to echo's error handler first so the recorded status is the one
// the client receives.
func EchoMiddleware() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            if err := next(c); err != nil {
                c.Error(err)
            }
            status := strconv.Itoa(c.Response().Status)
            path := c.Path()
            if path == "" {
                path = "unmatched"
            }
            labels := prometheus.Labels{"method": c.Request().Method, "path": path, "status": status}
            HTTPRequestsTotal.With(labels).Inc()
            HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
            return nil
        }
    }
}
