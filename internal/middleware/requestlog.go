package middleware

import (
    "time"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
)

// RequestLogger writes one structured line per request.  It runs after the
// error handler has rendered any error, so the logged status is final.
func RequestLogger() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            if err := next(c); err != nil {
                c.Error(err)
            }
            req, res := c.Request(), c.Response()

            var ev *zerolog.Event
            switch {
            case res.Status >= 500:
                ev = log.Error()
            case res.Status >= 400:
                ev = log.Warn()
            default:
                ev = log.Info()
            }
            ev.Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
                Str("method", req.Method).
                Str("route", c.Path()).
                Str("uri", req.RequestURI).
                Int("status", res.Status).
                Int64("bytes", res.Size).
                Dur("latency", time.Since(start)).
                Str("user_id", userID(c)).
                Str("remote_ip", c.RealIP()).
                Msg("request")
            return nil
        }
    }
}
