package handler

import (
    "errors"
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"

    "github.com/iliyamo/tailor-api/internal/apperr"
)

type errorBody struct {
    Code    string         `json:"code"`
    Message string         `json:"message"`
    Meta    map[string]any `json:"meta,omitempty"`
    Cause   string         `json:"cause,omitempty"`
}

type errorEnvelope struct {
    Success bool      `json:"success"`
    Error   errorBody `json:"error"`
}

// ErrorHandler is installed as echo's HTTPErrorHandler.  It turns every
// error into the {success:false,error:{code,message}} envelope.  The full
// error is always logged; meta and the underlying cause are sent to clients
// only outside production.
func ErrorHandler(production bool) echo.HTTPErrorHandler {
    return func(err error, c echo.Context) {
        if c.Response().Committed {
            return
        }
        ae := toAppError(err, c)

        var ev *zerolog.Event
        if ae.Status() >= http.StatusInternalServerError {
            ev = log.Error()
        } else {
            ev = log.Warn()
        }
        ev.Err(err).
            Int("status", ae.Status()).
            Str("code", ae.Code()).
            Str("method", c.Request().Method).
            Str("path", c.Request().URL.Path).
            Interface("meta", ae.Meta).
            Msg(ae.Message)

        body := errorBody{Code: ae.Code(), Message: ae.Message}
        if !production {
            body.Meta = ae.Meta
            if ae.Err != nil {
                body.Cause = ae.Err.Error()
            }
        }

        if c.Request().Method == http.MethodHead {
            err = c.NoContent(ae.Status())
        } else {
            err = c.JSON(ae.Status(), errorEnvelope{Success: false, Error: body})
        }
        if err != nil {
            log.Error().Err(err).Msg("failed to write error response")
        }
    }
}

// toAppError maps any error onto the closed kind set.  Errors raised by echo
// itself (unknown route, wrong method, undecodable body) are translated by
// status; anything unrecognised becomes a generic Internal error.
func toAppError(err error, c echo.Context) *apperr.Error {
    var ae *apperr.Error
    if errors.As(err, &ae) {
        return ae
    }
    var he *echo.HTTPError
    if errors.As(err, &he) {
        kind := apperr.KindFromStatus(he.Code)
        var msg string
        switch he.Code {
        case http.StatusNotFound:
            msg = fmt.Sprintf("Route %s %s not found", c.Request().Method, c.Request().URL.Path)
        case http.StatusBadRequest:
            msg = "Invalid request body"
        default:
            if s, ok := he.Message.(string); ok {
                msg = s
            }
        }
        cause := he.Internal
        if cause == nil && he.Code >= http.StatusInternalServerError {
            cause = he
        }
        return apperr.Wrap(kind, msg, cause)
    }
    return apperr.Internal(err)
}
