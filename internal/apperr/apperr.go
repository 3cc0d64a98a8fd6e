// Package apperr defines the closed set of error kinds the API can surface and
// the table that maps each kind onto an HTTP status and a stable machine code.
// Services return *Error values; the HTTP boundary is the only place that
// turns them into responses.
package apperr

import (
    "errors"
    "fmt"
    "net/http"
)

// Kind classifies an operational failure.
type Kind int

const (
    KindInternal Kind = iota
    KindBadRequest
    KindValidation
    KindUnauthorized
    KindForbidden
    KindNotFound
    KindMethodNotAllowed
    KindConflict
    KindUnsupportedMediaType
    KindUnprocessableEntity
    KindTooManyRequests
    KindServiceUnavailable
    KindTimeout
)

type kindInfo struct {
    status  int
    code    string
    message string
}

// kinds is the single source of truth for kind -> transport mapping.
var kinds = map[Kind]kindInfo{
    KindInternal:             {http.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error"},
    KindBadRequest:           {http.StatusBadRequest, "BAD_REQUEST", "Bad request"},
    KindValidation:           {http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed"},
    KindUnauthorized:         {http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized"},
    KindForbidden:            {http.StatusForbidden, "FORBIDDEN", "Forbidden"},
    KindNotFound:             {http.StatusNotFound, "NOT_FOUND", "Not found"},
    KindMethodNotAllowed:     {http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed"},
    KindConflict:             {http.StatusConflict, "CONFLICT", "Conflict"},
    KindUnsupportedMediaType: {http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "Unsupported media type"},
    KindUnprocessableEntity:  {http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY", "Unprocessable entity"},
    KindTooManyRequests:      {http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many requests"},
    KindServiceUnavailable:   {http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Service unavailable"},
    KindTimeout:              {http.StatusGatewayTimeout, "TIMEOUT", "Request timed out"},
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int { return k.info().status }

// Code returns the stable machine-readable code for the kind.
func (k Kind) Code() string { return k.info().code }

func (k Kind) String() string { return k.info().code }

func (k Kind) info() kindInfo {
    if ki, ok := kinds[k]; ok {
        return ki
    }
    return kinds[KindInternal]
}

// KindFromStatus maps an HTTP status back onto a kind. Unknown 4xx codes
// collapse to KindBadRequest and unknown 5xx codes to KindInternal.
func KindFromStatus(status int) Kind {
    switch status {
    case http.StatusBadRequest:
        return KindBadRequest
    case http.StatusUnauthorized:
        return KindUnauthorized
    case http.StatusForbidden:
        return KindForbidden
    case http.StatusNotFound:
        return KindNotFound
    case http.StatusMethodNotAllowed:
        return KindMethodNotAllowed
    case http.StatusConflict:
        return KindConflict
    case http.StatusUnsupportedMediaType:
        return KindUnsupportedMediaType
    case http.StatusUnprocessableEntity:
        return KindUnprocessableEntity
    case http.StatusTooManyRequests:
        return KindTooManyRequests
    case http.StatusServiceUnavailable:
        return KindServiceUnavailable
    case http.StatusGatewayTimeout:
        return KindTimeout
    }
    if status >= 400 && status < 500 {
        return KindBadRequest
    }
    return KindInternal
}

// Error is an operational failure with a client-safe message. Err holds the
// underlying cause, which is logged but never sent to clients in production.
type Error struct {
    Kind    Kind
    Message string
    Meta    map[string]any
    Err     error
}

func (e *Error) Error() string {
    if e.Err != nil {
        return fmt.Sprintf("%s: %s: %v", e.Kind.Code(), e.Message, e.Err)
    }
    return fmt.Sprintf("%s: %s", e.Kind.Code(), e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Status is shorthand for e.Kind.Status().
func (e *Error) Status() int { return e.Kind.Status() }

// Code is shorthand for e.Kind.Code().
func (e *Error) Code() string { return e.Kind.Code() }

// WithMeta returns a copy of e carrying the given metadata.
func (e *Error) WithMeta(meta map[string]any) *Error {
    cp := *e
    cp.Meta = meta
    return &cp
}

// New builds an error of the given kind. An empty message falls back to the
// kind's default message.
func New(kind Kind, msg string) *Error {
    if msg == "" {
        msg = kind.info().message
    }
    return &Error{Kind: kind, Message: msg}
}

// Wrap is New with an underlying cause attached.
func Wrap(kind Kind, msg string, err error) *Error {
    e := New(kind, msg)
    e.Err = err
    return e
}

func BadRequest(msg string) *Error   { return New(KindBadRequest, msg) }
func Unauthorized(msg string) *Error { return New(KindUnauthorized, msg) }
func Forbidden(msg string) *Error    { return New(KindForbidden, msg) }
func NotFound(msg string) *Error     { return New(KindNotFound, msg) }
func Conflict(msg string) *Error     { return New(KindConflict, msg) }

// Validation reports a request that failed schema checks; issues is exposed
// to clients as meta.errors outside production.
func Validation(msg string, issues any) *Error {
    return New(KindValidation, msg).WithMeta(map[string]any{"errors": issues})
}

// Internal wraps an unexpected failure behind a generic message.
func Internal(err error) *Error {
    return Wrap(KindInternal, "", err)
}

// From extracts the *Error in err's chain, or wraps err as Internal.
func From(err error) *Error {
    if err == nil {
        return nil
    }
    var ae *Error
    if errors.As(err, &ae) {
        return ae
    }
    return Internal(err)
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
    var ae *Error
    return errors.As(err, &ae) && ae.Kind == kind
}
