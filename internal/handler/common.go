package handler // handler defines http handlers

import (
    "context" // bounds storage work per request
    "strconv" // query parameter parsing
    "strings" // request text trimming
    "time"    // request timeout

    "github.com/google/uuid"      // path ids are UUIDs
    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/iliyamo/tailor-api/internal/apperr"     // typed errors for the boundary handler
    "github.com/iliyamo/tailor-api/internal/middleware" // identity stored by JWTAuth
)

// requestTimeout bounds the storage work of a single request.
const requestTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// getUserID returns the authenticated user's id.  Routes that call it sit
// behind JWTAuth, so a missing id means the middleware was not applied.
func getUserID(c echo.Context) (string, error) {
    id, ok := middleware.CurrentIdentity(c)
    if !ok {
        return "", apperr.Unauthorized("Not authenticated")
    }
    return id.UserID, nil
}

// trimmer is implemented by request bodies whose text fields are trimmed
// before validation, so "   " fails a required rule instead of being stored.
type trimmer interface {
    trim()
}

// bindAndValidate decodes the JSON body into dst, trims it and runs the
// registered validator on it.
func bindAndValidate(c echo.Context, dst any) error {
    if err := c.Bind(dst); err != nil {
        return err // *echo.HTTPError, mapped by ErrorHandler
    }
    if t, ok := dst.(trimmer); ok {
        t.trim()
    }
    return c.Validate(dst)
}

func trimPtr(s *string) {
    if s != nil {
        *s = strings.TrimSpace(*s)
    }
}

// idParam reads a UUID path parameter.  A malformed id can never match a
// row, so it is rejected up front as a bad request.
func idParam(c echo.Context, name string) (string, error) {
    raw := c.Param(name)
    id, err := uuid.Parse(raw)
    if err != nil {
        return "", apperr.BadRequest("Invalid " + name)
    }
    return id.String(), nil
}

// queryInt parses an integer query parameter.  Absent or unparsable values
// yield 0 and the service applies its default.
func queryInt(c echo.Context, name string) int {
    n, err := strconv.Atoi(c.QueryParam(name))
    if err != nil {
        return 0
    }
    return n
}
