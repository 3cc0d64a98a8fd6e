package middleware

// identity.go defines the context keys written by JWTAuth and helpers to
// read them back.  When no token was verified the helpers report "guest".

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/tailor-api/internal/utils"
)

const (
    ContextIdentity = "identity"
    ContextUserID   = "user_id"
    ContextEmail    = "email"
)

// CurrentIdentity returns the identity stored by JWTAuth.
func CurrentIdentity(c echo.Context) (utils.Identity, bool) {
    id, ok := c.Get(ContextIdentity).(utils.Identity)
    return id, ok && id.UserID != ""
}

// userID extracts a user identifier from the context. It returns "guest"
// when no user is authenticated.
func userID(c echo.Context) string {
    if v, ok := c.Get(ContextUserID).(string); ok && v != "" {
        return v
    }
    return "guest"
}
