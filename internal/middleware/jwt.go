package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "errors"  // errors distinguishes expired tokens from invalid ones
    "strings" // string utilities for prefix checking

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/iliyamo/tailor-api/internal/apperr" // typed errors rendered by the error handler
    "github.com/iliyamo/tailor-api/internal/utils"  // token identity and verification errors
)

// AccessVerifier verifies access tokens.  *utils.TokenCodec satisfies it.
type AccessVerifier interface {
    VerifyAccess(raw string) (utils.Identity, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's identity into the request context.  Handlers read it
// with CurrentIdentity or the "user_id" key.
//
// The Authorization header must be exactly "Bearer <token>": one space, a
// non-empty token, nothing after it.  Anything else is a 401.
func JWTAuth(v AccessVerifier) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, ok := bearerToken(c.Request().Header.Get("Authorization"))
            if !ok {
                return apperr.Unauthorized("Missing or malformed Authorization header")
            }

            id, err := v.VerifyAccess(raw)
            if err != nil {
                if errors.Is(err, utils.ErrTokenExpired) {
                    return apperr.Unauthorized("Access token has expired")
                }
                return apperr.Unauthorized("Invalid access token")
            }

            // Store the identity in the context.  Downstream middleware
            // (cache key, request log) and handlers read it from here.
            c.Set(ContextIdentity, id)
            c.Set(ContextUserID, id.UserID)
            c.Set(ContextEmail, id.Email)
            return next(c)
        }
    }
}

// bearerToken extracts the token from an Authorization header value of the
// exact form "Bearer <token>".
func bearerToken(header string) (string, bool) {
    raw, ok := strings.CutPrefix(header, "Bearer ")
    if !ok || raw == "" || strings.ContainsAny(raw, " \t\r\n") {
        return "", false
    }
    return raw, true
}
