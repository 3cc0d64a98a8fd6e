package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/tailor-api/internal/service"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
    return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

// Passwords are capped at 72 bytes as well as 64 characters: bcrypt cannot
// hash longer input.
type registerReq struct {
    FullName string  `json:"fullName" validate:"required,min=3,max=100"`
    Email    string  `json:"email" validate:"required,email,max=255"`
    Password string  `json:"password" validate:"required,min=6,max=64,maxbytes=72"`
    Phone    *string `json:"phone" validate:"omitempty,min=10,max=15"`
}

func (r *registerReq) trim() {
    r.FullName = strings.TrimSpace(r.FullName)
    r.Email = strings.TrimSpace(r.Email)
}

// Login only requires a password; any wrong one, short or long, is a
// credential failure.
type loginReq struct {
    Email    string `json:"email" validate:"required,email"`
    Password string `json:"password" validate:"required"`
}

func (r *loginReq) trim() { r.Email = strings.TrimSpace(r.Email) }
type refreshReq struct {
    RefreshToken string `json:"refreshToken" validate:"required"`
}

type userPart struct {
    ID       string `json:"id"`
    Email    string `json:"email"`
    FullName string `json:"fullName"`
}

// Register creates an account.  No tokens are issued; the client logs in next.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    u, err := h.Auth.Register(ctx, service.RegisterInput{
        FullName: req.FullName,
        Email:    req.Email,
        Password: req.Password,
        Phone:    req.Phone,
    })
    if err != nil {
        return err
    }
    return c.JSON(http.StatusCreated, echo.Map{"success": true, "user": u})
}

// Login verifies credentials and returns a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    res, err := h.Auth.Login(ctx, req.Email, req.Password)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{
        "success":      true,
        "message":      "Login successful",
        "accessToken":  res.Tokens.AccessToken,
        "refreshToken": res.Tokens.RefreshToken,
        "user":         userPart{ID: res.User.ID, Email: res.User.Email, FullName: res.User.FullName},
    })
}

// Refresh rotates the presented refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    pair, err := h.Auth.Refresh(ctx, req.RefreshToken)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{
        "success":      true,
        "accessToken":  pair.AccessToken,
        "refreshToken": pair.RefreshToken,
    })
}

// Logout deletes the session identified by the presented refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
    var req refreshReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    if err := h.Auth.Logout(ctx, req.RefreshToken); err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Logged out successfully"})
}

// LogoutAll deletes every session of the authenticated user.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    n, err := h.Auth.LogoutAll(ctx, uid)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{
        "success": true,
        "message": "Logged out from all devices",
        "revoked": n,
    })
}

// Profile returns the authenticated user.
func (h *AuthHandler) Profile(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    u, err := h.Auth.Profile(ctx, uid)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "user": u})
}
