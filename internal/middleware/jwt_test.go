package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/tailor-api/internal/apperr"
    "github.com/iliyamo/tailor-api/internal/config"
    "github.com/iliyamo/tailor-api/internal/utils"
)

func testCodec() *utils.TokenCodec {
    return utils.NewTokenCodec(config.TokenConfig{
        AccessSecret:  "access",
        RefreshSecret: "refresh",
        AccessTTL:     time.Minute,
        RefreshTTL:    time.Hour,
        Issuer:        "tailor-api",
    })
}

func runJWT(t *testing.T, codec *utils.TokenCodec, header string) (echo.Context, error) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/api/users/profile", nil)
    if header != "" {
        req.Header.Set("Authorization", header)
    }
    c := e.NewContext(req, httptest.NewRecorder())
    err := JWTAuth(codec)(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
    return c, err
}

func TestJWTAuthAcceptsExactBearer(t *testing.T) {
    codec := testCodec()
    pair, err := codec.Issue(utils.Identity{UserID: "u-1", Email: "t@example.com"})
    require.NoError(t, err)

    c, err := runJWT(t, codec, "Bearer "+pair.AccessToken)
    require.NoError(t, err)
    id, ok := CurrentIdentity(c)
    require.True(t, ok)
    assert.Equal(t, "u-1", id.UserID)
    assert.Equal(t, "u-1", c.Get(ContextUserID))
    assert.Equal(t, "u-1", userID(c))
}

func TestJWTAuthRejectsMalformedHeaders(t *testing.T) {
    codec := testCodec()
    pair, err := codec.Issue(utils.Identity{UserID: "u-1"})
    require.NoError(t, err)

    for name, header := range map[string]string{
        "missing":          "",
        "lowercase scheme": "bearer " + pair.AccessToken,
        "no space":         "Bearer" + pair.AccessToken,
        "double space":     "Bearer  " + pair.AccessToken,
        "empty token":      "Bearer ",
        "trailing junk":    "Bearer " + pair.AccessToken + " extra",
        "basic scheme":     "Basic dXNlcjpwYXNz",
        "refresh token":    "Bearer " + pair.RefreshToken,
        "garbage token":    "Bearer abc.def.ghi",
    } {
        t.Run(name, func(t *testing.T) {
            c, err := runJWT(t, codec, header)
            require.Error(t, err)
            assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
            assert.Equal(t, "guest", userID(c))
        })
    }
}

func TestBearerToken(t *testing.T) {
    tok, ok := bearerToken("Bearer abc")
    assert.True(t, ok)
    assert.Equal(t, "abc", tok)

    _, ok = bearerToken("Bearer a\tb")
    assert.False(t, ok)
}
