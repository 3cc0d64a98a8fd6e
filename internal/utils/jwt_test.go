package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/tailor-api/internal/config"
)

func testCodec() *TokenCodec {
    return NewTokenCodec(config.TokenConfig{
        AccessSecret:  "access-secret",
        RefreshSecret: "refresh-secret",
        AccessTTL:     15 * time.Minute,
        RefreshTTL:    7 * 24 * time.Hour,
        Issuer:        "tailor-api",
    })
}

func TestIssueAndVerify(t *testing.T) {
    c := testCodec()
    id := Identity{UserID: "u-1", Email: "t@example.com"}

    pair, err := c.Issue(id)
    require.NoError(t, err)
    assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
    assert.WithinDuration(t, time.Now().Add(15*time.Minute), pair.AccessExpiresAt, 5*time.Second)
    assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), pair.RefreshExpiresAt, 5*time.Second)

    got, err := c.VerifyAccess(pair.AccessToken)
    require.NoError(t, err)
    assert.Equal(t, id, got)

    got, err = c.VerifyRefresh(pair.RefreshToken)
    require.NoError(t, err)
    assert.Equal(t, id, got)
}

func TestTokenClassesAreNotInterchangeable(t *testing.T) {
    c := testCodec()
    pair, err := c.Issue(Identity{UserID: "u-1", Email: "t@example.com"})
    require.NoError(t, err)

    _, err = c.VerifyRefresh(pair.AccessToken)
    assert.ErrorIs(t, err, ErrInvalidToken)
    _, err = c.VerifyAccess(pair.RefreshToken)
    assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSameSecretStillChecksType(t *testing.T) {
    c := NewTokenCodec(config.TokenConfig{AccessSecret: "same", RefreshSecret: "same", AccessTTL: time.Minute, RefreshTTL: time.Hour})
    pair, err := c.Issue(Identity{UserID: "u-1"})
    require.NoError(t, err)

    _, err = c.VerifyAccess(pair.RefreshToken)
    assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueAlwaysProducesNewTokens(t *testing.T) {
    c := testCodec()
    frozen := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
    c.now = func() time.Time { return frozen }
    id := Identity{UserID: "u-1", Email: "t@example.com"}

    a, err := c.Issue(id)
    require.NoError(t, err)
    b, err := c.Issue(id)
    require.NoError(t, err)
    assert.NotEqual(t, a.RefreshToken, b.RefreshToken)
    assert.NotEqual(t, a.AccessToken, b.AccessToken)
}

func TestVerifyExpired(t *testing.T) {
    c := testCodec()
    issued := time.Now().UTC().Add(-time.Hour)
    c.now = func() time.Time { return issued }
    pair, err := c.Issue(Identity{UserID: "u-1"})
    require.NoError(t, err)

    c.now = func() time.Time { return time.Now().UTC() }
    _, err = c.VerifyAccess(pair.AccessToken)
    assert.ErrorIs(t, err, ErrTokenExpired)
    // The refresh token is still within its week.
    _, err = c.VerifyRefresh(pair.RefreshToken)
    assert.NoError(t, err)
}

func TestVerifyRejectsTamperingAndForeignTokens(t *testing.T) {
    c := testCodec()
    pair, err := c.Issue(Identity{UserID: "u-1"})
    require.NoError(t, err)

    noneTok, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
        Type:             TypeAccess,
        RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1", Issuer: "tailor-api", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
    }).SignedString(jwt.UnsafeAllowNoneSignatureType)
    require.NoError(t, err)

    other := NewTokenCodec(config.TokenConfig{AccessSecret: "other", RefreshSecret: "other-r", AccessTTL: time.Minute, RefreshTTL: time.Hour, Issuer: "tailor-api"})
    foreign, err := other.Issue(Identity{UserID: "u-1"})
    require.NoError(t, err)

    noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
        Type:             TypeAccess,
        RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1", Issuer: "tailor-api"},
    }).SignedString([]byte("access-secret"))
    require.NoError(t, err)

    tests := map[string]string{
        "garbage":      "not-a-jwt",
        "empty":        "",
        "truncated":    pair.AccessToken[:len(pair.AccessToken)-4],
        "alg none":     noneTok,
        "wrong secret": foreign.AccessToken,
        "missing exp":  noExp,
    }
    for name, raw := range tests {
        t.Run(name, func(t *testing.T) {
            _, err := c.VerifyAccess(raw)
            assert.ErrorIs(t, err, ErrInvalidToken)
        })
    }
}

func TestHashRefreshRaw(t *testing.T) {
    h := HashRefreshRaw("abc")
    assert.Len(t, h, 64)
    assert.Equal(t, h, HashRefreshRaw("abc"))
    assert.NotEqual(t, h, HashRefreshRaw("abd"))
}
