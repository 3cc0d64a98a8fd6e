package utils // package utils provides token signing, verification and hashing helpers

import (
    "crypto/sha256" // SHA‑256 hashing for refresh tokens at rest
    "encoding/hex"  // hex encoding of digests
    "errors"        // sentinel errors for verification failures
    "time"          // token lifetimes

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
    "github.com/google/uuid"       // random token ids (jti)

    "github.com/iliyamo/tailor-api/internal/config" // token secrets and TTLs
)

// Token types carried in the "typ" claim.  A refresh token presented as an
// access token (or the reverse) is rejected even if the secrets were ever
// configured identically.
const (
    TypeAccess  = "access"
    TypeRefresh = "refresh"
)

var (
    // ErrInvalidToken covers bad signatures, wrong algorithms, wrong token
    // type and missing claims.
    ErrInvalidToken = errors.New("invalid token")
    // ErrTokenExpired is returned when the exp claim has passed.
    ErrTokenExpired = errors.New("token expired")
)

// Identity is the authenticated principal carried inside every token.
type Identity struct {
    UserID string
    Email  string
    Role   string // optional
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
    AccessToken      string
    AccessExpiresAt  time.Time
    RefreshToken     string
    RefreshExpiresAt time.Time
}

// Claims is the JWT payload used for both token classes.
type Claims struct {
    Email string `json:"email"`
    Role  string `json:"role,omitempty"`
    Type  string `json:"typ"`
    jwt.RegisteredClaims
}

// TokenCodec signs and verifies access and refresh tokens.  Each class has
// its own HMAC secret.  A TokenCodec is immutable and safe for concurrent
// use.
type TokenCodec struct {
    accessSecret  []byte
    refreshSecret []byte
    accessTTL     time.Duration
    refreshTTL    time.Duration
    issuer        string
    now           func() time.Time
}

// NewTokenCodec builds a codec from the token section of the configuration.
func NewTokenCodec(cfg config.TokenConfig) *TokenCodec {
    return &TokenCodec{
        accessSecret:  []byte(cfg.AccessSecret),
        refreshSecret: []byte(cfg.RefreshSecret),
        accessTTL:     cfg.AccessTTL,
        refreshTTL:    cfg.RefreshTTL,
        issuer:        cfg.Issuer,
        now:           func() time.Time { return time.Now().UTC() },
    }
}

// Issue signs a fresh access token and a fresh refresh token for id.  Every
// token carries a random jti, so two pairs issued in the same second still
// differ.
func (c *TokenCodec) Issue(id Identity) (TokenPair, error) {
    now := c.now()
    access, accessExp, err := c.sign(id, TypeAccess, c.accessSecret, now, c.accessTTL)
    if err != nil {
        return TokenPair{}, err
    }
    refresh, refreshExp, err := c.sign(id, TypeRefresh, c.refreshSecret, now, c.refreshTTL)
    if err != nil {
        return TokenPair{}, err
    }
    return TokenPair{
        AccessToken:      access,
        AccessExpiresAt:  accessExp,
        RefreshToken:     refresh,
        RefreshExpiresAt: refreshExp,
    }, nil
}

func (c *TokenCodec) sign(id Identity, typ string, secret []byte, now time.Time, ttl time.Duration) (string, time.Time, error) {
    exp := now.Add(ttl)
    claims := Claims{
        Email: id.Email,
        Role:  id.Role,
        Type:  typ,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   id.UserID,
            Issuer:    c.issuer,
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
            ID:        uuid.NewString(),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
    if err != nil {
        return "", time.Time{}, err
    }
    return signed, exp, nil
}

// VerifyAccess checks an access token and returns its identity.
func (c *TokenCodec) VerifyAccess(raw string) (Identity, error) {
    return c.verify(raw, TypeAccess, c.accessSecret)
}

// VerifyRefresh checks a refresh token and returns its identity.
func (c *TokenCodec) VerifyRefresh(raw string) (Identity, error) {
    return c.verify(raw, TypeRefresh, c.refreshSecret)
}

func (c *TokenCodec) verify(raw, typ string, secret []byte) (Identity, error) {
    opts := []jwt.ParserOption{
        jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
        jwt.WithExpirationRequired(),
        jwt.WithTimeFunc(c.now),
    }
    if c.issuer != "" {
        opts = append(opts, jwt.WithIssuer(c.issuer))
    }
    var claims Claims
    _, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
        return secret, nil
    }, opts...)
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return Identity{}, ErrTokenExpired
        }
        return Identity{}, ErrInvalidToken
    }
    if claims.Type != typ || claims.Subject == "" {
        return Identity{}, ErrInvalidToken
    }
    return Identity{UserID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}

// HashRefreshRaw returns the SHA‑256 hash of the raw refresh token as a hex
// string.  Only this digest is written to user_tokens, so a copy of the
// table cannot be replayed against the refresh endpoint.
func HashRefreshRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}
