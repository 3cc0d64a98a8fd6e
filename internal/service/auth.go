// Package service holds the business logic: the authentication state
// machine and the ownership-scoped customer/measurement operations.  It
// depends on store interfaces so the MySQL repositories and the in-memory
// fakes are interchangeable.
package service

import (
    "context"
    "errors"
    "time"

    "github.com/google/uuid"
    "github.com/rs/zerolog/log"

    "github.com/iliyamo/tailor-api/internal/apperr"
    "github.com/iliyamo/tailor-api/internal/metrics"
    "github.com/iliyamo/tailor-api/internal/model"
    "github.com/iliyamo/tailor-api/internal/queue"
    "github.com/iliyamo/tailor-api/internal/repository"
    "github.com/iliyamo/tailor-api/internal/utils"
)

// Client-facing messages.  Login uses one message for every failure so the
// response does not reveal whether the email exists.
const (
    msgInvalidCredentials = "Invalid email or password"
    msgEmailTaken         = "User with this email already exists"
    msgInvalidRefresh     = "Invalid or expired refresh token"
    msgRefreshExpired     = "Refresh token has expired, please log in again"
    msgAlreadyLoggedOut   = "Token already invalid or expired"
    msgUserGone           = "User no longer exists"
    msgPasswordTooLong    = "Password must be at most 72 bytes"
)

type UserStore interface {
    Create(ctx context.Context, u *model.User) error
    GetByEmail(ctx context.Context, email string) (*model.User, error)
    GetByID(ctx context.Context, id string) (*model.User, error)
}

type SessionStore interface {
    RecordSession(ctx context.Context, userID, token string, expiresAt time.Time) (*model.Session, error)
    FindByToken(ctx context.Context, token string) (*model.Session, error)
    Rotate(ctx context.Context, sessionID, oldToken, newToken string, newExpiresAt time.Time) error
    Revoke(ctx context.Context, token string) (int64, error)
    RevokeAllForUser(ctx context.Context, userID string) (int64, error)
    DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type PasswordHasher interface {
    Hash(plain string) (string, error)
    Verify(hash, plain string) bool
}

type TokenCodec interface {
    Issue(id utils.Identity) (utils.TokenPair, error)
    VerifyRefresh(raw string) (utils.Identity, error)
}

// RegisterInput is a validated registration request.
type RegisterInput struct {
    FullName string
    Email    string
    Password string
    Phone    *string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
    Tokens utils.TokenPair
    User   *model.User
}

// AuthService implements register, login, refresh rotation and logout.
type AuthService struct {
    users    UserStore
    sessions SessionStore
    hasher   PasswordHasher
    codec    TokenCodec
    events   EventPublisher
    now      func() time.Time
}

func NewAuthService(users UserStore, sessions SessionStore, hasher PasswordHasher, codec TokenCodec, events EventPublisher) *AuthService {
    if events == nil {
        events = NoopPublisher{}
    }
    return &AuthService{
        users:    users,
        sessions: sessions,
        hasher:   hasher,
        codec:    codec,
        events:   events,
        now:      func() time.Time { return time.Now().UTC() },
    }
}

// Register creates a user.  The email is normalised first, so two
// registrations that differ only in case or surrounding spaces collide.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
    email := repository.NormalizeEmail(in.Email)

    if _, err := s.users.GetByEmail(ctx, email); err == nil {
        metrics.Auth("register", "conflict")
        return nil, apperr.Conflict(msgEmailTaken)
    } else if !errors.Is(err, repository.ErrUserNotFound) {
        return nil, apperr.Internal(err)
    }

    hash, err := s.hasher.Hash(in.Password)
    if errors.Is(err, utils.ErrPasswordTooLong) {
        return nil, apperr.Wrap(apperr.KindBadRequest, msgPasswordTooLong, err)
    }
    if err != nil {
        return nil, apperr.Internal(err)
    }
    now := s.now()
    u := &model.User{
        ID:           uuid.NewString(),
        FullName:     in.FullName,
        Email:        email,
        PasswordHash: hash,
        Phone:        in.Phone,
        CreatedAt:    now,
        UpdatedAt:    now,
    }
    if err := s.users.Create(ctx, u); err != nil {
        if errors.Is(err, repository.ErrEmailExists) {
            // lost a race with a concurrent registration
            metrics.Auth("register", "conflict")
            return nil, apperr.Conflict(msgEmailTaken)
        }
        return nil, apperr.Internal(err)
    }

    metrics.Auth("register", "success")
    log.Info().Str("user_id", u.ID).Msg("user registered")
    s.events.Publish(ctx, queue.AuditEvent{Type: queue.EventUserRegistered, UserID: u.ID, Email: u.Email, At: now})
    return u, nil
}

// Login verifies credentials, issues a token pair and records the refresh
// token as a new session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
    email = repository.NormalizeEmail(email)

    u, err := s.users.GetByEmail(ctx, email)
    if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
        return nil, apperr.Internal(err)
    }
    if u == nil || !s.hasher.Verify(u.PasswordHash, password) {
        metrics.Auth("login", "failure")
        log.Info().Str("email", email).Msg("login rejected")
        s.events.Publish(ctx, queue.AuditEvent{Type: queue.EventLoginFailed, Email: email, At: s.now()})
        return nil, apperr.Unauthorized(msgInvalidCredentials)
    }

    pair, err := s.codec.Issue(utils.Identity{UserID: u.ID, Email: u.Email})
    if err != nil {
        return nil, apperr.Internal(err)
    }
    sess, err := s.sessions.RecordSession(ctx, u.ID, pair.RefreshToken, pair.RefreshExpiresAt)
    if err != nil {
        return nil, apperr.Internal(err)
    }

    metrics.Auth("login", "success")
    log.Info().Str("user_id", u.ID).Str("session_id", sess.ID).Msg("user logged in")
    s.events.Publish(ctx, queue.AuditEvent{Type: queue.EventSessionCreated, UserID: u.ID, Email: u.Email, SubjectID: sess.ID, At: s.now()})
    return &LoginResult{Tokens: pair, User: u}, nil
}

// Refresh exchanges an active refresh token for a new pair and rotates the
// session row in place, so the presented token cannot be used again.
//
// A token that fails verification, has no row, or loses a concurrent
// rotation is Unauthorized.  A row whose own expiry has passed is Forbidden.
func (s *AuthService) Refresh(ctx context.Context, token string) (utils.TokenPair, error) {
    id, err := s.codec.VerifyRefresh(token)
    if err != nil {
        metrics.Auth("refresh", "invalid")
        return utils.TokenPair{}, apperr.Unauthorized(msgInvalidRefresh)
    }

    sess, err := s.sessions.FindByToken(ctx, token)
    if errors.Is(err, repository.ErrSessionNotFound) {
        metrics.Auth("refresh", "revoked")
        return utils.TokenPair{}, apperr.Unauthorized(msgInvalidRefresh)
    }
    if err != nil {
        return utils.TokenPair{}, apperr.Internal(err)
    }
    if sess.UserID != id.UserID {
        metrics.Auth("refresh", "invalid")
        return utils.TokenPair{}, apperr.Unauthorized(msgInvalidRefresh)
    }
    if sess.Expired(s.now()) {
        metrics.Auth("refresh", "expired")
        return utils.TokenPair{}, apperr.Forbidden(msgRefreshExpired)
    }

    u, err := s.users.GetByID(ctx, sess.UserID)
    if errors.Is(err, repository.ErrUserNotFound) {
        return utils.TokenPair{}, apperr.Unauthorized(msgUserGone)
    }
    if err != nil {
        return utils.TokenPair{}, apperr.Internal(err)
    }

    pair, err := s.codec.Issue(utils.Identity{UserID: u.ID, Email: u.Email})
    if err != nil {
        return utils.TokenPair{}, apperr.Internal(err)
    }
    if err := s.sessions.Rotate(ctx, sess.ID, token, pair.RefreshToken, pair.RefreshExpiresAt); err != nil {
        if errors.Is(err, repository.ErrSessionNotFound) {
            metrics.Auth("refresh", "revoked")
            return utils.TokenPair{}, apperr.Unauthorized(msgInvalidRefresh)
        }
        return utils.TokenPair{}, apperr.Internal(err)
    }

    metrics.Auth("refresh", "success")
    log.Debug().Str("user_id", u.ID).Str("session_id", sess.ID).Msg("session rotated")
    s.events.Publish(ctx, queue.AuditEvent{Type: queue.EventSessionRotated, UserID: u.ID, SubjectID: sess.ID, At: s.now()})
    return pair, nil
}

// Logout deletes the session holding token.  A second logout with the same
// token finds nothing to delete and is reported as Unauthorized.
func (s *AuthService) Logout(ctx context.Context, token string) error {
    n, err := s.sessions.Revoke(ctx, token)
    if err != nil {
        return apperr.Internal(err)
    }
    if n == 0 {
        metrics.Auth("logout", "unknown")
        return apperr.Unauthorized(msgAlreadyLoggedOut)
    }
    metrics.Auth("logout", "success")
    s.events.Publish(ctx, queue.AuditEvent{Type: queue.EventSessionRevoked, At: s.now()})
    return nil
}

// LogoutAll deletes every session of userID and returns how many there were.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) (int64, error) {
    n, err := s.sessions.RevokeAllForUser(ctx, userID)
    if err != nil {
        return 0, apperr.Internal(err)
    }
    metrics.Auth("logout_all", "success")
    log.Info().Str("user_id", userID).Int64("revoked", n).Msg("all sessions revoked")
    s.events.Publish(ctx, queue.AuditEvent{Type: queue.EventSessionsRevokedAll, UserID: userID, At: s.now()})
    return n, nil
}

// Profile loads the authenticated user.  A valid access token for a user
// that no longer exists is Unauthorized.
func (s *AuthService) Profile(ctx context.Context, userID string) (*model.User, error) {
    u, err := s.users.GetByID(ctx, userID)
    if errors.Is(err, repository.ErrUserNotFound) {
        return nil, apperr.Unauthorized(msgUserGone)
    }
    if err != nil {
        return nil, apperr.Internal(err)
    }
    return u, nil
}
