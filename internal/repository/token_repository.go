package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/tailor-api/internal/model"
    "github.com/iliyamo/tailor-api/internal/utils"
)

// TokenRepo persists refresh-token sessions in user_tokens.  Only the
// SHA-256 digest of each token is stored; every method that takes a raw
// token hashes it before touching the table.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// RecordSession inserts a new session row for userID.
func (r *TokenRepo) RecordSession(ctx context.Context, userID, token string, expiresAt time.Time) (*model.Session, error) {
    now := time.Now().UTC()
    s := &model.Session{
        ID:        uuid.NewString(),
        UserID:    userID,
        TokenHash: utils.HashRefreshRaw(token),
        ExpiresAt: expiresAt.UTC(),
        CreatedAt: now,
        UpdatedAt: now,
    }
    _, err := r.DB.ExecContext(ctx,
        "INSERT INTO user_tokens (id, user_id, token_hash, expires_at, created_at, updated_at) VALUES (?,?,?,?,?,?)",
        s.ID, s.UserID, s.TokenHash, s.ExpiresAt, s.CreatedAt, s.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return s, nil
}

// FindByToken returns the session whose hash matches token, expired or
// not.  Deciding what an expired row means is up to the caller.
func (r *TokenRepo) FindByToken(ctx context.Context, token string) (*model.Session, error) {
    var s model.Session
    err := r.DB.QueryRowContext(ctx,
        "SELECT id, user_id, token_hash, expires_at, created_at, updated_at FROM user_tokens WHERE token_hash=? LIMIT 1",
        utils.HashRefreshRaw(token)).Scan(&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrSessionNotFound
    }
    if err != nil {
        return nil, err
    }
    return &s, nil
}

// Rotate replaces the token and expiry of one session in place.  The
// update only matches while the row still holds oldToken, so of two
// concurrent refreshes with the same token exactly one wins; the loser
// gets ErrSessionNotFound.
func (r *TokenRepo) Rotate(ctx context.Context, sessionID, oldToken, newToken string, newExpiresAt time.Time) error {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE user_tokens SET token_hash=?, expires_at=?, updated_at=? WHERE id=? AND token_hash=?",
        utils.HashRefreshRaw(newToken), newExpiresAt.UTC(), time.Now().UTC(), sessionID, utils.HashRefreshRaw(oldToken))
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrSessionNotFound
    }
    return nil
}

// Revoke deletes the session holding token and reports how many rows went.
func (r *TokenRepo) Revoke(ctx context.Context, token string) (int64, error) {
    res, err := r.DB.ExecContext(ctx,
        "DELETE FROM user_tokens WHERE token_hash=?", utils.HashRefreshRaw(token))
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// RevokeAllForUser deletes every session of the user.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
    res, err := r.DB.ExecContext(ctx,
        "DELETE FROM user_tokens WHERE user_id=?", userID)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// DeleteExpired removes sessions whose expiry is at or before now.
func (r *TokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
    res, err := r.DB.ExecContext(ctx,
        "DELETE FROM user_tokens WHERE expires_at <= ?", now.UTC())
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}
