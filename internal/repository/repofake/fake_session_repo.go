package repofake

import (
    "context"
    "sync"
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/tailor-api/internal/model"
    "github.com/iliyamo/tailor-api/internal/repository"
    "github.com/iliyamo/tailor-api/internal/utils"
)

// FakeSessionRepo keeps sessions keyed by id and indexed by token hash,
// like the user_tokens table.
type FakeSessionRepo struct {
    sessions map[string]model.Session
    byHash   map[string]string // token hash to session id
    lock     sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
    return &FakeSessionRepo{
        sessions: make(map[string]model.Session),
        byHash:   make(map[string]string),
    }
}

func (sr *FakeSessionRepo) RecordSession(_ context.Context, userID, token string, expiresAt time.Time) (*model.Session, error) {
    sr.lock.Lock()
    defer sr.lock.Unlock()

    now := time.Now().UTC()
    s := model.Session{
        ID:        uuid.NewString(),
        UserID:    userID,
        TokenHash: utils.HashRefreshRaw(token),
        ExpiresAt: expiresAt.UTC(),
        CreatedAt: now,
        UpdatedAt: now,
    }
    sr.sessions[s.ID] = s
    sr.byHash[s.TokenHash] = s.ID
    return &s, nil
}

func (sr *FakeSessionRepo) FindByToken(_ context.Context, token string) (*model.Session, error) {
    sr.lock.RLock()
    defer sr.lock.RUnlock()

    id, ok := sr.byHash[utils.HashRefreshRaw(token)]
    if !ok {
        return nil, repository.ErrSessionNotFound
    }
    s := sr.sessions[id]
    return &s, nil
}

func (sr *FakeSessionRepo) Rotate(_ context.Context, sessionID, oldToken, newToken string, newExpiresAt time.Time) error {
    sr.lock.Lock()
    defer sr.lock.Unlock()

    s, ok := sr.sessions[sessionID]
    if !ok || s.TokenHash != utils.HashRefreshRaw(oldToken) {
        return repository.ErrSessionNotFound
    }
    delete(sr.byHash, s.TokenHash)
    s.TokenHash = utils.HashRefreshRaw(newToken)
    s.ExpiresAt = newExpiresAt.UTC()
    s.UpdatedAt = time.Now().UTC()
    sr.sessions[sessionID] = s
    sr.byHash[s.TokenHash] = sessionID
    return nil
}

func (sr *FakeSessionRepo) Revoke(_ context.Context, token string) (int64, error) {
    sr.lock.Lock()
    defer sr.lock.Unlock()

    h := utils.HashRefreshRaw(token)
    id, ok := sr.byHash[h]
    if !ok {
        return 0, nil
    }
    delete(sr.byHash, h)
    delete(sr.sessions, id)
    return 1, nil
}

func (sr *FakeSessionRepo) RevokeAllForUser(_ context.Context, userID string) (int64, error) {
    sr.lock.Lock()
    defer sr.lock.Unlock()

    var n int64
    for id, s := range sr.sessions {
        if s.UserID == userID {
            delete(sr.byHash, s.TokenHash)
            delete(sr.sessions, id)
            n++
        }
    }
    return n, nil
}

func (sr *FakeSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
    sr.lock.Lock()
    defer sr.lock.Unlock()

    var n int64
    for id, s := range sr.sessions {
        if !s.ExpiresAt.After(now) {
            delete(sr.byHash, s.TokenHash)
            delete(sr.sessions, id)
            n++
        }
    }
    return n, nil
}

// SetExpiry overrides the stored expiry of the session holding token.  It
// returns false when no such session exists.
func (sr *FakeSessionRepo) SetExpiry(token string, expiresAt time.Time) bool {
    sr.lock.Lock()
    defer sr.lock.Unlock()

    id, ok := sr.byHash[utils.HashRefreshRaw(token)]
    if !ok {
        return false
    }
    s := sr.sessions[id]
    s.ExpiresAt = expiresAt
    sr.sessions[id] = s
    return true
}

// Count returns the number of stored sessions.
func (sr *FakeSessionRepo) Count() int {
    sr.lock.RLock()
    defer sr.lock.RUnlock()
    return len(sr.sessions)
}
