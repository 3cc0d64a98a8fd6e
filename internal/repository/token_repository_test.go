package repository

import (
    "context"
    "database/sql"
    "errors"
    "regexp"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/tailor-api/internal/utils"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() {
        assert.NoError(t, mock.ExpectationsWereMet())
        db.Close()
    })
    return db, mock
}

func TestTokenRepoRecordSessionStoresHash(t *testing.T) {
    db, mock := newMock(t)
    repo := NewTokenRepo(db)
    exp := time.Now().Add(time.Hour)

    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_tokens")).
        WithArgs(sqlmock.AnyArg(), "user-1", utils.HashRefreshRaw("raw-token"), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
        WillReturnResult(sqlmock.NewResult(0, 1))

    s, err := repo.RecordSession(context.Background(), "user-1", "raw-token", exp)
    require.NoError(t, err)
    assert.NotEmpty(t, s.ID)
    assert.Equal(t, "user-1", s.UserID)
    assert.Equal(t, utils.HashRefreshRaw("raw-token"), s.TokenHash)
    assert.True(t, s.ExpiresAt.Equal(exp.UTC()))
}

func TestTokenRepoFindByTokenNotFound(t *testing.T) {
    db, mock := newMock(t)
    repo := NewTokenRepo(db)

    mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, token_hash, expires_at, created_at, updated_at FROM user_tokens WHERE token_hash=?")).
        WithArgs(utils.HashRefreshRaw("missing")).
        WillReturnError(sql.ErrNoRows)

    _, err := repo.FindByToken(context.Background(), "missing")
    assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestTokenRepoFindByToken(t *testing.T) {
    db, mock := newMock(t)
    repo := NewTokenRepo(db)
    now := time.Now().UTC()

    rows := sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "created_at", "updated_at"}).
        AddRow("s-1", "user-1", utils.HashRefreshRaw("tok"), now.Add(time.Hour), now, now)
    mock.ExpectQuery(regexp.QuoteMeta("FROM user_tokens WHERE token_hash=?")).
        WithArgs(utils.HashRefreshRaw("tok")).
        WillReturnRows(rows)

    s, err := repo.FindByToken(context.Background(), "tok")
    require.NoError(t, err)
    assert.Equal(t, "s-1", s.ID)
    assert.False(t, s.Expired(now))
}

func TestTokenRepoRotate(t *testing.T) {
    tests := []struct {
        name     string
        affected int64
        wantErr  error
    }{
        {"row rotated", 1, nil},
        {"lost race", 0, ErrSessionNotFound},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            db, mock := newMock(t)
            repo := NewTokenRepo(db)

            mock.ExpectExec(regexp.QuoteMeta("UPDATE user_tokens SET token_hash=?, expires_at=?, updated_at=? WHERE id=? AND token_hash=?")).
                WithArgs(utils.HashRefreshRaw("new"), sqlmock.AnyArg(), sqlmock.AnyArg(), "s-1", utils.HashRefreshRaw("old")).
                WillReturnResult(sqlmock.NewResult(0, tt.affected))

            err := repo.Rotate(context.Background(), "s-1", "old", "new", time.Now().Add(time.Hour))
            if tt.wantErr == nil {
                assert.NoError(t, err)
            } else {
                assert.ErrorIs(t, err, tt.wantErr)
            }
        })
    }
}

func TestTokenRepoRevokeReportsCount(t *testing.T) {
    db, mock := newMock(t)
    repo := NewTokenRepo(db)

    mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_tokens WHERE token_hash=?")).
        WithArgs(utils.HashRefreshRaw("tok")).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_tokens WHERE token_hash=?")).
        WithArgs(utils.HashRefreshRaw("tok")).
        WillReturnResult(sqlmock.NewResult(0, 0))

    n, err := repo.Revoke(context.Background(), "tok")
    require.NoError(t, err)
    assert.EqualValues(t, 1, n)

    n, err = repo.Revoke(context.Background(), "tok")
    require.NoError(t, err)
    assert.EqualValues(t, 0, n)
}

func TestTokenRepoDeleteExpired(t *testing.T) {
    db, mock := newMock(t)
    repo := NewTokenRepo(db)

    mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_tokens WHERE expires_at <= ?")).
        WithArgs(sqlmock.AnyArg()).
        WillReturnResult(sqlmock.NewResult(0, 3))

    n, err := repo.DeleteExpired(context.Background(), time.Now())
    require.NoError(t, err)
    assert.EqualValues(t, 3, n)
}

func TestTokenRepoPropagatesDriverErrors(t *testing.T) {
    db, mock := newMock(t)
    repo := NewTokenRepo(db)
    boom := errors.New("connection reset")

    mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_tokens WHERE user_id=?")).
        WithArgs("user-1").
        WillReturnError(boom)

    _, err := repo.RevokeAllForUser(context.Background(), "user-1")
    assert.ErrorIs(t, err, boom)
}
