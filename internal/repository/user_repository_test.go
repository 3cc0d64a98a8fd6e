package repository

import (
    "context"
    "database/sql"
    "regexp"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/go-sql-driver/mysql"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/tailor-api/internal/model"
)

func TestUserRepoCreateNormalisesEmail(t *testing.T) {
    db, mock := newMock(t)
    repo := NewUserRepo(db)
    now := time.Now().UTC()

    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
        WithArgs("u-1", "Test User", "t@example.com", "hash", nil, now, now).
        WillReturnResult(sqlmock.NewResult(0, 1))

    u := &model.User{ID: "u-1", FullName: "Test User", Email: "  T@Example.COM ", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
    require.NoError(t, repo.Create(context.Background(), u))
    assert.Equal(t, "t@example.com", u.Email)
}

func TestUserRepoCreateDuplicateEmail(t *testing.T) {
    db, mock := newMock(t)
    repo := NewUserRepo(db)

    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
        WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 't@example.com' for key 'uq_users_email'"})

    err := repo.Create(context.Background(), &model.User{ID: "u-1", Email: "t@example.com"})
    assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserRepoGetByEmail(t *testing.T) {
    db, mock := newMock(t)
    repo := NewUserRepo(db)
    now := time.Now().UTC()

    rows := sqlmock.NewRows([]string{"id", "full_name", "email", "password_hash", "phone", "created_at", "updated_at"}).
        AddRow("u-1", "Test User", "t@example.com", "hash", "0123456789", now, now)
    mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=?")).
        WithArgs("t@example.com").
        WillReturnRows(rows)

    u, err := repo.GetByEmail(context.Background(), "T@example.com")
    require.NoError(t, err)
    assert.Equal(t, "u-1", u.ID)
    require.NotNil(t, u.Phone)
    assert.Equal(t, "0123456789", *u.Phone)
}

func TestUserRepoGetByIDNotFound(t *testing.T) {
    db, mock := newMock(t)
    repo := NewUserRepo(db)

    mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id=?")).
        WithArgs("nope").
        WillReturnError(sql.ErrNoRows)

    _, err := repo.GetByID(context.Background(), "nope")
    assert.ErrorIs(t, err, ErrUserNotFound)
}
