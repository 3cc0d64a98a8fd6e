package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/tailor-api/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,full_name,email,password_hash,phone,created_at,updated_at"

// NormalizeEmail trims and lower-cases an address.  Every write and lookup
// goes through it so the unique index compares canonical values.
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Create inserts u.  The caller supplies the id, hash and timestamps.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
    u.Email = NormalizeEmail(u.Email)
    _, err := r.DB.ExecContext(ctx,
        "INSERT INTO users ("+userColumns+") VALUES (?,?,?,?,?,?,?)",
        u.ID, u.FullName, u.Email, u.PasswordHash, u.Phone, u.CreatedAt, u.UpdatedAt)
    if err != nil {
        if isDuplicateKey(err) {
            return ErrEmailExists
        }
        return err
    }
    return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
    row := r.DB.QueryRowContext(ctx,
        "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", NormalizeEmail(email))
    return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
    row := r.DB.QueryRowContext(ctx,
        "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
    return scanUser(row)
}

func scanUser(row *sql.Row) (*model.User, error) {
    var (
        u     model.User
        phone sql.NullString
    )
    err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &phone, &u.CreatedAt, &u.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrUserNotFound
    }
    if err != nil {
        return nil, err
    }
    u.Phone = nullableString(phone)
    return &u, nil
}

func nullableString(ns sql.NullString) *string {
    if !ns.Valid {
        return nil
    }
    s := ns.String
    return &s
}
