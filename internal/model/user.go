package model

import "time"

// User represents an account record as stored in the `users` table.
// Email is always stored trimmed and lower-cased.  PasswordHash is
// excluded from JSON so a User can be returned to clients directly.
//
// Fields:
//  ID           – UUID primary key.
//  FullName     – display name.
//  Email        – unique, normalised email address.
//  PasswordHash – bcrypt hash of the password.
//  Phone        – optional phone number.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           string    `json:"id"`          // users.id
    FullName     string    `json:"fullName"`    // users.full_name
    Email        string    `json:"email"`       // users.email
    PasswordHash string    `json:"-"`           // users.password_hash
    Phone        *string   `json:"phone"`       // users.phone (nullable)
    CreatedAt    time.Time `json:"createdAt"`   // users.created_at
    UpdatedAt    time.Time `json:"updatedAt"`   // users.updated_at
}

// Session models a row in the `user_tokens` table: one outstanding
// refresh token.  The plain token is never stored; TokenHash holds its
// SHA‑256 hex digest.  A session is active while the row exists and
// ExpiresAt is in the future.
type Session struct {
    ID        string    // user_tokens.id
    UserID    string    // user_tokens.user_id
    TokenHash string    // user_tokens.token_hash
    ExpiresAt time.Time // user_tokens.expires_at
    CreatedAt time.Time // user_tokens.created_at
    UpdatedAt time.Time // user_tokens.updated_at
}

// Expired reports whether the session's own expiry has passed at now.
func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }
