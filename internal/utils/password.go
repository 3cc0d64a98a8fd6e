package utils

import "golang.org/x/crypto/bcrypt"

// ErrPasswordTooLong is returned for input bcrypt cannot hash (over 72 bytes).
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
    b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
    if err != nil {
        return "", err
    }
    return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
    return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// PasswordHasher binds a bcrypt cost so services need not carry it.
type PasswordHasher struct{ Cost int }

func NewPasswordHasher(cost int) PasswordHasher {
    if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
        cost = bcrypt.DefaultCost
    }
    return PasswordHasher{Cost: cost}
}

func (h PasswordHasher) Hash(plain string) (string, error) { return HashPassword(plain, h.Cost) }

func (h PasswordHasher) Verify(hash, plain string) bool { return VerifyPassword(hash, plain) }
