package utils

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
    h := NewPasswordHasher(bcrypt.MinCost)

    hash, err := h.Hash("password123")
    require.NoError(t, err)
    assert.NotEqual(t, "password123", hash)
    assert.True(t, h.Verify(hash, "password123"))
    assert.False(t, h.Verify(hash, "password124"))
    assert.False(t, h.Verify("not-a-hash", "password123"))
}

func TestNewPasswordHasherClampsCost(t *testing.T) {
    assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(1).Cost)
    assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(99).Cost)
    assert.Equal(t, 12, NewPasswordHasher(12).Cost)
}
