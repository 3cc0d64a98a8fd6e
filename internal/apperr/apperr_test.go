package apperr

import (
    "errors"
    "fmt"
    "net/http"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestKindStatusTable(t *testing.T) {
    tests := []struct {
        kind   Kind
        status int
        code   string
    }{
        {KindBadRequest, http.StatusBadRequest, "BAD_REQUEST"},
        {KindValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
        {KindUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
        {KindForbidden, http.StatusForbidden, "FORBIDDEN"},
        {KindNotFound, http.StatusNotFound, "NOT_FOUND"},
        {KindMethodNotAllowed, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
        {KindConflict, http.StatusConflict, "CONFLICT"},
        {KindUnsupportedMediaType, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE"},
        {KindUnprocessableEntity, http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY"},
        {KindTooManyRequests, http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
        {KindInternal, http.StatusInternalServerError, "INTERNAL_ERROR"},
        {KindServiceUnavailable, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
        {KindTimeout, http.StatusGatewayTimeout, "TIMEOUT"},
    }
    for _, tt := range tests {
        t.Run(tt.code, func(t *testing.T) {
            assert.Equal(t, tt.status, tt.kind.Status())
            assert.Equal(t, tt.code, tt.kind.Code())
        })
    }
}

func TestKindFromStatus(t *testing.T) {
    assert.Equal(t, KindNotFound, KindFromStatus(http.StatusNotFound))
    assert.Equal(t, KindMethodNotAllowed, KindFromStatus(http.StatusMethodNotAllowed))
    assert.Equal(t, KindBadRequest, KindFromStatus(http.StatusRequestEntityTooLarge))
    assert.Equal(t, KindInternal, KindFromStatus(http.StatusBadGateway))
}

func TestNewUsesDefaultMessage(t *testing.T) {
    e := New(KindForbidden, "")
    assert.Equal(t, "Forbidden", e.Message)
    assert.Equal(t, http.StatusForbidden, e.Status())
}

func TestFromUnwrapsChain(t *testing.T) {
    base := NotFound("Customer not found")
    wrapped := fmt.Errorf("get customer: %w", base)

    got := From(wrapped)
    require.NotNil(t, got)
    assert.Same(t, base, got)
    assert.True(t, IsKind(wrapped, KindNotFound))
    assert.False(t, IsKind(wrapped, KindForbidden))
}

func TestFromWrapsUnknownAsInternal(t *testing.T) {
    cause := errors.New("connection reset")
    got := From(cause)

    assert.Equal(t, KindInternal, got.Kind)
    assert.Equal(t, "Internal Server Error", got.Message)
    assert.ErrorIs(t, got, cause)
    assert.Nil(t, From(nil))
}

func TestValidationCarriesIssues(t *testing.T) {
    issues := []string{"email: email"}
    e := Validation("Validation failed", issues)

    assert.Equal(t, KindValidation, e.Kind)
    assert.Equal(t, issues, e.Meta["errors"])
}
