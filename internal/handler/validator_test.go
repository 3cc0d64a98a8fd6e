package handler

import (
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/tailor-api/internal/apperr"
)

func issuesOf(t *testing.T, err error) []FieldIssue {
    t.Helper()
    var ae *apperr.Error
    require.ErrorAs(t, err, &ae)
    assert.Equal(t, apperr.KindValidation, ae.Kind)
    assert.Equal(t, "Validation failed", ae.Message)
    issues, ok := ae.Meta["errors"].([]FieldIssue)
    require.True(t, ok)
    return issues
}

func TestValidatorAcceptsValidRequest(t *testing.T) {
    v := NewRequestValidator()
    phone := "09121234567"
    assert.NoError(t, v.Validate(&registerReq{
        FullName: "Ada Stitch",
        Email:    "ada@example.com",
        Password: "secret123",
        Phone:    &phone,
    }))
}

func TestValidatorReportsJSONFieldNames(t *testing.T) {
    v := NewRequestValidator()
    issues := issuesOf(t, v.Validate(&loginReq{Email: "nope", Password: "123"}))
    require.Len(t, issues, 2)
    assert.Equal(t, FieldIssue{Field: "email", Rule: "email", Message: "must be a valid email address"}, issues[0])
    assert.Equal(t, FieldIssue{Field: "password", Rule: "min", Message: "must be at least 6 characters"}, issues[1])
}

func TestValidatorOptionalPointers(t *testing.T) {
    v := NewRequestValidator()
    assert.NoError(t, v.Validate(&customerReq{FullName: "Client"}))

    gender := "unknown"
    issues := issuesOf(t, v.Validate(&customerReq{FullName: "Client", Gender: &gender}))
    require.Len(t, issues, 1)
    assert.Equal(t, "gender", issues[0].Field)
    assert.Equal(t, "oneof", issues[0].Rule)
}

func TestValidatorFlattensEmbeddedStructs(t *testing.T) {
    v := NewRequestValidator()
    issues := issuesOf(t, v.Validate(&addMeasurementReq{CustomerID: "x"}))
    fields := make([]string, 0, len(issues))
    for _, is := range issues {
        fields = append(fields, is.Field)
    }
    assert.ElementsMatch(t, []string{"customerId", "type"}, fields)

    issues = issuesOf(t, v.Validate(&customerWithMeasurementsReq{
        customerReq:  customerReq{FullName: "Client"},
        Measurements: []measurementItem{{Type: "shirt"}, {}},
    }))
    require.Len(t, issues, 1)
    assert.Equal(t, "measurements[1].type", issues[0].Field)
}

func TestValidatorCapsPasswordBytes(t *testing.T) {
    v := NewRequestValidator()
    issues := issuesOf(t, v.Validate(&registerReq{
        FullName: "Euro User",
        Email:    "euro@example.com",
        Password: strings.Repeat("€", 30),
    }))
    require.Len(t, issues, 1)
    assert.Equal(t, FieldIssue{Field: "password", Rule: "maxbytes", Message: "must be at most 72 bytes"}, issues[0])

    assert.NoError(t, v.Validate(&registerReq{
        FullName: "Euro User",
        Email:    "euro@example.com",
        Password: strings.Repeat("€", 24),
    }))
}

func TestValidatorPatchRejectsBlankName(t *testing.T) {
    v := NewRequestValidator()
    assert.NoError(t, v.Validate(&customerPatchReq{}))

    blank := "   "
    req := &customerPatchReq{FullName: &blank}
    req.trim()
    issues := issuesOf(t, v.Validate(req))
    require.Len(t, issues, 1)
    assert.Equal(t, "fullName", issues[0].Field)
}
