package handler

import (
    "errors"
    "fmt"
    "reflect"
    "strconv"
    "strings"

    "github.com/go-playground/validator/v10"

    "github.com/iliyamo/tailor-api/internal/apperr"
)

// embeddedSegment marks embedded request structs in a field namespace so
// they can be dropped from reported paths.
const embeddedSegment = "~"

// FieldIssue describes one failed validation rule.
type FieldIssue struct {
    Field   string `json:"field"`
    Rule    string `json:"rule"`
    Message string `json:"message"`
}

// RequestValidator adapts go-playground/validator to echo.Validator.  Field
// names in reported issues use the JSON names clients send.
type RequestValidator struct {
    v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
    v := validator.New(validator.WithRequiredStructEnabled())
    v.RegisterTagNameFunc(func(f reflect.StructField) string {
        if f.Anonymous {
            return embeddedSegment
        }
        name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
        if name == "-" {
            return ""
        }
        if name == "" {
            return f.Name
        }
        return name
    })
    // maxbytes bounds the encoded length, unlike max which counts runes.
    _ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
        n, err := strconv.Atoi(fl.Param())
        return err == nil && len(fl.Field().String()) <= n
    })
    return &RequestValidator{v: v}
}

// Validate returns an apperr Validation error listing every failed field.
func (rv *RequestValidator) Validate(i any) error {
    err := rv.v.Struct(i)
    if err == nil {
        return nil
    }
    var verrs validator.ValidationErrors
    if !errors.As(err, &verrs) {
        return apperr.Wrap(apperr.KindBadRequest, "Invalid request body", err)
    }
    issues := make([]FieldIssue, 0, len(verrs))
    for _, fe := range verrs {
        issues = append(issues, FieldIssue{
            Field:   fieldPath(fe),
            Rule:    fe.Tag(),
            Message: issueMessage(fe),
        })
    }
    return apperr.Validation("Validation failed", issues)
}

// fieldPath drops the top-level struct name and any embedded structs from
// the namespace, so "registerReq.email" becomes "email" and nested paths
// keep their index ("measurements[0].type").
func fieldPath(fe validator.FieldError) string {
    parts := strings.Split(fe.Namespace(), ".")
    if len(parts) < 2 {
        return fe.Field()
    }
    out := make([]string, 0, len(parts)-1)
    for _, p := range parts[1:] {
        if p != embeddedSegment {
            out = append(out, p)
        }
    }
    return strings.Join(out, ".")
}

func issueMessage(fe validator.FieldError) string {
    switch fe.Tag() {
    case "required":
        return "is required"
    case "email":
        return "must be a valid email address"
    case "uuid":
        return "must be a valid UUID"
    case "min":
        return fmt.Sprintf("must be at least %s characters", fe.Param())
    case "max":
        return fmt.Sprintf("must be at most %s characters", fe.Param())
    case "maxbytes":
        return fmt.Sprintf("must be at most %s bytes", fe.Param())
    case "oneof":
        return "must be one of: " + fe.Param()
    case "numeric":
        return "must contain digits only"
    }
    return "is invalid"
}
