// Package validate runs request-body validation and shapes rule violations
// into user-facing "<field>: <description>" messages. Each endpoint selects
// its own Formatter, so signup and login can shape messages differently.
package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their json name, which is what clients sent.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

// Struct validates dst against its `validate` tags. On failure the error is a
// validator.ValidationErrors listing violations in struct field order.
func Struct(dst any) error {
	return v.Struct(dst)
}

// Kind classifies a rule violation. Validator tag names are translated here,
// in exactly one place; formatters switch on the closed set.
type Kind int

const (
	KindOther Kind = iota
	KindRequired
	KindEmail
	KindMinLength
	KindMaxLength
)

func kindOf(fe validator.FieldError) Kind {
	switch fe.Tag() {
	case "required":
		return KindRequired
	case "email":
		return KindEmail
	case "min":
		return KindMinLength
	case "max":
		return KindMaxLength
	default:
		return KindOther
	}
}

// descriptions holds the generic text for rule kinds without a parameterized
// message. Kinds missing here render with an empty description.
var descriptions = map[Kind]string{
	KindRequired: "field is required.",
}

func describe(k Kind) string {
	return descriptions[k]
}

// Formatter turns rule violations into an ordered message list.
type Formatter interface {
	Messages(errs validator.ValidationErrors) []string
}

// DefaultFormatter reports each violated length bound as-is: minimum-length
// violations name the configured minimum, maximum-length violations the
// configured maximum.
type DefaultFormatter struct{}

func (DefaultFormatter) Messages(errs validator.ValidationErrors) []string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, defaultMessage(fe))
	}
	return msgs
}

func defaultMessage(fe validator.FieldError) string {
	switch kindOf(fe) {
	case KindMinLength:
		return fmt.Sprintf("%s: minimum length is %s characters.", fe.Field(), fe.Param())
	case KindMaxLength:
		return fmt.Sprintf("%s: maximum length is %s characters.", fe.Field(), fe.Param())
	case KindEmail:
		return fmt.Sprintf("%s: %v is not a valid email.", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s: %s", fe.Field(), describe(kindOf(fe)))
	}
}

// SignupFormatter reproduces the signup endpoint's historical shaping: every
// length violation is reported as a minimum-length message, using the field's
// configured minimum, or 0 for fields that only carry a maximum.
type SignupFormatter struct {
	minBounds map[string]int
}

// NewSignupFormatter takes the per-field minimum bounds declared on the
// signup request so maximum-length violations can still name a minimum.
func NewSignupFormatter(minBounds map[string]int) SignupFormatter {
	return SignupFormatter{minBounds: minBounds}
}

func (f SignupFormatter) Messages(errs validator.ValidationErrors) []string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch kindOf(fe) {
		case KindMinLength:
			msgs = append(msgs, fmt.Sprintf("%s: minimum length is %s characters.", fe.Field(), fe.Param()))
		case KindMaxLength:
			msgs = append(msgs, fmt.Sprintf("%s: minimum length is %d characters.", fe.Field(), f.minBounds[fe.Field()]))
		case KindEmail:
			msgs = append(msgs, fmt.Sprintf("%s: %v is not a valid email.", fe.Field(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), describe(kindOf(fe))))
		}
	}
	return msgs
}
