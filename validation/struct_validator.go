package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/2mushr00m/dialLog/errors"
)

var structValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(tagName)
	return v
})

// tagName reports fields by their mapstructure key so messages match the
// config file.
func tagName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
	switch name {
	case "", "-":
		return toSnakeCase(fld.Name)
	}
	return name
}

// Validate checks s against its `validate` tags, e.g.
// `validate:"omitempty,oneof=file redis"`. Failures are collected into one
// INVALID_INPUT error listing every field.
func Validate(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.Validation("validation failed").WithCause(err)
	}

	v := New()
	for _, fe := range fieldErrs {
		v.AddError(fieldPath(fe.Namespace()), describe(fe))
	}
	return v.Validate()
}

// fieldPath drops the root type: "Config.cache.max_entries" -> "cache.max_entries".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

var tagMessages = map[string]string{
	"required":      "is required",
	"min":           "must be at least ",
	"gte":           "must be at least ",
	"max":           "must be at most ",
	"lte":           "must be at most ",
	"gt":            "must be greater than ",
	"oneof":         "must be one of: ",
	"url":           "must be a valid URL",
	"hostname_port": "must be host:port",
}

func describe(fe validator.FieldError) string {
	msg, ok := tagMessages[fe.Tag()]
	if !ok {
		return "is invalid"
	}
	if strings.HasSuffix(msg, " ") {
		return msg + fe.Param()
	}
	return msg
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
