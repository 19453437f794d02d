// Package validatex wraps go-playground/validator so that failures come
// back as common.ValidationErrors with readable messages.
package validatex

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/dmitrijs2005/dailyquote/internal/common"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Field names in errors come from
// the json tag when there is one.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return strings.ToLower(fld.Name)
			}
			return name
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// Struct validates v by its `validate` tags.
func Struct(v any) error {
	return convert(Validator().Struct(v), "")
}

// Var validates a single value; field names the value in the error.
func Var(field string, value any, tag string) error {
	return convert(Validator().Var(value, tag), field)
}

// convert turns validator errors into common.ValidationErrors. Other
// errors, such as an invalid argument, pass through.
func convert(err error, field string) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(common.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := field
		if name == "" {
			name = fieldPath(fe.Namespace())
		}
		out = append(out, common.NewValidationError(name, message(fe)))
	}
	return out
}

// fieldPath turns "Config.server.addr" into "server.addr".
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}

// message phrases fe for a person.
func message(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + param
	case "url", "http_url":
		return "must be a valid URL"
	case "hostname_port":
		return "must be host:port"
	case "min", "max":
		suffix := ""
		if fe.Kind() == reflect.String {
			suffix = " characters"
		}
		if fe.Tag() == "min" {
			return "must be at least " + param + suffix
		}
		return "must be at most " + param + suffix
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	case "gt":
		return "must be greater than " + param
	case "lt":
		return "must be less than " + param
	default:
		return "failed validation: " + fe.Tag()
	}
}
