package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// FieldError is one human-readable validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Init registers JSON tag names so error messages reference the wire
// field, not the Go struct field.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// ToDetails converts validator errors into field-level details. Any
// non-validator error falls back to a single generic entry.
func ToDetails(err error) []FieldError {
	var out []FieldError
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid uuid", fe.Field())
	case "min":
		return fmt.Sprintf("%s must have at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must have at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
