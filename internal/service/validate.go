// Package service holds the business rules behind each endpoint.
//
// Services accept plain Go values and return *apperror.AppError for every
// outcome a client should see, so handlers only translate kinds to status
// codes. Unexpected storage errors are logged here, with their cause, and
// replaced by an apperror.Internal carrying a fixed user-safe message.
package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/lms-admin/internal/apperror"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names ("firstName") rather than Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkInput runs the struct's validate tags. Any failure becomes a
// validation error with the operation's fixed message; the first failing
// field is recorded for logs.
func checkInput(in any, message string) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	field := ""
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		field = ve[0].Field()
	}
	return apperror.ValidationFailed(field, message)
}
