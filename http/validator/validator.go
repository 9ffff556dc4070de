// Package validator validates request bodies for the echo webserver framework.
package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type jsonValidator struct {
	validator *validator.Validate
}

// New returns a new Validator for the echo webserver framework. Errors
// report the JSON names of the fields.
func New() echo.Validator {
	v := &jsonValidator{
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}

	v.validator.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

func (cv *jsonValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
