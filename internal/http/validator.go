package http

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// CreateBookRequest carries the required text fields of a create request.
type CreateBookRequest struct {
	Title       string `validate:"required"`
	Author      string `validate:"required"`
	Description string `validate:"required"`
}

// ValidateRequired returns the lower-cased names of required fields that are
// missing or empty.
func ValidateRequired(s interface{}) []string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var missing []string
	for _, ferr := range err.(validator.ValidationErrors) {
		field := ferr.Field()
		missing = append(missing, strings.ToLower(field[:1])+field[1:])
	}
	return missing
}
