// Package validate interprets the declarative field rules carried by DTO
// structs. Each resource declares its rules once as validator tags plus a
// human label; this package turns the first violation into a classified
// validation error with an Indonesian message, mirroring how the persistence
// boundary short-circuits on the first bad field.
package validate

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kasira/kasira/internal/shared/apperr"
)

var phonePattern = regexp.MustCompile(`^[0-9+\-\s()]+$`)

// Validator wraps a single shared validator instance.
type Validator struct {
	validate *validator.Validate
}

// New constructs the shared Validator with domain rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Phone numbers admit digits, +, -, spaces and parentheses.
	_ = v.RegisterValidation("phonechars", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	// Resolve field labels from the `label` tag so messages read naturally.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if label := field.Tag.Get("label"); label != "" {
			return label
		}
		return field.Name
	})

	return &Validator{validate: v}
}

// Struct checks s against its tags and returns a validation error carrying
// the message for the first violated rule.
func (val *Validator) Struct(s any) error {
	err := val.validate.Struct(s)
	if err == nil {
		return nil
	}
	violations, ok := err.(validator.ValidationErrors)
	if !ok || len(violations) == 0 {
		return apperr.Internal(err)
	}
	return apperr.Validation("%s", message(violations[0]))
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + " wajib diisi."
	case "email":
		return "Format email tidak valid."
	case "min":
		return label + " harus minimal " + fe.Param() + " karakter."
	case "oneof":
		choices := strings.ReplaceAll(fe.Param(), " ", ", ")
		return label + " tidak valid. Pilihan: " + choices + "."
	case "gte":
		return label + " tidak boleh negatif."
	case "gt":
		return label + " harus lebih dari 0."
	case "phonechars":
		return "Format nomor telepon tidak valid."
	default:
		return label + " tidak valid."
	}
}
