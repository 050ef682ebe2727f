package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/marcos-nsantos/account-api/internal/domain"
)

// Validator checks structs tagged with `validate` and reports failures keyed
// by the `field` tag, which carries the request field name.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("field"); name != "" {
			return name
		}
		return strings.ToLower(fld.Name)
	})
	for tag, fn := range map[string]validator.Func{
		"mindigits": minDigits,
		"maxbytes":  maxBytes,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("validation: registering %s: %v", tag, err))
		}
	}
	return &Validator{validate: v}
}

// Struct validates s and returns every failing field. The result is empty
// when s is valid.
func (v *Validator) Struct(s any) (domain.FieldErrors, error) {
	fields := domain.FieldErrors{}

	err := v.validate.Struct(s)
	if err == nil {
		return fields, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, fmt.Errorf("validating %T: %w", s, err)
	}

	for _, fe := range verrs {
		fields.Add(fe.Field(), message(fe))
	}
	return fields, nil
}

func message(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", field, fe.Param())
	case "mindigits":
		return fmt.Sprintf("The %s must be at least %s digits.", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("The %s may not be greater than %s bytes.", field, fe.Param())
	case "number", "numeric":
		return fmt.Sprintf("The %s must be a number.", field)
	default:
		return fmt.Sprintf("The %s is invalid.", field)
	}
}

// minDigits checks that a digit string has at least param characters. Pair it
// with the number tag to reject non-digits.
func minDigits(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) >= n
}

// maxBytes bounds the encoded length of a string, unlike max which counts
// runes. bcrypt only accepts 72 bytes of input.
func maxBytes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= n
}
