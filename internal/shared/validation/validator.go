package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	apperrors "devconnector/internal/shared/errors"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// instance returns the shared validator. validator.Validate caches struct
// metadata and is safe for concurrent use.
func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Struct validates v against its `validate` tags and returns field-level
// *apperrors.ValidationErrors on failure. The user-facing message of a field is
// taken from its `msg` tag; fields without one get a generic message.
func Struct(v interface{}) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	ve := apperrors.NewValidationErrors()
	for _, fe := range fieldErrs {
		ve.Add(fe.Field(), messageFor(t, fe), fe.Value())
	}
	return ve
}

func messageFor(t reflect.Type, fe validator.FieldError) string {
	if t.Kind() == reflect.Struct {
		if f, ok := t.FieldByName(fe.StructField()); ok {
			if msg := f.Tag.Get("msg"); msg != "" {
				return msg
			}
		}
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Please include a valid email"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "url":
		return fe.Field() + " must be a valid URL"
	default:
		return fe.Field() + " is invalid"
	}
}
