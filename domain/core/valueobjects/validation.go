package valueobjects

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	pkgerrors "connecting-party-manager/pkg/errors"

	"github.com/go-playground/validator/v10"
)

var (
	odsCodePattern    = regexp.MustCompile(`^[A-Za-z0-9]{1,9}$`)
	entityNamePattern = regexp.MustCompile(`^[\w\-.:/()' ]{1,255}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	mustRegister(v, "ods_code", func(fl validator.FieldLevel) bool {
		return odsCodePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "entity_name", func(fl validator.FieldLevel) bool {
		return entityNamePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "environment", func(fl validator.FieldLevel) bool {
		return Environment(fl.Field().String()).IsValid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// ValidateStruct validates a struct based on its validation tags
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.NewValidationError(err.Error())
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatFieldError(e))
	}
	return pkgerrors.NewValidationError(strings.Join(messages, "; "))
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "ods_code":
		return fmt.Sprintf("%s must be an ODS code, got '%v'", e.Field(), e.Value())
	case "entity_name":
		return fmt.Sprintf("%s contains invalid characters or is too long, got '%v'", e.Field(), e.Value())
	case "environment":
		return fmt.Sprintf("%s must be one of %v, got '%v'", e.Field(), environments, e.Value())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}

func invalidFormat(what, value string) error {
	return pkgerrors.NewValidationError(fmt.Sprintf("invalid %s: '%s'", what, value))
}
