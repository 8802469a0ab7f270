package validator

import (
	"fmt"
	"reflect"
	"strings"

	"otp-verify/entity"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// Validator wraps the go-playground validator
type Validator struct {
	validator *validator.Validate
}

// New creates a new validator instance
func New() *Validator {
	v := validator.New()

	// Report field names from json tags
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("phone_number", validatePhoneNumber)
	v.RegisterValidation("otp_purpose", validatePurpose)

	return &Validator{
		validator: v,
	}
}

// ValidateStruct validates a struct and returns formatted errors
func (v *Validator) ValidateStruct(s interface{}) error {
	if s == nil {
		return fmt.Errorf("input cannot be nil")
	}

	if err := v.validator.Struct(s); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errors []string
			for _, validationErr := range validationErrors {
				errors = append(errors, v.formatFieldError(validationErr))
			}
			return fmt.Errorf("validation failed: %s", strings.Join(errors, "; "))
		}
		return fmt.Errorf("validation error: %v", err)
	}
	return nil
}

// formatFieldError formats a single field validation error
func (v *Validator) formatFieldError(err validator.FieldError) string {
	field := err.Field()
	tag := err.Tag()
	param := err.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters long", field, param)
	case "numeric":
		return fmt.Sprintf("%s must contain only digits", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "phone_number":
		return fmt.Sprintf("%s must be a valid phone number (format: +1234567890)", field)
	case "otp_purpose":
		return fmt.Sprintf("%s must be one of: registration, login, password_reset, verification", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// validatePhoneNumber checks E.164 input against real country metadata, not
// just the +digits shape
func validatePhoneNumber(fl validator.FieldLevel) bool {
	phoneNumber := fl.Field().String()

	if !strings.HasPrefix(phoneNumber, "+") {
		return false
	}
	for _, r := range phoneNumber[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}

	num, err := phonenumbers.Parse(phoneNumber, "")
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// validatePurpose checks the challenge purpose enum
func validatePurpose(fl validator.FieldLevel) bool {
	return entity.Purpose(fl.Field().String()).Valid()
}
