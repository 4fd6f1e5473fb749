package validation

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateFormat = "2006-01-02"

// Validate is a shared validator instance.
var Validate *validator.Validate

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("date", validateDate); err != nil {
		panic(fmt.Sprintf("failed to register date validator: %v", err))
	}
}

// validateDate validates that a string is an ISO date (YYYY-MM-DD).
func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(dateFormat, fl.Field().String())
	return err == nil
}

// ValidateDate validates an ISO date string value.
func ValidateDate(value string) error {
	if _, err := time.Parse(dateFormat, value); err != nil {
		return fmt.Errorf("invalid date: %s (must be YYYY-MM-DD)", value)
	}
	return nil
}
