package binder

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	dateRE     = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)
	usernameRE = regexp.MustCompile(`^[\w.@+-]+$`)
	digitsRE   = regexp.MustCompile(`^[0-9]*$`)
)

// dateValidator ensures the value matches the format YYYY-MM-DD and names a
// real calendar day, or is the empty string. The empty string is allowed so
// the validator can be combined with omitempty on optional dates.
func dateValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if !dateRE.MatchString(value) {
		return false
	}
	_, err := time.Parse(time.DateOnly, value)
	return err == nil
}

func usernameValidator(fl validator.FieldLevel) bool {
	return usernameRE.MatchString(fl.Field().String())
}

func digitsValidator(fl validator.FieldLevel) bool {
	return digitsRE.MatchString(fl.Field().String())
}
