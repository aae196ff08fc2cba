package model

import (
	"fmt"
	"regexp"
	"strings"

	"codearena/internal/common"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{6,32}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// username: 6-32 chars from [A-Za-z0-9_]
	must(v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Validate checks a Base struct against its declared field constraints.
// Violations surface as the recoverable validation error kind.
func Validate(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), common.ErrValidation)
	}
	return nil
}

var htmlSanitizer = bluemonday.StrictPolicy()

// SanitizeText strips HTML and surrounding whitespace from free-form text
// fields before they are persisted.
func SanitizeText(s string) string {
	return strings.TrimSpace(htmlSanitizer.Sanitize(s))
}
