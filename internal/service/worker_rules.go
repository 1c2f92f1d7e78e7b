package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	apperrors "workreg/internal/errors"
)

// Field length limits for worker records.
const (
	maxNameLen     = 25
	maxPositionLen = 50
	maxEmailLen    = 254
)

// Field-level validation messages.
const (
	msgRequired     = "this field is required"
	msgBlank        = "this field may not be blank"
	msgInvalidEmail = "enter a valid email address"
	msgInvalidBool  = "must be a boolean value"
	msgEmailTaken   = "worker with this email already exists"
)

// emailRegex is the WHATWG HTML email grammar.
var emailRegex = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

func msgMaxLength(limit int) string {
	return fmt.Sprintf("must be %d characters or fewer", limit)
}

// checkRequiredText validates a required bounded-length text field.
func checkRequiredText(errs *apperrors.ValidationErrors, field, value string, maxLen int) {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, msgBlank)
		return
	}
	if utf8.RuneCountInString(strings.TrimSpace(value)) > maxLen {
		errs.Add(field, msgMaxLength(maxLen))
	}
}

// checkOptionalText validates an optional bounded-length text field.
// Blank values are allowed.
func checkOptionalText(errs *apperrors.ValidationErrors, field, value string, maxLen int) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) > maxLen {
		errs.Add(field, msgMaxLength(maxLen))
	}
}

// checkEmail validates a required email field against the email grammar.
func checkEmail(errs *apperrors.ValidationErrors, value string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		errs.Add("email", msgBlank)
		return
	}
	if utf8.RuneCountInString(trimmed) > maxEmailLen || !emailRegex.MatchString(trimmed) {
		errs.Add("email", msgInvalidEmail)
	}
}
