package service

import (
	"strconv"
	"strings"

	apperrors "workreg/internal/errors"
)

// RowFields is the typed worker payload produced from one spreadsheet row.
type RowFields struct {
	FirstName  string
	MiddleName string
	LastName   string
	Email      string
	Position   string
	IsActive   bool
}

// ValidateRow validates and coerces one spreadsheet row, given as a column
// name to raw cell value mapping. It returns either the typed fields or the
// field-level errors, never both. Pure function; the email is trimmed but
// case is preserved (the orchestrator lower-cases for comparison).
func ValidateRow(row map[string]string) (*RowFields, *apperrors.ValidationErrors) {
	errs := apperrors.NewValidationErrors()
	fields := &RowFields{IsActive: true}

	if value, ok := row["first_name"]; !ok {
		errs.Add("first_name", msgRequired)
	} else {
		checkRequiredText(errs, "first_name", value, maxNameLen)
		fields.FirstName = strings.TrimSpace(value)
	}

	if value, ok := row["middle_name"]; ok {
		checkOptionalText(errs, "middle_name", value, maxNameLen)
		fields.MiddleName = strings.TrimSpace(value)
	}

	if value, ok := row["last_name"]; !ok {
		errs.Add("last_name", msgRequired)
	} else {
		checkRequiredText(errs, "last_name", value, maxNameLen)
		fields.LastName = strings.TrimSpace(value)
	}

	if value, ok := row["email"]; !ok {
		errs.Add("email", msgRequired)
	} else {
		checkEmail(errs, value)
		fields.Email = strings.TrimSpace(value)
	}

	if value, ok := row["position"]; !ok {
		errs.Add("position", msgRequired)
	} else {
		checkRequiredText(errs, "position", value, maxPositionLen)
		fields.Position = strings.TrimSpace(value)
	}

	if value, ok := row["is_active"]; ok {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			active, err := strconv.ParseBool(strings.ToLower(trimmed))
			if err != nil {
				errs.Add("is_active", msgInvalidBool)
			} else {
				fields.IsActive = active
			}
		}
	}

	if !errs.Empty() {
		return nil, errs
	}
	return fields, nil
}
