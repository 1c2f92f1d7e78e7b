package errors

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrWorkerNotFound is returned when a worker is not found.
	ErrWorkerNotFound = errors.New("worker not found")
	// ErrInvalidWorkerID is returned when an identifier is malformed (non-numeric).
	ErrInvalidWorkerID = errors.New("invalid worker id")
	// ErrEmailExists is returned when a unique email constraint is violated.
	ErrEmailExists = errors.New("email already exists")
	// ErrUnreadableWorkbook is returned when an uploaded spreadsheet cannot be parsed.
	ErrUnreadableWorkbook = errors.New("unreadable workbook")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ValidationErrors carries field-level validation messages, keyed by field name.
// It is both an error and the JSON body of a 400 response.
type ValidationErrors struct {
	Fields map[string][]string
}

// NewValidationErrors creates an empty field error collector.
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{Fields: make(map[string][]string)}
}

// Add appends a message for a field.
func (e *ValidationErrors) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// Empty reports whether no field errors were recorded.
func (e *ValidationErrors) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationErrors) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrWorkerNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "WORKER_NOT_FOUND")
	case errors.Is(err, ErrInvalidWorkerID):
		return NewHTTPError(http.StatusNotFound, "Некорректный идентификатор", "INVALID_ID")
	case errors.Is(err, ErrEmailExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_EXISTS")
	case errors.Is(err, ErrUnreadableWorkbook):
		return NewHTTPError(http.StatusBadRequest, "Не удалось прочитать файл", "UNREADABLE_FILE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
