package models

import (
	"errors"
	"strings"
	"time"
)

// Error taxonomy shared by services and controllers
var (
	// ErrComputation is returned when arithmetic inside a decision fails
	ErrComputation = errors.New("computation error")
	// ErrStorage is returned when a flat file cannot be read or written
	ErrStorage = errors.New("storage error")
	// ErrAuth is returned for bad credentials or a missing session
	ErrAuth = errors.New("invalid username or password")
	// ErrUsernameTaken is returned when registering an existing username
	ErrUsernameTaken = errors.New("username already exists")
	// ErrNotFound is returned when a lookup finds nothing
	ErrNotFound = errors.New("not found")
)

// FormatDate formats a time as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDateTime formats a time as YYYY-MM-DD HH:MM
func FormatDateTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// ParseDate parses a YYYY-MM-DD string into a time.Time
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

// ValidationError represents a validation error on one field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements error
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// HasErrors returns true if there are validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// GetMessages returns all error messages as a slice of strings
func (ve ValidationErrors) GetMessages() []string {
	messages := make([]string, len(ve))
	for i, err := range ve {
		messages[i] = err.Message
	}
	return messages
}

// Error implements error
func (ve ValidationErrors) Error() string {
	return "validation failed: " + strings.Join(ve.GetMessages(), ", ")
}
