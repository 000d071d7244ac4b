package models

import (
	"strings"
)

// Identity is a registered username/password pair
type Identity struct {
	Username string `json:"username"`
	Password string `json:"-"`
}

// LoginForm represents the login form data
type LoginForm struct {
	Username string
	Password string
}

// RegistrationForm represents the registration form data
type RegistrationForm struct {
	Username        string
	Password        string
	ConfirmPassword string
}

// Validate validates the registration form data
func (f *RegistrationForm) Validate() ValidationErrors {
	var errs ValidationErrors

	username := strings.TrimSpace(f.Username)
	if username == "" {
		errs = append(errs, ValidationError{Field: "username", Message: "Username is required"})
	} else if len(username) < 3 || len(username) > 50 {
		errs = append(errs, ValidationError{Field: "username", Message: "Username must be between 3 and 50 characters"})
	} else if !isValidUsername(username) {
		errs = append(errs, ValidationError{Field: "username", Message: "Username may only contain letters, digits, '_', '.' and '-'"})
	}

	if len(f.Password) < 6 {
		errs = append(errs, ValidationError{Field: "password", Message: "Password must be at least 6 characters"})
	}

	if f.Password != f.ConfirmPassword {
		errs = append(errs, ValidationError{Field: "confirm_password", Message: "Passwords do not match"})
	}

	return errs
}

// isValidUsername keeps usernames safe to store in a CSV cell and to compare exactly
func isValidUsername(username string) bool {
	for _, c := range username {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_' || c == '.' || c == '-':
		default:
			return false
		}
	}
	return true
}
