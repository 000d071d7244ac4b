package models

import (
	"strings"
	"testing"
	"time"
)

// Test RegistrationForm validation
func TestRegistrationFormValidation(t *testing.T) {
	// Test valid form
	validForm := RegistrationForm{
		Username:        "jane.doe",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}
	if errors := validForm.Validate(); errors.HasErrors() {
		t.Errorf("Expected no errors for valid form, got: %v", errors)
	}

	// Test invalid form
	invalidForm := RegistrationForm{
		Username:        "a,b", // Comma is not allowed
		Password:        "123",
		ConfirmPassword: "456",
	}
	errors := invalidForm.Validate()
	if len(errors) != 3 {
		t.Errorf("Expected 3 errors for invalid form, got: %v", errors)
	}

	// Test missing username
	emptyForm := RegistrationForm{Password: "secret123", ConfirmPassword: "secret123"}
	errors = emptyForm.Validate()
	if len(errors) != 1 || errors[0].Field != "username" {
		t.Errorf("Expected a single username error, got: %v", errors)
	}
}

// Test age calculation from date of birth
func TestLoanApplicationAgeAt(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	dob := time.Date(1995, 6, 16, 0, 0, 0, 0, time.UTC)
	app := LoanApplication{DateOfBirth: &dob}
	age, ok := app.AgeAt(now)
	if !ok || age != 29 {
		t.Errorf("Expected age 29 the day before the birthday, got %d (ok=%v)", age, ok)
	}

	dob = time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC)
	age, _ = app.AgeAt(now)
	if age != 30 {
		t.Errorf("Expected age 30 on the birthday, got %d", age)
	}

	explicit := LoanApplication{Age: 42}
	age, ok = explicit.AgeAt(now)
	if !ok || age != 42 {
		t.Errorf("Expected explicit age 42, got %d (ok=%v)", age, ok)
	}

	unknown := LoanApplication{}
	if _, ok := unknown.AgeAt(now); ok {
		t.Error("Expected unknown age without date of birth or age")
	}
}

// Test ledger column layout
func TestLedgerColumns(t *testing.T) {
	columns := LedgerColumns()
	expected := 5 + len(UnderwritingFields) + 3
	if len(columns) != expected {
		t.Fatalf("Expected %d columns, got %d", expected, len(columns))
	}
	if columns[0] != ColumnTimestamp {
		t.Errorf("Expected first column %s, got %s", ColumnTimestamp, columns[0])
	}
	if columns[5] != FieldGender || columns[15] != FieldPropertyArea {
		t.Errorf("Expected underwriting fields in declared order, got %v", columns[5:16])
	}

	record := LedgerRecord{
		Timestamp:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Values:     map[string]string{FieldGender: "1"},
		Prediction: Approved,
	}
	row := record.Row()
	if len(row) != len(columns) {
		t.Fatalf("Expected row width %d, got %d", len(columns), len(row))
	}
	if row[0] != "2025-01-02 03:04:05.000000" {
		t.Errorf("Unexpected timestamp cell %q", row[0])
	}
	if row[5] != "1" || row[6] != "" {
		t.Errorf("Unexpected underwriting cells %v", row[5:7])
	}
	if row[16] != "Approved" {
		t.Errorf("Expected prediction cell Approved, got %s", row[16])
	}
}

// Test that free text never spans lines
func TestLedgerRowFlattensLineBreaks(t *testing.T) {
	record := LedgerRecord{
		ApplicantName: "Jane\nDoe",
		Occupation:    "Night\r\nshift",
		Reason:        "a\rb",
		Feedback:      "line one\nline two\r\n",
	}
	row := record.Row()
	for i, cell := range row {
		if strings.ContainsAny(cell, "\r\n") {
			t.Errorf("Cell %d still contains a line break: %q", i, cell)
		}
	}
	if row[2] != "Jane Doe" || row[4] != "Night shift" {
		t.Errorf("Unexpected identity cells %q %q", row[2], row[4])
	}
	if got := row[len(row)-1]; got != "line one line two " {
		t.Errorf("Unexpected feedback cell %q", got)
	}
}

// Test validation error messages
func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "LoanAmount", Message: "is required"}
	if err.Error() != "LoanAmount: is required" {
		t.Errorf("Unexpected message %q", err.Error())
	}
}
