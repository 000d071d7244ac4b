// Package features turns submitted form values into numeric feature vectors.
package features

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/blogem/loan-approval/models"
)

// Collect converts the named fields of values into a feature vector in declared order.
// It fails on the first missing or malformed field with a *models.ValidationError.
// padding zero-valued filler features are appended after the real ones, so the result
// always has len(fields)+padding entries.
func Collect(values map[string]string, fields []models.Field, padding int) ([]float64, error) {
	if padding < 0 {
		padding = 0
	}

	vector := make([]float64, 0, len(fields)+padding)
	for _, field := range fields {
		v, err := parseField(values, field)
		if err != nil {
			return nil, err
		}
		vector = append(vector, v)
	}

	for i := 0; i < padding; i++ {
		vector = append(vector, 0)
	}

	return vector, nil
}

// ParseApplication builds a LoanApplication from submitted values.
// Underwriting fields follow Collect's rules and the loan amount must be positive.
// Identity fields are optional, but a submitted date of birth must parse and
// must not lie after now.
func ParseApplication(values map[string]string, now time.Time) (*models.LoanApplication, error) {
	vector, err := Collect(values, models.UnderwritingFields, 0)
	if err != nil {
		return nil, err
	}

	app := &models.LoanApplication{
		ApplicantName:     strings.TrimSpace(values[models.FieldApplicantName]),
		Occupation:        strings.TrimSpace(values[models.FieldOccupation]),
		Gender:            int(vector[0]),
		Married:           int(vector[1]),
		Dependents:        int(vector[2]),
		Education:         int(vector[3]),
		SelfEmployed:      int(vector[4]),
		ApplicantIncome:   vector[5],
		CoapplicantIncome: vector[6],
		LoanAmount:        vector[7],
		LoanAmountTerm:    vector[8],
		CreditHistory:     int(vector[9]),
		PropertyArea:      int(vector[10]),
		Values:            make(map[string]string, len(models.UnderwritingFields)),
	}

	if app.LoanAmount <= 0 {
		return nil, &models.ValidationError{Field: models.FieldLoanAmount, Message: "must be positive"}
	}

	for i, field := range models.UnderwritingFields {
		app.Values[field.Name] = formatValue(vector[i], field.Kind)
	}

	if raw := strings.TrimSpace(values[models.FieldDateOfBirth]); raw != "" {
		dob, err := models.ParseDate(raw)
		if err != nil {
			return nil, &models.ValidationError{Field: models.FieldDateOfBirth, Message: "must be a date in YYYY-MM-DD format"}
		}
		if dob.After(now) {
			return nil, &models.ValidationError{Field: models.FieldDateOfBirth, Message: "must not be in the future"}
		}
		app.DateOfBirth = &dob
	}

	if raw := strings.TrimSpace(values[models.FieldAge]); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil || age <= 0 {
			return nil, &models.ValidationError{Field: models.FieldAge, Message: "must be a positive whole number"}
		}
		app.Age = age
	}

	return app, nil
}

// Vector returns the underwriting features of app in declared order plus padding
func Vector(app *models.LoanApplication, padding int) []float64 {
	vector := []float64{
		float64(app.Gender),
		float64(app.Married),
		float64(app.Dependents),
		float64(app.Education),
		float64(app.SelfEmployed),
		app.ApplicantIncome,
		app.CoapplicantIncome,
		app.LoanAmount,
		app.LoanAmountTerm,
		float64(app.CreditHistory),
		float64(app.PropertyArea),
	}
	for i := 0; i < padding; i++ {
		vector = append(vector, 0)
	}
	return vector
}

func parseField(values map[string]string, field models.Field) (float64, error) {
	raw, ok := values[field.Name]
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return 0, &models.ValidationError{Field: field.Name, Message: "is required"}
	}

	switch field.Kind {
	case models.IntegerField:
		// "1.0" style codes are accepted as long as they are whole
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, &models.ValidationError{Field: field.Name, Message: "must be a whole number"}
		}
		return f, nil
	default:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, &models.ValidationError{Field: field.Name, Message: "must be a number"}
		}
		return f, nil
	}
}

func formatValue(v float64, kind models.FieldKind) string {
	if kind == models.IntegerField {
		return strconv.Itoa(int(v))
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
