package models

import (
	"time"
)

// FieldKind tells the feature collector how to parse a submitted value
type FieldKind int

const (
	// IntegerField holds a categorical code (0/1, 0-3, ...)
	IntegerField FieldKind = iota
	// FloatField holds an amount or a term
	FloatField
)

// Field is one named underwriting input
type Field struct {
	Name  string
	Label string
	Kind  FieldKind
}

// Form field names of the underwriting inputs, in declared order
const (
	FieldGender            = "Gender"
	FieldMarried           = "Married"
	FieldDependents        = "Dependents"
	FieldEducation         = "Education"
	FieldSelfEmployed      = "Self_Employed"
	FieldApplicantIncome   = "ApplicantIncome"
	FieldCoapplicantIncome = "CoapplicantIncome"
	FieldLoanAmount        = "LoanAmount"
	FieldLoanAmountTerm    = "Loan_Amount_Term"
	FieldCreditHistory     = "Credit_History"
	FieldPropertyArea      = "Property_Area"
)

// Form field names of the optional identity inputs
const (
	FieldApplicantName = "ApplicantName"
	FieldDateOfBirth   = "DateOfBirth"
	FieldOccupation    = "Occupation"
	FieldAge           = "Age"
	FieldFeedback      = "Feedback"
)

// UnderwritingFields is the fixed, ordered list of inputs every decision is based on.
// The order is the column order of the trained model artifact.
var UnderwritingFields = []Field{
	{Name: FieldGender, Label: "Gender (1 = male, 0 = female)", Kind: IntegerField},
	{Name: FieldMarried, Label: "Married (1 = yes, 0 = no)", Kind: IntegerField},
	{Name: FieldDependents, Label: "Dependents (0-3)", Kind: IntegerField},
	{Name: FieldEducation, Label: "Education (1 = graduate, 0 = not graduate)", Kind: IntegerField},
	{Name: FieldSelfEmployed, Label: "Self employed (1 = yes, 0 = no)", Kind: IntegerField},
	{Name: FieldApplicantIncome, Label: "Applicant monthly income", Kind: FloatField},
	{Name: FieldCoapplicantIncome, Label: "Co-applicant monthly income", Kind: FloatField},
	{Name: FieldLoanAmount, Label: "Loan amount", Kind: FloatField},
	{Name: FieldLoanAmountTerm, Label: "Loan term (months)", Kind: FloatField},
	{Name: FieldCreditHistory, Label: "Credit history (1 = good, 0 = bad)", Kind: IntegerField},
	{Name: FieldPropertyArea, Label: "Property area (0 = rural, 1 = semiurban, 2 = urban)", Kind: IntegerField},
}

// UnderwritingFieldNames returns the names of UnderwritingFields in order
func UnderwritingFieldNames() []string {
	names := make([]string, len(UnderwritingFields))
	for i, f := range UnderwritingFields {
		names[i] = f.Name
	}
	return names
}

// LoanApplication represents one submitted loan application
type LoanApplication struct {
	ApplicantName string     `json:"applicant_name,omitempty"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	Occupation    string     `json:"occupation,omitempty"`
	// Age is used when no date of birth was submitted; zero means unknown
	Age int `json:"age,omitempty"`

	Gender            int     `json:"gender"`
	Married           int     `json:"married"`
	Dependents        int     `json:"dependents"`
	Education         int     `json:"education"`
	SelfEmployed      int     `json:"self_employed"`
	ApplicantIncome   float64 `json:"applicant_income"`
	CoapplicantIncome float64 `json:"coapplicant_income"`
	LoanAmount        float64 `json:"loan_amount"`
	LoanAmountTerm    float64 `json:"loan_amount_term"`
	CreditHistory     int     `json:"credit_history"`
	PropertyArea      int     `json:"property_area"`

	// Values holds the underwriting inputs as submitted, keyed by field name
	Values map[string]string `json:"-"`
}

// CombinedIncome returns applicant plus co-applicant monthly income
func (a *LoanApplication) CombinedIncome() float64 {
	return a.ApplicantIncome + a.CoapplicantIncome
}

// AgeAt returns the applicant's age in whole years at the given time.
// The second return value is false when neither a date of birth nor an age is known.
func (a *LoanApplication) AgeAt(now time.Time) (int, bool) {
	if a.DateOfBirth == nil {
		if a.Age > 0 {
			return a.Age, true
		}
		return 0, false
	}

	dob := *a.DateOfBirth
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age, true
}

// DateOfBirthString formats the date of birth as YYYY-MM-DD, or "" when unknown
func (a *LoanApplication) DateOfBirthString() string {
	if a.DateOfBirth == nil {
		return ""
	}
	return FormatDate(*a.DateOfBirth)
}
