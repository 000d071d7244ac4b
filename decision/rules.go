package decision

import (
	"context"
	"time"

	"github.com/blogem/loan-approval/models"
)

// Rule thresholds
const (
	MinAge            = 18
	MaxAge            = 50
	MinCombinedIncome = 3000.0
	MaxDTI            = 40.0
	GoodCreditHistory = 1
)

// Rule is one pass/fail check of the rule chain
type Rule struct {
	Name   string
	Reason string
	// Check reports whether app passes; an error stops the chain
	Check func(app *models.LoanApplication, now time.Time) (bool, error)
}

// DefaultRules returns the rule chain in evaluation order: cheapest and most
// decisive checks first.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:   "age",
			Reason: "Applicant age must be between 18 and 50",
			Check: func(app *models.LoanApplication, now time.Time) (bool, error) {
				age, ok := app.AgeAt(now)
				if !ok {
					return false, &models.ValidationError{Field: models.FieldDateOfBirth, Message: "date of birth or age is required"}
				}
				return age >= MinAge && age <= MaxAge, nil
			},
		},
		{
			Name:   "income",
			Reason: "Combined monthly income must be at least 3000",
			Check: func(app *models.LoanApplication, _ time.Time) (bool, error) {
				return app.CombinedIncome() >= MinCombinedIncome, nil
			},
		},
		{
			Name:   "dti",
			Reason: "Debt-to-income ratio exceeds 40%",
			Check: func(app *models.LoanApplication, _ time.Time) (bool, error) {
				dti, err := ApplicationDTI(app)
				if err != nil {
					return false, err
				}
				return dti <= MaxDTI, nil
			},
		},
		{
			Name:   "credit_history",
			Reason: "Credit history does not meet guidelines",
			Check: func(app *models.LoanApplication, _ time.Time) (bool, error) {
				return app.CreditHistory == GoodCreditHistory, nil
			},
		},
	}
}

// RuleEngine evaluates a fixed rule chain in order and stops at the first failure
type RuleEngine struct {
	rules []Rule
	now   func() time.Time
}

// NewRuleEngine creates a rule engine over rules
func NewRuleEngine(rules []Rule) *RuleEngine {
	return &RuleEngine{rules: rules, now: time.Now}
}

// WithClock replaces the clock used for age calculation
func (e *RuleEngine) WithClock(now func() time.Time) *RuleEngine {
	e.now = now
	return e
}

// Name implements Engine
func (e *RuleEngine) Name() string {
	return StrategyRule
}

// Decide implements Engine
func (e *RuleEngine) Decide(ctx context.Context, app *models.LoanApplication) (models.Decision, error) {
	now := e.now()
	for _, rule := range e.rules {
		if err := ctx.Err(); err != nil {
			return models.Decision{}, err
		}

		ok, err := rule.Check(app, now)
		if err != nil {
			return models.Decision{}, err
		}
		if !ok {
			return models.Reject(rule.Reason), nil
		}
	}
	return models.Approve(), nil
}
