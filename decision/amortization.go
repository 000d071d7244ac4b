package decision

import (
	"fmt"
	"math"

	"github.com/blogem/loan-approval/models"
)

// AnnualInterestRate is the fixed rate used to estimate the monthly repayment
const AnnualInterestRate = 0.08

// MonthlyPayment returns the amortizing-loan monthly payment
// P·r·(1+r)^n / ((1+r)^n − 1) with r = annualRate/12 and n = months.
func MonthlyPayment(principal, annualRate float64, months int) (float64, error) {
	if months <= 0 {
		return 0, fmt.Errorf("%w: loan term must be positive, got %d months", models.ErrComputation, months)
	}

	r := annualRate / 12
	if r == 0 {
		return principal / float64(months), nil
	}

	growth := math.Pow(1+r, float64(months))
	payment := principal * r * growth / (growth - 1)
	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return 0, fmt.Errorf("%w: monthly payment is not finite", models.ErrComputation)
	}
	return payment, nil
}

// DebtToIncome returns the monthly payment as a percentage of monthly income
func DebtToIncome(payment, monthlyIncome float64) (float64, error) {
	if monthlyIncome <= 0 {
		return 0, fmt.Errorf("%w: monthly income must be positive", models.ErrComputation)
	}
	return payment / monthlyIncome * 100, nil
}

// ApplicationDTI computes the debt-to-income percentage of an application at the fixed rate
func ApplicationDTI(app *models.LoanApplication) (float64, error) {
	months := app.LoanAmountTerm
	if months != math.Trunc(months) {
		return 0, fmt.Errorf("%w: loan term must be a whole number of months, got %v", models.ErrComputation, months)
	}

	payment, err := MonthlyPayment(app.LoanAmount, AnnualInterestRate, int(months))
	if err != nil {
		return 0, err
	}
	return DebtToIncome(payment, app.CombinedIncome())
}
