package models

// NoPredictionsMessage is shown when the ledger is absent or has no rows
const NoPredictionsMessage = "No predictions found."

// Report summarizes the ledger for the dashboard
type Report struct {
	// Empty is true when there is nothing to chart; Message then says why
	Empty   bool
	Message string
	// Username is set when the report is restricted to one requester
	Username string

	Total    int
	Approved int
	Rejected int
	// Excluded counts rows whose prediction is neither Approved nor Rejected
	Excluded int

	ApprovedShare float64
	RejectedShare float64

	Income []IncomeBin
}

// IncomeBin is one bucket of the applicant income distribution
type IncomeBin struct {
	Lower    float64
	Upper    float64
	Approved int
	Rejected int
}

// Count returns the number of applications in the bin
func (b IncomeBin) Count() int {
	return b.Approved + b.Rejected
}

// LedgerTable is the ledger rendered as rows of strings
type LedgerTable struct {
	Columns []string
	Rows    [][]string
}
