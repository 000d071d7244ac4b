package models

// Outcome is the result of evaluating a loan application
type Outcome string

const (
	Approved Outcome = "Approved"
	Rejected Outcome = "Rejected"
	Error    Outcome = "Error"
	// Invalid marks a ledger row written for a submission that could not be evaluated
	Invalid Outcome = "Invalid"
)

// Decision is produced once per application and never changed afterwards
type Decision struct {
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
}

// Approve builds an approved decision
func Approve() Decision {
	return Decision{Outcome: Approved}
}

// Reject builds a rejected decision with the reason of the failing check
func Reject(reason string) Decision {
	return Decision{Outcome: Rejected, Reason: reason}
}

// Failed builds an error decision from the error that stopped evaluation
func Failed(err error) Decision {
	return Decision{Outcome: Error, Reason: err.Error()}
}

// IsApproved reports whether the decision approves the loan
func (d Decision) IsApproved() bool {
	return d.Outcome == Approved
}
