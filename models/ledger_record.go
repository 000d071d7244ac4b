package models

import (
	"strings"
	"time"
)

// Ledger column names outside the underwriting fields
const (
	ColumnTimestamp  = "Timestamp"
	ColumnUsername   = "Username"
	ColumnPrediction = "Prediction"
	ColumnReason     = "Reason"
	ColumnFeedback   = "Feedback"
)

// MissingValue replaces optional columns absent from older ledger files
const MissingValue = "N/A"

// TimestampLayout is how ledger timestamps are written
const TimestampLayout = "2006-01-02 15:04:05.000000"

// LedgerColumns returns the full ledger header in write order
func LedgerColumns() []string {
	columns := []string{ColumnTimestamp, ColumnUsername, FieldApplicantName, FieldDateOfBirth, FieldOccupation}
	columns = append(columns, UnderwritingFieldNames()...)
	return append(columns, ColumnPrediction, ColumnReason, ColumnFeedback)
}

// LedgerRecord is one appended line of the predictions ledger
type LedgerRecord struct {
	Timestamp     time.Time
	Username      string
	ApplicantName string
	DateOfBirth   string
	Occupation    string
	// Values holds the underwriting inputs keyed by field name, as persisted
	Values     map[string]string
	Prediction Outcome
	Reason     string
	Feedback   string
}

// Value returns the persisted value of an underwriting field
func (r *LedgerRecord) Value(field string) string {
	if r.Values == nil {
		return ""
	}
	return r.Values[field]
}

// lineBreaks flattens embedded line breaks so every record stays on one line
var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// Row returns the record as strings in LedgerColumns order.
// Line breaks inside cells are replaced by spaces.
func (r *LedgerRecord) Row() []string {
	row := []string{
		r.Timestamp.Format(TimestampLayout),
		r.Username,
		r.ApplicantName,
		r.DateOfBirth,
		r.Occupation,
	}
	for _, name := range UnderwritingFieldNames() {
		row = append(row, r.Value(name))
	}
	row = append(row, string(r.Prediction), r.Reason, r.Feedback)
	for i, cell := range row {
		row[i] = lineBreaks.Replace(cell)
	}
	return row
}
