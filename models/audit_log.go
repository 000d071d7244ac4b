package models

import "time"

// AuditLogEntry represents a single HTTP mutation event
type AuditLogEntry struct {
	ID        int64
	RequestID string
	Timestamp time.Time
	Username  string
	Method    string
	Path      string
	FormData  string
	UserAgent string
	IPAddress string
}
