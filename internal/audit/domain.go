// Package audit records and serves the admin activity trail.
package audit

import "time"

// Entry is one row of the admin activity log.
type Entry struct {
	ID         int64
	AdminID    int64
	Action     string
	Status     string
	Message    string
	TargetType string
	TargetID   string
	Payload    map[string]any
	IP         string
	UserAgent  string
	CreatedAt  time.Time
}

// Statuses recorded for an entry.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Filter narrows timeline queries.
type Filter struct {
	AdminID int64
	Action  string
	Status  string
	Limit   int
	Offset  int
}
