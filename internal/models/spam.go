package models

import (
	"time"

	"github.com/google/uuid"
)

// SpamReport is the global aggregate for one phone number. The count is the
// total number of reports ever filed, including repeats from the same
// reporter; it never decrements.
type SpamReport struct {
	PhoneNumber    string    `json:"phone_number"`
	SpamCount      int       `json:"spam_count"`
	LastReportedAt time.Time `json:"last_reported_at"`
}

// SpamReporter tracks how often one user reported one phone number,
// separately from the global aggregate.
type SpamReporter struct {
	UserID          uuid.UUID `json:"user_id"`
	PhoneNumber     string    `json:"phone_number"`
	ReportCount     int       `json:"report_count"`
	FirstReportedAt time.Time `json:"first_reported_at"`
	LastReportedAt  time.Time `json:"last_reported_at"`
}
