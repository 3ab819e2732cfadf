package domain

import "time"

// FollowUp is a reminder attached to a job. One per job: saving a new one
// replaces the old. The date is fixed at creation; Completed is the only
// mutable field.
type FollowUp struct {
	ID           int64     `json:"id"`
	JobID        int64     `json:"jobId"`
	FollowUpDate time.Time `json:"followUpDate"`
	Note         string    `json:"note"`
	Completed    bool      `json:"completed"`
}

// Overdue reports whether the reminder has lapsed at the given instant.
// A follow-up dated exactly now is not overdue yet. Computed, never stored.
func (f FollowUp) Overdue(now time.Time) bool {
	return !f.Completed && f.FollowUpDate.Before(now)
}

// OverdueFollowUp is a follow-up joined with its job for display.
type OverdueFollowUp struct {
	JobID        int64     `json:"jobId"`
	Company      string    `json:"company"`
	Role         string    `json:"role"`
	FollowUpDate time.Time `json:"followUpDate"`
	Note         string    `json:"note"`
}
