package domain

import "time"

type Job struct {
	ID            int64     `json:"id"`
	Owner         string    `json:"-"`
	Company       string    `json:"company"`
	Role          string    `json:"role"`
	Status        Status    `json:"status"`
	Location      string    `json:"location,omitempty"`
	CTC           string    `json:"ctc,omitempty"`
	JobLink       string    `json:"jobLink,omitempty"`
	AppliedDate   string    `json:"appliedDate,omitempty"` // yyyy-mm-dd, user-entered
	ResumeVersion string    `json:"resumeVersion,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// StatusChange is the old/new pair produced by a successful transition.
type StatusChange struct {
	From Status `json:"oldStatus"`
	To   Status `json:"newStatus"`
}

// StatusHistoryEntry is one row of the append-only transition ledger.
// Entries are never edited; they only disappear when their job is deleted.
type StatusHistoryEntry struct {
	ID        int64     `json:"id"`
	JobID     int64     `json:"jobId"`
	OldStatus Status    `json:"oldStatus"`
	NewStatus Status    `json:"newStatus"`
	ChangedAt time.Time `json:"changedAt"`
}
