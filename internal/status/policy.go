// Package status guards pipeline status values and transitions. It persists
// nothing; callers (the store) apply the returned change and log it.
package status

import (
	"fmt"

	"jobtrack-engine/internal/domain"
)

var valid = map[domain.Status]bool{
	domain.StatusSaved:     true,
	domain.StatusApplied:   true,
	domain.StatusInterview: true,
	domain.StatusOffer:     true,
	domain.StatusRejected:  true,
}

func IsValid(s domain.Status) bool { return valid[s] }

// Transition validates moving a job from current to next and returns the
// old/new pair for the caller to persist and log.
//
// Any status may move to any other status. The pipeline is not linear:
// REJECTED -> INTERVIEW is unusual but legal (a company can reopen a loop).
// The one thing rejected outright is a same-status transition, so the ledger
// never records a no-op row.
func Transition(current, next domain.Status) (domain.StatusChange, error) {
	if !IsValid(next) {
		return domain.StatusChange{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, next)
	}
	if next == current {
		return domain.StatusChange{}, fmt.Errorf("%w: already %s", domain.ErrNoOpTransition, current)
	}
	return domain.StatusChange{From: current, To: next}, nil
}
