package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-engine/internal/domain"
)

func TestIsValid(t *testing.T) {
	for _, s := range domain.AllStatuses {
		assert.True(t, IsValid(s), "expected %s to be valid", s)
	}

	assert.False(t, IsValid("PENDING"))
	assert.False(t, IsValid("applied"), "statuses are case sensitive")
	assert.False(t, IsValid(""))
}

func TestTransitionAnyToAny(t *testing.T) {
	// No linear pipeline: every distinct pair is legal, including moves
	// "backwards" like REJECTED -> INTERVIEW.
	for _, from := range domain.AllStatuses {
		for _, to := range domain.AllStatuses {
			if from == to {
				continue
			}
			change, err := Transition(from, to)
			require.NoError(t, err, "%s -> %s", from, to)
			assert.Equal(t, from, change.From)
			assert.Equal(t, to, change.To)
		}
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	_, err := Transition(domain.StatusSaved, "GHOSTED")
	require.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestTransitionRejectsNoOp(t *testing.T) {
	_, err := Transition(domain.StatusApplied, domain.StatusApplied)
	require.ErrorIs(t, err, domain.ErrNoOpTransition)
}
