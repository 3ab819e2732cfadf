package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFollowUpOverdue(t *testing.T) {
	now := time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)

	f := FollowUp{FollowUpDate: now.Add(-time.Hour)}
	assert.True(t, f.Overdue(now))

	f.Completed = true
	assert.False(t, f.Overdue(now), "completed reminders are never overdue")

	assert.False(t, FollowUp{FollowUpDate: now}.Overdue(now), "due exactly now is not overdue")
	assert.False(t, FollowUp{FollowUpDate: now.Add(time.Hour)}.Overdue(now))
}
