package events

import (
	"encoding/json"
	"time"
)

// Event types pushed over SSE so the UI can refresh without polling.
const (
	TypeJobCreated        = "job_created"
	TypeJobDeleted        = "job_deleted"
	TypeStatusChanged     = "status_changed"
	TypeFollowUpSaved     = "followup_saved"
	TypeFollowUpCompleted = "followup_completed"
	TypeFollowUpsOverdue  = "followups_overdue"
	TypePing              = "ping"
)

type Event struct {
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

func MakeEvent(reqID, typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:      typ,
		Version:   1,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}
