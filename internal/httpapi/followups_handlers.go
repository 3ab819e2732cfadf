package httpapi

import (
	"database/sql"
	"net/http"
	"time"

	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/events"
	"jobtrack-engine/internal/store"
)

type FollowUpsHandler struct {
	DB  *sql.DB
	Hub *events.Hub
}

func (h FollowUpsHandler) Put(w http.ResponseWriter, r *http.Request, jobID int64) {
	var req followUpReq
	if !decodeJSON(w, r, &req) {
		return
	}

	f, err := store.PutFollowUp(r.Context(), h.DB, OwnerFrom(r.Context()), jobID, req.FollowUpDate, req.Note)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeFollowUpSaved, map[string]any{"jobId": jobID}))
	WriteJSON(w, http.StatusCreated, f)
}

func (h FollowUpsHandler) Get(w http.ResponseWriter, r *http.Request, jobID int64) {
	f, err := store.GetFollowUp(r.Context(), h.DB, OwnerFrom(r.Context()), jobID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if f == nil {
		// No reminder is a normal state, not an error: the UI shows an
		// empty slot.
		writeJSON(w, map[string]any{})
		return
	}

	// isOverdue is derived at read time, never persisted.
	writeJSON(w, map[string]any{
		"id":           f.ID,
		"jobId":        f.JobID,
		"followUpDate": f.FollowUpDate,
		"note":         f.Note,
		"completed":    f.Completed,
		"isOverdue":    f.Overdue(time.Now().UTC()),
	})
}

func (h FollowUpsHandler) Complete(w http.ResponseWriter, r *http.Request, jobID int64) {
	if err := store.CompleteFollowUp(r.Context(), h.DB, OwnerFrom(r.Context()), jobID); err != nil {
		writeDomainError(w, r, err)
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeFollowUpCompleted, map[string]any{"jobId": jobID}))
	writeJSON(w, map[string]any{"ok": true, "jobId": jobID})
}

func (h FollowUpsHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListOverdue(r.Context(), h.DB, OwnerFrom(r.Context()), time.Now().UTC())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.OverdueFollowUp{}
	}
	writeJSON(w, items)
}
