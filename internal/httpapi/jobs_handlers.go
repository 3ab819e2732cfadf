package httpapi

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/events"
	"jobtrack-engine/internal/linkmeta"
	"jobtrack-engine/internal/store"
)

type JobsHandler struct {
	DB      *sql.DB
	Hub     *events.Hub
	Preview *linkmeta.Fetcher
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := store.ListJobs(r.Context(), h.DB, OwnerFrom(r.Context()))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	writeJSON(w, jobs)
}

func (h JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createJobReq
	if !decodeJSON(w, r, &req) {
		return
	}

	job, err := store.CreateJob(r.Context(), h.DB, OwnerFrom(r.Context()), store.NewJob{
		Company:       req.Company,
		Role:          req.Role,
		Status:        req.Status,
		Location:      req.Location,
		CTC:           req.CTC,
		JobLink:       req.JobLink,
		AppliedDate:   req.AppliedDate,
		ResumeVersion: req.ResumeVersion,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeJobCreated, map[string]any{"id": job.ID}))
	WriteJSON(w, http.StatusCreated, job)
}

// ByPath dispatches everything under /api/jobs/. The shape follows the UI's
// URLs: {id}, {id}/status, {id}/history, {id}/followup,
// {id}/followup/complete, {id}/link/preview, plus followups/overdue.
func (h JobsHandler) ByPath(fu FollowUpsHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/jobs/"), "/")

		if rest == "followups/overdue" {
			if r.Method != http.MethodGet {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			fu.ListOverdue(w, r)
			return
		}

		seg := strings.Split(rest, "/")
		id, err := strconv.ParseInt(seg[0], 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		switch {
		case len(seg) == 1 && r.Method == http.MethodDelete:
			h.Delete(w, r, id)
		case len(seg) == 2 && seg[1] == "status" && r.Method == http.MethodPut:
			h.UpdateStatus(w, r, id)
		case len(seg) == 2 && seg[1] == "history" && r.Method == http.MethodGet:
			h.History(w, r, id)
		case len(seg) == 2 && seg[1] == "followup" && r.Method == http.MethodPost:
			fu.Put(w, r, id)
		case len(seg) == 2 && seg[1] == "followup" && r.Method == http.MethodGet:
			fu.Get(w, r, id)
		case len(seg) == 3 && seg[1] == "followup" && seg[2] == "complete" && r.Method == http.MethodPut:
			fu.Complete(w, r, id)
		case len(seg) == 3 && seg[1] == "link" && seg[2] == "preview" && r.Method == http.MethodGet:
			h.LinkPreview(w, r, id)
		default:
			http.NotFound(w, r)
		}
	}
}

func (h JobsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, id int64) {
	var req updateStatusReq
	if !decodeJSON(w, r, &req) {
		return
	}

	change, err := store.UpdateStatus(r.Context(), h.DB, OwnerFrom(r.Context()), id, domain.Status(strings.TrimSpace(req.Status)))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeStatusChanged, map[string]any{
		"id": id, "oldStatus": change.From, "newStatus": change.To,
	}))
	writeJSON(w, change)
}

func (h JobsHandler) History(w http.ResponseWriter, r *http.Request, id int64) {
	entries, err := store.GetHistory(r.Context(), h.DB, OwnerFrom(r.Context()), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, entries)
}

func (h JobsHandler) Delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := store.DeleteJob(r.Context(), h.DB, OwnerFrom(r.Context()), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeJobDeleted, map[string]any{"id": id}))
	writeJSON(w, map[string]any{"ok": true, "id": id})
}

func (h JobsHandler) LinkPreview(w http.ResponseWriter, r *http.Request, id int64) {
	if h.Preview == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "preview_disabled", "link previews are disabled in config")
		return
	}

	job, err := store.GetJob(r.Context(), h.DB, OwnerFrom(r.Context()), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if job.JobLink == "" {
		WriteError(w, r, http.StatusNotFound, "no_link", "job has no link to preview")
		return
	}

	p, err := h.Preview.Fetch(r.Context(), job.JobLink)
	if err != nil {
		WriteError(w, r, http.StatusBadGateway, "preview_failed", err.Error())
		return
	}
	writeJSON(w, p)
}
