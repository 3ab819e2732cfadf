package httpapi

import (
	"database/sql"
	"net/http"

	"jobtrack-engine/internal/analytics"
	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/store"
)

type AnalyticsHandler struct {
	DB *sql.DB
}

func (h AnalyticsHandler) jobs(r *http.Request) ([]domain.Job, error) {
	return store.ListJobs(r.Context(), h.DB, OwnerFrom(r.Context()))
}

func (h AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, analytics.Summarize(jobs))
}

func (h AnalyticsHandler) Conversion(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, analytics.ConversionRates(jobs))
}

func (h AnalyticsHandler) Outcomes(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, analytics.OutcomeRates(jobs))
}
