package httpapi

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-engine/internal/config"
	"jobtrack-engine/internal/domain"
	"jobtrack-engine/internal/events"
	"jobtrack-engine/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()
	return newTestServerWithCfg(t, nil)
}

// newTestServerWithCfg builds the same middleware chain main() wires, so
// tests exercise the handlers exactly as the running engine serves them.
func newTestServerWithCfg(t *testing.T, mutate func(*config.Config)) (*httptest.Server, *sql.DB) {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db.Pool))

	var cfg config.Config
	cfg.App.Port = 38472
	cfg.Auth.DefaultOwner = "local"
	cfg.Reminders.SweepSeconds = 300
	if mutate != nil {
		mutate(&cfg)
	}

	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	mux := NewMux(Deps{
		DB:          db.Pool,
		Hub:         events.NewHub(),
		CfgVal:      &cfgVal,
		UserCfgPath: filepath.Join(t.TempDir(), "config.yml"),
		LoadCfg:     func() (config.Config, error) { return cfg, nil },
	})

	handler := Chain(mux, Cors, RequestID, Recover, AccessLog, Owner(&cfgVal))
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, db.Pool
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return res
}

func decodeBody[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	defer res.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}

func createJob(t *testing.T, srv *httptest.Server, body map[string]any) domain.Job {
	t.Helper()
	res := doJSON(t, http.MethodPost, srv.URL+"/api/jobs", body)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	return decodeBody[domain.Job](t, res)
}

func TestCreateAndListJobs(t *testing.T) {
	srv, _ := newTestServer(t)

	j := createJob(t, srv, map[string]any{"company": "Acme", "role": "Engineer"})
	assert.Equal(t, domain.StatusSaved, j.Status)
	assert.Equal(t, "Acme", j.Company)

	res := doJSON(t, http.MethodGet, srv.URL+"/api/jobs", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	jobs := decodeBody[[]domain.Job](t, res)
	require.Len(t, jobs, 1)
	assert.Equal(t, j.ID, jobs[0].ID)
}

func TestCreateJobValidationError(t *testing.T) {
	srv, _ := newTestServer(t)

	res := doJSON(t, http.MethodPost, srv.URL+"/api/jobs", map[string]any{"role": "Engineer"})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	e := decodeBody[APIError](t, res)
	assert.Equal(t, "validation_error", e.Error.Code)
	assert.NotEmpty(t, e.Error.RequestID)
}

func TestStatusUpdateFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	j := createJob(t, srv, map[string]any{"company": "Acme", "role": "Engineer"})

	url := fmt.Sprintf("%s/api/jobs/%d/status", srv.URL, j.ID)

	res := doJSON(t, http.MethodPut, url, map[string]any{"status": "APPLIED"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	change := decodeBody[domain.StatusChange](t, res)
	assert.Equal(t, domain.StatusSaved, change.From)
	assert.Equal(t, domain.StatusApplied, change.To)

	// Same status again: rejected, history untouched.
	res = doJSON(t, http.MethodPut, url, map[string]any{"status": "APPLIED"})
	require.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, "noop_transition", decodeBody[APIError](t, res).Error.Code)

	res = doJSON(t, http.MethodPut, url, map[string]any{"status": "GHOSTED"})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "invalid_status", decodeBody[APIError](t, res).Error.Code)

	res = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/jobs/%d/history", srv.URL, j.ID), nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	hist := decodeBody[[]domain.StatusHistoryEntry](t, res)
	require.Len(t, hist, 1)
	assert.Equal(t, domain.StatusSaved, hist[0].OldStatus)
	assert.Equal(t, domain.StatusApplied, hist[0].NewStatus)
}

func TestStatusUpdateUnknownJob(t *testing.T) {
	srv, _ := newTestServer(t)

	res := doJSON(t, http.MethodPut, srv.URL+"/api/jobs/999/status", map[string]any{"status": "APPLIED"})
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "not_found", decodeBody[APIError](t, res).Error.Code)
}

func TestDeleteJobIsIdempotent(t *testing.T) {
	srv, _ := newTestServer(t)
	j := createJob(t, srv, map[string]any{"company": "Acme", "role": "Engineer"})

	url := fmt.Sprintf("%s/api/jobs/%d", srv.URL, j.ID)
	for i := 0; i < 2; i++ {
		res := doJSON(t, http.MethodDelete, url, nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		res.Body.Close()
	}

	res := doJSON(t, http.MethodGet, srv.URL+"/api/jobs", nil)
	assert.Empty(t, decodeBody[[]domain.Job](t, res))
}

func TestFollowUpEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	j := createJob(t, srv, map[string]any{"company": "Acme", "role": "Engineer"})

	fuURL := fmt.Sprintf("%s/api/jobs/%d/followup", srv.URL, j.ID)

	res := doJSON(t, http.MethodPost, fuURL, map[string]any{"followUpDate": "2020-01-01", "note": "ping"})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	res.Body.Close()

	// Past date, not completed: shows up overdue.
	res = doJSON(t, http.MethodGet, srv.URL+"/api/jobs/followups/overdue", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	overdue := decodeBody[[]domain.OverdueFollowUp](t, res)
	require.Len(t, overdue, 1)
	assert.Equal(t, j.ID, overdue[0].JobID)
	assert.Equal(t, "Acme", overdue[0].Company)
	assert.Equal(t, "Engineer", overdue[0].Role)

	res = doJSON(t, http.MethodGet, fuURL, nil)
	got := decodeBody[map[string]any](t, res)
	assert.Equal(t, true, got["isOverdue"])

	res = doJSON(t, http.MethodPut, fuURL+"/complete", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	res = doJSON(t, http.MethodGet, srv.URL+"/api/jobs/followups/overdue", nil)
	assert.Empty(t, decodeBody[[]domain.OverdueFollowUp](t, res))
}

func TestCompleteWithoutFollowUp(t *testing.T) {
	srv, _ := newTestServer(t)
	j := createJob(t, srv, map[string]any{"company": "Acme", "role": "Engineer"})

	res := doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/jobs/%d/followup/complete", srv.URL, j.ID), nil)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	res.Body.Close()
}

func TestAnalyticsEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, st := range []string{"APPLIED", "INTERVIEW", "OFFER", "REJECTED"} {
		createJob(t, srv, map[string]any{"company": "Acme", "role": "Engineer", "status": st})
	}

	res := doJSON(t, http.MethodGet, srv.URL+"/api/analytics/overview", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	overview := decodeBody[map[string]any](t, res)
	assert.EqualValues(t, 4, overview["totalApplications"])
	assert.EqualValues(t, 1, overview["offer"])

	res = doJSON(t, http.MethodGet, srv.URL+"/api/analytics/outcomes", nil)
	outcomes := decodeBody[map[string]float64](t, res)
	assert.Equal(t, 25.0, outcomes["offerSuccessRate"])
	assert.Equal(t, 25.0, outcomes["rejectionRate"])

	res = doJSON(t, http.MethodGet, srv.URL+"/api/analytics/conversion", nil)
	conversion := decodeBody[map[string]float64](t, res)
	assert.Equal(t, 66.7, conversion["appliedToInterviewRate"])
	assert.Equal(t, 50.0, conversion["interviewToOfferRate"])
}

func TestOwnerHeaderScopesData(t *testing.T) {
	srv, _ := newTestServer(t)
	createJob(t, srv, map[string]any{"company": "Acme", "role": "Engineer"})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/jobs", nil)
	require.NoError(t, err)
	req.Header.Set("X-Owner", "someone-else")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Empty(t, decodeBody[[]domain.Job](t, res))
}

func TestEventsStreamThroughFullChain(t *testing.T) {
	srv, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	// The handler flushes a ping envelope on connect; if the wrapped writer
	// cannot flush, we would see a 500 instead of this frame.
	br := bufio.NewReader(res.Body)
	line, err := br.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: message\n", line)
	line, err = br.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"type":"ping"`)
}

func TestOwnerAuthSkipsEnginePaths(t *testing.T) {
	srv, _ := newTestServerWithCfg(t, func(cfg *config.Config) {
		cfg.Auth.DefaultOwner = ""
	})

	res := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	res = doJSON(t, http.MethodGet, srv.URL+"/api/jobs", nil)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "no_owner", decodeBody[APIError](t, res).Error.Code)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	res := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	body := decodeBody[map[string]any](t, res)
	assert.Equal(t, true, body["ok"])
}
