// Package api_test tests the HTTP status interface.
package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leadscope/practicescout/internal/api"
	"github.com/leadscope/practicescout/internal/scout"
)

type fakeProgress struct {
	runID    string
	started  time.Time
	counters scout.RunCounters
}

func (f *fakeProgress) Snapshot() (string, time.Time, scout.RunCounters) {
	return f.runID, f.started, f.counters
}

func TestHealthz(t *testing.T) {
	srv := api.NewServer(&fakeProgress{}, zap.NewNop())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRunStatus(t *testing.T) {
	progress := &fakeProgress{
		runID:   "run-42",
		started: time.Now().Add(-time.Minute).UTC(),
		counters: scout.RunCounters{
			RowsRead:      10,
			RowsCompleted: 7,
			SearchCalls:   31,
		},
	}
	srv := api.NewServer(progress, zap.NewNop())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/run/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		RunID         string            `json:"run_id"`
		Started       time.Time         `json:"started"`
		UptimeSeconds int64             `json:"uptime_seconds"`
		Counters      scout.RunCounters `json:"counters"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "run-42", body.RunID)
	assert.Equal(t, progress.started.Unix(), body.Started.Unix())
	assert.GreaterOrEqual(t, body.UptimeSeconds, int64(60))
	assert.Equal(t, int64(7), body.Counters.RowsCompleted)
	assert.Equal(t, int64(31), body.Counters.SearchCalls)
}

func TestRunStatusWithoutProgressSource(t *testing.T) {
	srv := api.NewServer(nil, zap.NewNop())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/run/status", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := api.NewServer(&fakeProgress{}, zap.NewNop())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
