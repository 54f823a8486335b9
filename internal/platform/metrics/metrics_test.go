package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Sathya-1307/Alumini-Mentorship1/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	t.Parallel()

	r := metrics.NewRecorder()
	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	r.RunCompleted(metrics.TriggerScheduled, true, 2*time.Second, now)
	r.RunCompleted(metrics.TriggerManual, false, time.Second, now)
	r.OccurrenceSent(7)
	r.OccurrenceSent(7)
	r.OccurrenceSent(3)
	r.Delivery("mentor", true)
	r.Delivery("mentee", false)
	r.Skipped("mentor_unresolved")
	r.CleanupCompleted(4, 1, 0)

	reg := r.Registry()
	count, err := testutil.GatherAndCount(reg,
		"mentorship_reminder_runs_total",
		"mentorship_reminder_occurrences_sent_total",
		"mentorship_reminder_deliveries_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	count, err = testutil.GatherAndCount(reg, "mentorship_cleanup_removed_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRecorder_NilIsNoop(t *testing.T) {
	t.Parallel()

	var r *metrics.Recorder
	assert.NotPanics(t, func() {
		r.RunCompleted(metrics.TriggerManual, true, time.Second, time.Now())
		r.OccurrenceSent(7)
		r.Delivery("mentor", true)
		r.Skipped("x")
		r.CleanupCompleted(1, 1, 1)
	})
	assert.Nil(t, r.Registry())
}

func TestRecorder_Handler(t *testing.T) {
	t.Parallel()

	r := metrics.NewRecorder()
	r.OccurrenceSent(3)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `mentorship_reminder_occurrences_sent_total{window_days="3"} 1`)
}
