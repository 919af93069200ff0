package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRequest(t *testing.T) {
	m := New()
	m.RecordRequest(http.StatusOK)
	m.RecordRequest(http.StatusOK)
	m.RecordRequest(http.StatusBadRequest)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("400")))
}

func TestTrackInFlight(t *testing.T) {
	m := New()
	done := m.TrackInFlight()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InFlight))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
}

func TestRecordPersistFailure(t *testing.T) {
	m := New()
	m.RecordPersistFailure("insights")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistFailures.WithLabelValues("insights")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.PersistFailures.WithLabelValues("transcript")))
}

func TestObserveStage(t *testing.T) {
	m := New()
	m.ObserveStage(StageTranscribe, 1500*time.Millisecond)
	m.ObserveStage(StageInsights, 2*time.Second)

	assert.Equal(t, 2, testutil.CollectAndCount(m.StageDuration, "neuronote_stage_duration_seconds"))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest(200)
		m.TrackInFlight()()
		m.ObserveStage(StagePersist, time.Second)
		m.RecordPersistFailure("transcript")
		m.ObserveUpload(10)
	})
	assert.Nil(t, m.Registry())
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordRequest(http.StatusInternalServerError)
	m.ObserveUpload(1024)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `neuronote_requests_total{status="500"} 1`))
	assert.Contains(t, body, "neuronote_upload_bytes_count 1")
	assert.Contains(t, body, "go_goroutines")
}
