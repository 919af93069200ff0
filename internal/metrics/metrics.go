// Package metrics holds the Prometheus collectors for the meeting pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline stages observed by StageDuration.
const (
	StageTranscribe = "transcribe"
	StageInsights   = "insights"
	StagePersist    = "persist"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	InFlight        prometheus.Gauge
	StageDuration   *prometheus.HistogramVec
	PersistFailures *prometheus.CounterVec
	UploadBytes     prometheus.Histogram
}

// New creates the collectors on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "neuronote_requests_total",
				Help: "Processed audio requests by response status",
			},
			[]string{"status"},
		),
		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "neuronote_requests_in_flight",
				Help: "Audio requests currently being processed",
			},
		),
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "neuronote_stage_duration_seconds",
				Help:    "Time spent in each pipeline stage",
				Buckets: []float64{0.05, 0.25, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"stage"},
		),
		PersistFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "neuronote_persist_failures_total",
				Help: "Artifact saves that failed and were skipped",
			},
			[]string{"kind"},
		),
		UploadBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "neuronote_upload_bytes",
				Help:    "Size of uploaded audio files",
				Buckets: prometheus.ExponentialBuckets(64*1024, 4, 8),
			},
		),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordRequest(status int) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
}

// TrackInFlight increments the in-flight gauge and returns its decrement.
func (m *Metrics) TrackInFlight() func() {
	if m == nil {
		return func() {}
	}
	m.InFlight.Inc()
	return m.InFlight.Dec
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) RecordPersistFailure(kind string) {
	if m == nil {
		return
	}
	m.PersistFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveUpload(bytes int64) {
	if m == nil {
		return
	}
	m.UploadBytes.Observe(float64(bytes))
}
