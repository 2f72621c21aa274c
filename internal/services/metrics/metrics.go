package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess     = "success"
	OutcomeConfigError = "config_error"
	OutcomeError       = "error"
)

// Metrics holds the pipeline collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	runs          *prometheus.CounterVec
	faces         prometheus.Histogram
	duration      prometheus.Histogram
	uploads       *prometheus.CounterVec
	eventsDropped prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facelens_pipeline_runs_total",
			Help: "Detection pipeline runs by outcome",
		}, []string{"outcome"}),
		faces: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "facelens_faces_detected",
			Help:    "Faces found per successful run",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "facelens_pipeline_duration_seconds",
			Help:    "Wall time of grayscale, detection and annotation",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facelens_uploads_total",
			Help: "Uploaded images by container format or rejection reason",
		}, []string{"format"}),
		eventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "facelens_events_publish_errors_total",
			Help: "Detection events that could not be published to NATS",
		}),
	}

	m.registry.MustRegister(
		m.runs,
		m.faces,
		m.duration,
		m.uploads,
		m.eventsDropped,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RegisterSessionGauge exposes the live session count.
func (m *Metrics) RegisterSessionGauge(count func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "facelens_active_sessions",
			Help: "Sessions currently held in memory",
		},
		func() float64 { return float64(count()) },
	))
}

// RegisterDetectorReady exposes whether the face detector has loaded.
func (m *Metrics) RegisterDetectorReady(ready func() bool) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "facelens_detector_ready",
			Help: "1 when the face detector model is loaded",
		},
		func() float64 {
			if ready() {
				return 1
			}
			return 0
		},
	))
}

func (m *Metrics) ObserveRun(outcome string, faces int, took time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		m.faces.Observe(float64(faces))
		m.duration.Observe(took.Seconds())
	}
}

func (m *Metrics) ObserveUpload(format string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(format).Inc()
}

func (m *Metrics) EventPublishFailed() {
	if m == nil {
		return
	}
	m.eventsDropped.Inc()
}

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
