package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "paperlens"

// Metrics is safe to use as a nil pointer; every method becomes a no-op.
type Metrics struct {
	papersStored     prometheus.Counter
	uploadRejections *prometheus.CounterVec
	analysisCalls    *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	sweptFiles       prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		papersStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "papers_stored_total",
			Help:      "Papers analyzed and inserted into the store.",
		}),
		uploadRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_rejections_total",
			Help:      "Uploads rejected before a row was stored, by reason.",
		}, []string{"reason"}),
		analysisCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_calls_total",
			Help:      "Analysis client calls by kind and outcome.",
		}, []string{"kind", "outcome"}),
		analysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Latency of chat completion requests by kind.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 90},
		}, []string{"kind"}),
		sweptFiles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swept_upload_files_total",
			Help:      "Stale files removed from the upload directory.",
		}),
	}
	reg.MustRegister(m.papersStored, m.uploadRejections, m.analysisCalls, m.analysisDuration, m.sweptFiles)
	return m
}

func (m *Metrics) PaperStored() {
	if m == nil {
		return
	}
	m.papersStored.Inc()
}

func (m *Metrics) UploadRejected(reason string) {
	if m == nil {
		return
	}
	m.uploadRejections.WithLabelValues(reason).Inc()
}

// AnalysisCall records one call; outcome is "ok", "error" or "unconfigured".
func (m *Metrics) AnalysisCall(kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.analysisCalls.WithLabelValues(kind, outcome).Inc()
	if outcome != "unconfigured" {
		m.analysisDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	}
}

func (m *Metrics) FilesSwept(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.sweptFiles.Add(float64(n))
}
