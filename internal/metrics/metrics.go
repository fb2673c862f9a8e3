package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for report generation, the low-frequency
// registry and the HTTP API. All methods are safe on a nil receiver.
type Metrics struct {
	// Report computation latency by report name
	ReportLatency *prometheus.HistogramVec

	// Records dropped at ingestion by entity
	RejectedRows *prometheus.CounterVec

	// Students flagged by the low-frequency policy on each preview or apply
	FlaggedStudents prometheus.Gauge

	// Students actually deactivated
	Deactivations prometheus.Counter

	// HTTP requests by route and status class
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ReportLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ebd_report_duration_seconds",
			Help:    "Duration of report computations including snapshot loading",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"report"}), // report: "classes", "students", "trend", "dashboard", "low_frequency"

		RejectedRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ebd_ingest_rejected_total",
			Help: "Rows dropped by boundary validation, by entity",
		}, []string{"entity"}),

		FlaggedStudents: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ebd_low_frequency_flagged_students",
			Help: "Students flagged for deactivation by the last policy evaluation",
		}),

		Deactivations: factory.NewCounter(prometheus.CounterOpts{
			Name: "ebd_low_frequency_deactivations_total",
			Help: "Students deactivated by the low-frequency policy",
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ebd_http_requests_total",
			Help: "HTTP requests by route pattern and status",
		}, []string{"route", "status"}),

		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ebd_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveReport records how long a report took.
func (m *Metrics) ObserveReport(report string, d time.Duration) {
	if m != nil {
		m.ReportLatency.WithLabelValues(report).Observe(d.Seconds())
	}
}

// AddRejected counts rows dropped at ingestion.
func (m *Metrics) AddRejected(entity string, n int) {
	if m != nil && n > 0 {
		m.RejectedRows.WithLabelValues(entity).Add(float64(n))
	}
}

// SetFlagged records the size of the latest flagged set.
func (m *Metrics) SetFlagged(n int) {
	if m != nil {
		m.FlaggedStudents.Set(float64(n))
	}
}

// AddDeactivations counts applied deactivations.
func (m *Metrics) AddDeactivations(n int) {
	if m != nil && n > 0 {
		m.Deactivations.Add(float64(n))
	}
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(route, statusClass(status)).Inc()
		m.HTTPLatency.WithLabelValues(route).Observe(d.Seconds())
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
