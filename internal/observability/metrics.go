// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Frame ingestion metrics
	FramesReceived prometheus.Counter
	FramesRejected *prometheus.CounterVec
	FrameLatency   prometheus.Histogram
	WSConnections  prometheus.Gauge

	// Swing pipeline metrics
	SwingsDetected     prometheus.Counter
	SwingsSuppressed   prometheus.Counter
	SwingScores        prometheus.Histogram
	FeedbackByCategory *prometheus.CounterVec

	// Commentary provider metrics
	CommentaryRequests prometheus.Counter
	CommentaryErrors   prometheus.Counter
	CommentaryLatency  prometheus.Histogram

	// Session metrics
	SessionsStarted prometheus.Counter
	SessionsStopped prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "swing_coach"
	}

	return &Metrics{
		FramesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "frames_received_total",
			Help:      "Total number of pose frames received",
		}),
		FramesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "frames_rejected_total",
			Help:      "Total number of pose frames rejected by reason",
		}, []string{"reason"}),
		FrameLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "frame_processing_latency_seconds",
			Help:      "Per-frame core processing latency in seconds",
			Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025},
		}),
		WSConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "ws_connections",
			Help:      "Number of active pose-source WebSocket connections",
		}),

		SwingsDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detector",
			Name:      "swings_detected_total",
			Help:      "Total number of confirmed swings",
		}),
		SwingsSuppressed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detector",
			Name:      "swings_suppressed_total",
			Help:      "Total number of swings suppressed by the session lockout",
		}),
		SwingScores: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "feedback",
			Name:      "swing_score",
			Help:      "Distribution of composite swing scores",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		FeedbackByCategory: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feedback",
			Name:      "results_total",
			Help:      "Total number of feedback results by category",
		}, []string{"category"}),

		CommentaryRequests: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coach",
			Name:      "commentary_requests_total",
			Help:      "Total number of commentary provider requests",
		}),
		CommentaryErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coach",
			Name:      "commentary_errors_total",
			Help:      "Total number of commentary provider failures",
		}),
		CommentaryLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "coach",
			Name:      "commentary_latency_seconds",
			Help:      "Commentary provider round-trip latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "started_total",
			Help:      "Total number of coaching sessions started",
		}),
		SessionsStopped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "stopped_total",
			Help:      "Total number of coaching sessions stopped",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordFrameReceived increments the frames received counter.
func RecordFrameReceived() {
	DefaultMetrics.FramesReceived.Inc()
}

// RecordFrameRejected records a rejected frame by reason.
func RecordFrameRejected(reason string) {
	DefaultMetrics.FramesRejected.WithLabelValues(reason).Inc()
}

// RecordFrameLatency records per-frame core processing latency.
func RecordFrameLatency(seconds float64) {
	DefaultMetrics.FrameLatency.Observe(seconds)
}

// RecordSwingDetected increments the confirmed swing counter.
func RecordSwingDetected() {
	DefaultMetrics.SwingsDetected.Inc()
}

// RecordSwingSuppressed increments the lockout suppression counter.
func RecordSwingSuppressed() {
	DefaultMetrics.SwingsSuppressed.Inc()
}

// RecordFeedback records a feedback result.
func RecordFeedback(score int, category string) {
	DefaultMetrics.SwingScores.Observe(float64(score))
	DefaultMetrics.FeedbackByCategory.WithLabelValues(category).Inc()
}

// RecordCommentary records one provider round trip.
func RecordCommentary(seconds float64, err error) {
	DefaultMetrics.CommentaryRequests.Inc()
	DefaultMetrics.CommentaryLatency.Observe(seconds)
	if err != nil {
		DefaultMetrics.CommentaryErrors.Inc()
	}
}

// RecordSessionStarted increments the sessions started counter.
func RecordSessionStarted() {
	DefaultMetrics.SessionsStarted.Inc()
}

// RecordSessionStopped increments the sessions stopped counter.
func RecordSessionStopped() {
	DefaultMetrics.SessionsStopped.Inc()
}
