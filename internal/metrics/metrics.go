package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	// ReportsSubmitted counts accepted citizen reports by category.
	ReportsSubmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zelapb",
		Subsystem: "reports",
		Name:      "submitted_total",
		Help:      "Total number of citizen reports accepted, labeled by category.",
	}, []string{"category"})

	// StatusUpdates counts team status changes by target status.
	StatusUpdates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zelapb",
		Subsystem: "reports",
		Name:      "status_updates_total",
		Help:      "Total number of report status updates, labeled by new status.",
	}, []string{"status"})

	// Classifications counts classifier outcomes: classified or fallback.
	Classifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zelapb",
		Subsystem: "classifier",
		Name:      "outcomes_total",
		Help:      "Report classifications, labeled by outcome.",
	}, []string{"outcome"})

	ClassificationDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "zelapb",
		Subsystem: "classifier",
		Name:      "duration_seconds",
		Help:      "Time spent classifying a report, including fallbacks.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15, 30},
	})

	BroadcastsPosted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zelapb",
		Subsystem: "broadcasts",
		Name:      "posted_total",
		Help:      "Total number of announcements posted, labeled by target audience.",
	}, []string{"target"})

	Logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "zelapb",
		Subsystem: "sessions",
		Name:      "logins_total",
		Help:      "Sign-in attempts, labeled by role and result.",
	}, []string{"role", "result"})

	// MaintenanceMode is 1 while the maintenance gate is closed.
	MaintenanceMode = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "zelapb",
		Subsystem: "system",
		Name:      "maintenance_mode",
		Help:      "Whether maintenance mode is on.",
	})

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "zelapb",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, labeled by method and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "code"})
)

// Register registers the service metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ReportsSubmitted,
			StatusUpdates,
			Classifications,
			ClassificationDurationSeconds,
			BroadcastsPosted,
			Logins,
			MaintenanceMode,
			HTTPRequestDurationSeconds,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
