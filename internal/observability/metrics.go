package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type moduleMetrics struct {
	tabOperations   *prometheus.CounterVec
	openTabs        *prometheus.GaugeVec
	diffTransitions *prometheus.CounterVec

	sessionSaveTotal    *prometheus.CounterVec
	sessionSaveDuration prometheus.Histogram
	sessionLoadTotal    *prometheus.CounterVec
	sessionLoadDuration prometheus.Histogram
}

var (
	metricsOnce sync.Once
	metricsInst *moduleMetrics
)

func getMetrics() *moduleMetrics {
	metricsOnce.Do(func() {
		m := &moduleMetrics{
			tabOperations: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "jsonstudio_tab_operations_total",
					Help: "Tab operations by track, operation and result (applied or ignored).",
				},
				[]string{"track", "op", "result"},
			),
			openTabs: prometheus.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "jsonstudio_open_tabs",
					Help: "Current tab count by track.",
				},
				[]string{"track"},
			),
			diffTransitions: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "jsonstudio_diff_transitions_total",
					Help: "Diff mode enter/exit transitions.",
				},
				[]string{"transition"},
			),
			sessionSaveTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "jsonstudio_session_saves_total",
					Help: "Session saves by status.",
				},
				[]string{"status"},
			),
			sessionSaveDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "jsonstudio_session_save_duration_seconds",
					Help:    "Session save duration in seconds.",
					Buckets: prometheus.DefBuckets,
				},
			),
			sessionLoadTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "jsonstudio_session_loads_total",
					Help: "Session loads by outcome (restored, empty, corrupt).",
				},
				[]string{"outcome"},
			),
			sessionLoadDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "jsonstudio_session_load_duration_seconds",
					Help:    "Session load duration in seconds.",
					Buckets: prometheus.DefBuckets,
				},
			),
		}

		prometheus.MustRegister(
			m.tabOperations,
			m.openTabs,
			m.diffTransitions,
			m.sessionSaveTotal,
			m.sessionSaveDuration,
			m.sessionLoadTotal,
			m.sessionLoadDuration,
		)

		metricsInst = m
	})

	return metricsInst
}

// EnsureRegistered initializes and registers metrics the first time it is called.
func EnsureRegistered() {
	_ = getMetrics()
}

func MetricsHandler() http.Handler {
	EnsureRegistered()
	return promhttp.Handler()
}

func RecordTabOperation(track, op string, applied bool) {
	m := getMetrics()
	result := "ignored"
	if applied {
		result = "applied"
	}
	m.tabOperations.WithLabelValues(track, op, result).Inc()
}

func SetOpenTabs(track string, count int) {
	m := getMetrics()
	m.openTabs.WithLabelValues(track).Set(float64(count))
}

func RecordDiffTransition(transition string) {
	m := getMetrics()
	m.diffTransitions.WithLabelValues(transition).Inc()
}

func RecordSessionSave(duration time.Duration, success bool) {
	m := getMetrics()
	status := "error"
	if success {
		status = "success"
	}
	m.sessionSaveTotal.WithLabelValues(status).Inc()
	m.sessionSaveDuration.Observe(duration.Seconds())
}

func RecordSessionLoad(duration time.Duration, outcome string) {
	m := getMetrics()
	m.sessionLoadTotal.WithLabelValues(outcome).Inc()
	m.sessionLoadDuration.Observe(duration.Seconds())
}
