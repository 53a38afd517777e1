package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// report pipeline.
type Metrics struct {
	ReportsCreated   prometheus.Counter
	PipelineFailures *prometheus.CounterVec // labels: stage={weather,store}
	PipelineDuration prometheus.Histogram

	// Provider call metrics.
	WeatherAPIDuration prometheus.Histogram
	CommentaryRequests *prometheus.CounterVec // labels: outcome={success,error,empty}
	NotifyAttempts     *prometheus.CounterVec // labels: outcome={sent,skipped,failed}
	EventsPublished    *prometheus.CounterVec // labels: outcome={success,error}

	CommentaryEnabled prometheus.Gauge
	EmailEnabled      prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReportsCreated,
		m.PipelineFailures,
		m.PipelineDuration,
		m.WeatherAPIDuration,
		m.CommentaryRequests,
		m.NotifyAttempts,
		m.EventsPublished,
		m.CommentaryEnabled,
		m.EmailEnabled,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ReportsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_report",
			Name:      "reports_created_total",
			Help:      "Total reports persisted by successful pipeline runs.",
		}),
		PipelineFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_report",
			Name:      "pipeline_failures_total",
			Help:      "Mandatory-step failures by stage.",
		}, []string{"stage"}),
		PipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_report",
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of a complete pipeline run.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		WeatherAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_report",
			Name:      "weather_api_duration_seconds",
			Help:      "Weather provider request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		CommentaryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_report",
			Name:      "commentary_requests_total",
			Help:      "Commentary generation attempts by outcome.",
		}, []string{"outcome"}),
		NotifyAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_report",
			Name:      "notify_attempts_total",
			Help:      "Email delivery attempts by outcome.",
		}, []string{"outcome"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_report",
			Name:      "events_published_total",
			Help:      "Report-created event publications by outcome.",
		}, []string{"outcome"}),
		CommentaryEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_report",
			Name:      "commentary_enabled",
			Help:      "1 when AI commentary generation is enabled, 0 otherwise.",
		}),
		EmailEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_report",
			Name:      "email_enabled",
			Help:      "1 when email notification is enabled, 0 otherwise.",
		}),
	}
}
