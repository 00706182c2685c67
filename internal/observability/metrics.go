package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges shared
// by the scraper and the map server.
type Metrics struct {
	ScrapeRuns      prometheus.Counter
	ScrapeFailures  prometheus.Counter
	ScrapeDuration  prometheus.Histogram
	RowsScraped     prometheus.Gauge
	RowsPublished   prometheus.Counter
	PublishEnabled  prometheus.Gauge
	PipelineRunning prometheus.Gauge

	// Render path metrics.
	RenderRequests *prometheus.CounterVec   // labels: kind={field,legend,chart}, outcome={ok,bad_request,not_found,error}
	RenderDuration *prometheus.HistogramVec // labels: kind
	DatasetCities  prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.ScrapeRuns,
		m.ScrapeFailures,
		m.ScrapeDuration,
		m.RowsScraped,
		m.RowsPublished,
		m.PublishEnabled,
		m.PipelineRunning,
		m.RenderRequests,
		m.RenderDuration,
		m.DatasetCities,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, so
// tests can construct as many instances as they like without
// "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ScrapeRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "citytemp",
			Name:      "scrape_runs_total",
			Help:      "Total completed scrape runs.",
		}),
		ScrapeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "citytemp",
			Name:      "scrape_failures_total",
			Help:      "Total scrape runs that ended in an error.",
		}),
		ScrapeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "citytemp",
			Name:      "scrape_duration_seconds",
			Help:      "Duration of a complete fetch-parse-store cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		RowsScraped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "citytemp",
			Name:      "rows_scraped",
			Help:      "City rows extracted by the most recent scrape run.",
		}),
		RowsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "citytemp",
			Name:      "rows_published_total",
			Help:      "Total rows published to the broker.",
		}),
		PublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "citytemp",
			Name:      "publish_enabled",
			Help:      "1 when row publishing is enabled, 0 otherwise.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "citytemp",
			Name:      "pipeline_running",
			Help:      "1 while a scrape run is in progress.",
		}),
		RenderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "citytemp",
			Name:      "render_requests_total",
			Help:      "Image render requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "citytemp",
			Name:      "render_duration_seconds",
			Help:      "Image render duration in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"kind"}),
		DatasetCities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "citytemp",
			Name:      "dataset_cities",
			Help:      "Number of city records in the loaded dataset.",
		}),
	}
}
