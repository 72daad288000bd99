package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_news"

// Metrics holds the Prometheus counters, histograms, and gauges for news generation.
type Metrics struct {
	ArticlesGenerated  *prometheus.CounterVec // labels: format={text,docx}
	MissingRecords     prometheus.Counter
	GenerationDuration *prometheus.HistogramVec // labels: format={text,docx}

	// Dataset metrics.
	DatasetRecords prometheus.Gauge
	DatasetLoads   *prometheus.CounterVec // labels: source={synthetic,file,upload}, outcome={success,error}

	// Publishing metrics.
	ArticlesPublished prometheus.Counter
	PublishErrors     prometheus.Counter

	// Digest metrics.
	DigestRunning prometheus.Gauge
	DigestRuns    *prometheus.CounterVec // labels: outcome={success,error}

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty,breaker_open}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		ArticlesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_generated_total",
			Help:      "Articles generated by output format.",
		}, []string{"format"}),
		MissingRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "missing_records_total",
			Help:      "Document requests for a date without a record.",
		}),
		GenerationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time to summarize, narrate and render one article.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"format"}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Number of records in the active dataset.",
		}),
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Dataset loads by source and outcome.",
		}, []string{"source", "outcome"}),
		ArticlesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_published_total",
			Help:      "Articles written to the news topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed article publishes.",
		}),
		DigestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "digest_running",
			Help:      "1 while the scheduled digest is running, 0 otherwise.",
		}),
		DigestRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digest_runs_total",
			Help:      "Scheduled digest attempts by outcome.",
		}, []string{"outcome"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when place names are resolved by geocoding, 0 otherwise.",
		}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ArticlesGenerated,
		m.MissingRecords,
		m.GenerationDuration,
		m.DatasetRecords,
		m.DatasetLoads,
		m.ArticlesPublished,
		m.PublishErrors,
		m.DigestRunning,
		m.DigestRuns,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	}
}
