package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "flight_risk"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// evaluation pipeline and the weather fetch layer.
type Metrics struct {
	MessagesConsumed prometheus.Counter
	MessagesProduced prometheus.Counter
	TransformErrors  prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Risk engine metrics.
	Evaluations        *prometheus.CounterVec // labels: phase, status={Ok,InsufficientData}
	EvaluationDuration prometheus.Histogram
	DegradedInputs     *prometheus.CounterVec // labels: source; inputs dropped after a fetch failure

	// Weather source metrics.
	WeatherFetches     *prometheus.CounterVec   // labels: source={metar,taf,airport,hazards,pireps}, outcome={success,error,empty}
	WeatherCache       *prometheus.CounterVec   // labels: source, result={hit,miss}
	WeatherAPIDuration *prometheus.HistogramVec // labels: source
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total flight events read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total risk assessments written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Total flight events that could not be evaluated.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-evaluate-load cycle.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "airport_evaluations_total",
			Help:      "Airport risk evaluations by phase and status.",
		}, []string{"phase", "status"}),
		EvaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "airport_evaluation_duration_seconds",
			Help:      "Time to gather inputs and evaluate one airport.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
		}),
		DegradedInputs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_inputs_total",
			Help:      "Evaluations that proceeded without a source after a fetch failure.",
		}, []string{"source"}),
		WeatherFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_fetches_total",
			Help:      "Weather source requests by source and outcome.",
		}, []string{"source", "outcome"}),
		WeatherCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_cache_total",
			Help:      "Weather cache lookups by source and result.",
		}, []string{"source", "result"}),
		WeatherAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "weather_api_duration_seconds",
			Help:      "Aviation weather API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}, []string{"source"}),
	}

	prometheus.MustRegister(
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.Evaluations,
		m.EvaluationDuration,
		m.DegradedInputs,
		m.WeatherFetches,
		m.WeatherCache,
		m.WeatherAPIDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		MessagesConsumed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "messages_consumed_total"}),
		MessagesProduced:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "messages_produced_total"}),
		TransformErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "transform_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "batch_processing_duration_seconds"}),
		Evaluations:             prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "airport_evaluations_total"}, []string{"phase", "status"}),
		EvaluationDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "airport_evaluation_duration_seconds"}),
		DegradedInputs:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "degraded_inputs_total"}, []string{"source"}),
		WeatherFetches:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "weather_fetches_total"}, []string{"source", "outcome"}),
		WeatherCache:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "weather_cache_total"}, []string{"source", "result"}),
		WeatherAPIDuration:      prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "weather_api_duration_seconds"}, []string{"source"}),
	}
}
