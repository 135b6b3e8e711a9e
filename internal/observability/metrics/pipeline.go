package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/legalsift/docsift/internal/core/domain"
)

// PipelineMetrics implements ports.PipelineObserver.
type PipelineMetrics struct {
	service string

	extractionTotal    *prometheus.CounterVec
	assessmentTotal    *prometheus.CounterVec
	assessmentDuration *prometheus.HistogramVec
}

func NewPipelineMetrics(registry prometheus.Registerer, service string) *PipelineMetrics {
	extractionTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsift",
			Subsystem: "pipeline",
			Name:      "extraction_total",
			Help:      "Text extractions by format and status (ok, empty, error).",
		},
		[]string{"service", "format", "status"},
	)
	assessmentTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docsift",
			Subsystem: "pipeline",
			Name:      "assessment_total",
			Help:      "Risk assessments by outcome (parsed, parse_error, schema_mismatch).",
		},
		[]string{"service", "outcome"},
	)
	assessmentDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docsift",
			Subsystem: "pipeline",
			Name:      "assessment_duration_seconds",
			Help:      "Risk assessment duration in seconds, completion call included.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"service", "outcome"},
	)

	registry.MustRegister(extractionTotal, assessmentTotal, assessmentDuration)

	return &PipelineMetrics{
		service:            service,
		extractionTotal:    extractionTotal,
		assessmentTotal:    assessmentTotal,
		assessmentDuration: assessmentDuration,
	}
}

func (m *PipelineMetrics) ObserveExtraction(format domain.FileFormat, status string) {
	if format == "" {
		format = "unknown"
	}
	m.extractionTotal.WithLabelValues(m.service, string(format), status).Inc()
}

func (m *PipelineMetrics) ObserveAssessment(outcome domain.AssessmentOutcome, duration time.Duration) {
	m.assessmentTotal.WithLabelValues(m.service, string(outcome)).Inc()
	m.assessmentDuration.WithLabelValues(m.service, string(outcome)).Observe(duration.Seconds())
}
