package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain labels for per-collection metrics.
const (
	DomainCatalog = "catalog"
	DomainBlog    = "blog"
	DomainMedical = "medical"
)

// Metrics holds all Prometheus metrics for the record service.
type Metrics struct {
	RecordsCreated   *prometheus.CounterVec
	RecordsDeleted   *prometheus.CounterVec
	ValidationFailed *prometheus.CounterVec
	SearchDuration   *prometheus.HistogramVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		RecordsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "recordhub_records_created_total",
			Help: "Total number of records created, by domain",
		}, []string{"domain"}),
		RecordsDeleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "recordhub_records_deleted_total",
			Help: "Total number of records deleted (hard or soft), by domain",
		}, []string{"domain"}),
		ValidationFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "recordhub_validation_failures_total",
			Help: "Total number of create/update calls rejected by validation, by domain",
		}, []string{"domain"}),
		SearchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recordhub_search_duration_seconds",
			Help:    "Duration of filtered list operations, by domain",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"domain"}),
	}
}

// RecordCreated records a successful record creation for a domain.
func (m *Metrics) RecordCreated(domain string) {
	m.RecordsCreated.WithLabelValues(domain).Inc()
}

// RecordDeleted records a record deletion for a domain.
func (m *Metrics) RecordDeleted(domain string) {
	m.RecordsDeleted.WithLabelValues(domain).Inc()
}

// RecordValidationFailure records a rejected mutation for a domain.
func (m *Metrics) RecordValidationFailure(domain string) {
	m.ValidationFailed.WithLabelValues(domain).Inc()
}

// ObserveSearch records the duration of a filtered list operation for a
// domain. Call with time.Now() taken at the start of the operation.
func (m *Metrics) ObserveSearch(domain string, start time.Time) {
	m.SearchDuration.WithLabelValues(domain).Observe(time.Since(start).Seconds())
}
