package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the repository layer. A nil *Metrics records nothing.
type Metrics struct {
	Transactions    *prometheus.CounterVec
	TransactItems   *prometheus.CounterVec
	QueryDuration   *prometheus.HistogramVec
	BulkWriteRows   prometheus.Counter
	BulkRetries     *prometheus.CounterVec
	PublishFailures prometheus.Counter
}

// NewMetrics creates and registers the metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Transactions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cpm_repository_transactions_total",
			Help: "Atomic multi-item transactions executed, by entity and outcome",
		}, []string{"entity", "outcome"}),
		TransactItems: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cpm_repository_transact_items_total",
			Help: "Conditional put/delete items sent in transactions, by entity",
		}, []string{"entity"}),
		QueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cpm_repository_query_duration_seconds",
			Help:    "Duration of read and search queries",
			Buckets: prometheus.DefBuckets,
		}, []string{"entity", "operation"}),
		BulkWriteRows: factory.NewCounter(prometheus.CounterOpts{
			Name: "cpm_bulk_rows_written_total",
			Help: "Rows written by the bulk loader",
		}),
		BulkRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cpm_bulk_retries_total",
			Help: "Bulk write retries, by error code",
		}, []string{"code"}),
		PublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "cpm_event_publish_failures_total",
			Help: "Committed events that could not be published",
		}),
	}
}

// RecordTransaction counts one executed transaction of n items
func (m *Metrics) RecordTransaction(entity, outcome string, n int) {
	if m == nil {
		return
	}
	m.Transactions.WithLabelValues(entity, outcome).Inc()
	m.TransactItems.WithLabelValues(entity).Add(float64(n))
}

// ObserveQuery records how long a query took
func (m *Metrics) ObserveQuery(entity, operation string, started time.Time) {
	if m == nil {
		return
	}
	m.QueryDuration.WithLabelValues(entity, operation).Observe(time.Since(started).Seconds())
}

// RecordBulkRows counts rows accepted by a batch write
func (m *Metrics) RecordBulkRows(n int) {
	if m == nil {
		return
	}
	m.BulkWriteRows.Add(float64(n))
}

// RecordBulkRetry counts one retried batch
func (m *Metrics) RecordBulkRetry(code string) {
	if m == nil {
		return
	}
	m.BulkRetries.WithLabelValues(code).Inc()
}

// RecordPublishFailure counts events that failed to publish
func (m *Metrics) RecordPublishFailure(n int) {
	if m == nil {
		return
	}
	m.PublishFailures.Add(float64(n))
}
