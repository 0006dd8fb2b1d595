package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordTransaction("Device", "committed", 3)
	m.RecordTransaction("Device", "already_exists", 1)
	m.RecordBulkRows(25)
	m.RecordBulkRetry("ThrottlingException")
	m.ObserveQuery("Device", "read", time.Now())

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Transactions.WithLabelValues("Device", "committed")))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.TransactItems.WithLabelValues("Device")))
	assert.Equal(t, float64(25), testutil.ToFloat64(m.BulkWriteRows))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BulkRetries.WithLabelValues("ThrottlingException")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordTransaction("Device", "committed", 1)
		m.RecordBulkRows(1)
		m.RecordBulkRetry("x")
		m.RecordPublishFailure(1)
		m.ObserveQuery("Device", "read", time.Now())
	})
}
