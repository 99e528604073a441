package postgres

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/booking-api/pkg/metrics"
)

func TestInstrumentationRecordsOperations(t *testing.T) {
	m := metrics.NewMetrics("postgrestest")
	inst := instrumentation{metrics: m}

	inst.observe("booking_create", time.Now(), nil)
	inst.observe("booking_create", time.Now(), nil)
	inst.observe("booking_create", time.Now(), fmt.Errorf("connection refused"))

	assert.Equal(t, float64(2),
		testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("booking_create", "ok")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("booking_create", "error")))

	count := testutil.CollectAndCount(m.DatabaseLatency, "postgrestest_database_operation_duration_seconds")
	assert.Equal(t, 1, count, "latency histogram has the booking_create series")
}

func TestInstrumentationNilMetricsIsNoop(t *testing.T) {
	inst := instrumentation{}
	assert.NotPanics(t, func() {
		inst.observe("booking_get", time.Now(), nil)
	})
}
