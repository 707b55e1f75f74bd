package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.OperationCompleted("credit", "ok")
	r.OperationCompleted("credit", "ok")
	r.OperationCompleted("debit", "LED_002")
	r.EventDropped()
	r.EventDelivered("ok")
	r.EventDelivered("failed")
	r.IntegrityViolation("BALANCE_MISMATCH")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.operationsTotal.WithLabelValues("credit", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.operationsTotal.WithLabelValues("debit", "LED_002")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.eventsDroppedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.eventsDelivered.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.integrityViolations.WithLabelValues("BALANCE_MISMATCH")))
}

func TestRecorder_ReconcileRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ReconcileRun(10, 2)
	r.ReconcileRun(12, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.reconcileRunsTotal))
	assert.Equal(t, 12.0, testutil.ToFloat64(r.reconcileChecked))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.reconcileViolations))
}

func TestRecorder_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	r.EventDropped()

	n, err := testutil.GatherAndCount(reg, "mexared_ledger_events_dropped_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A second recorder on the same registry is a duplicate registration.
	assert.Panics(t, func() { NewRecorder(reg) })
}
