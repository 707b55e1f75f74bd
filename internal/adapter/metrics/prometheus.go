// Package metrics exposes ledger counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mexared_ledger"

// Recorder implements ports.MetricsRecorder.
type Recorder struct {
	operationsTotal     *prometheus.CounterVec
	eventsDroppedTotal  prometheus.Counter
	eventsDelivered     *prometheus.CounterVec
	integrityViolations *prometheus.CounterVec
	reconcileRunsTotal  prometheus.Counter
	reconcileChecked    prometheus.Gauge
	reconcileViolations prometheus.Gauge
}

// NewRecorder registers the ledger collectors on reg. Passing a fresh
// registry keeps tests isolated from the default one.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		operationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wallet",
				Name:      "operations_total",
				Help:      "Wallet and margin operations partitioned by operation and result.",
			},
			[]string{"operation", "result"},
		),
		eventsDroppedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "dropped_total",
				Help:      "Ledger events dropped because the dispatch queue was full or closed.",
			},
		),
		eventsDelivered: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "delivered_total",
				Help:      "Ledger event deliveries partitioned by result.",
			},
			[]string{"result"},
		),
		integrityViolations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "integrity",
				Name:      "violations_total",
				Help:      "Integrity violations detected, by kind.",
			},
			[]string{"kind"},
		),
		reconcileRunsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reconcile",
				Name:      "runs_total",
				Help:      "Completed reconciliation sweeps.",
			},
		),
		reconcileChecked: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "reconcile",
				Name:      "last_checked",
				Help:      "Wallets checked by the most recent sweep.",
			},
		),
		reconcileViolations: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "reconcile",
				Name:      "last_violations",
				Help:      "Wallets frozen by the most recent sweep.",
			},
		),
	}
}

func (r *Recorder) OperationCompleted(op, result string) {
	r.operationsTotal.WithLabelValues(op, result).Inc()
}

func (r *Recorder) EventDropped() {
	r.eventsDroppedTotal.Inc()
}

func (r *Recorder) EventDelivered(result string) {
	r.eventsDelivered.WithLabelValues(result).Inc()
}

func (r *Recorder) IntegrityViolation(kind string) {
	r.integrityViolations.WithLabelValues(kind).Inc()
}

func (r *Recorder) ReconcileRun(checked, violations int) {
	r.reconcileRunsTotal.Inc()
	r.reconcileChecked.Set(float64(checked))
	r.reconcileViolations.Set(float64(violations))
}
