package service

import (
	"time"

	"mexared-ledger/internal/core/ports"
	"mexared-ledger/pkg/apperror"
)

type options struct {
	metrics ports.MetricsRecorder
	now     func() time.Time
}

// Option customises a ledger service.
type Option func(*options)

// WithMetrics records operation outcomes on m.
func WithMetrics(m ports.MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		metrics: nopMetrics{},
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// outcome labels an operation result for metrics: "ok", the error code, or
// "error" for uncoded failures.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if code := apperror.Code(err); code != "" {
		return code
	}
	return "error"
}

type nopMetrics struct{}

func (nopMetrics) OperationCompleted(string, string) {}
func (nopMetrics) EventDropped()                     {}
func (nopMetrics) EventDelivered(string)             {}
func (nopMetrics) IntegrityViolation(string)         {}
func (nopMetrics) ReconcileRun(int, int)             {}
