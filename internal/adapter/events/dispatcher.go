// Package events fans committed ledger events out to downstream systems
// without ever holding up the transaction that produced them.
package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"mexared-ledger/internal/core/domain"
	"mexared-ledger/internal/core/ports"
	"mexared-ledger/pkg/logger"

	"github.com/rs/zerolog"
)

// defaultRetryIntervals are the pauses between delivery attempts.
var defaultRetryIntervals = []time.Duration{
	100 * time.Millisecond,
	500 * time.Millisecond,
	2 * time.Second,
}

// Dispatcher implements ports.EventPublisher with a bounded queue drained by
// a single worker, so events reach the sink in commit order. When the queue
// is full the event is dropped and counted.
type Dispatcher struct {
	sink    ports.EventSink
	metrics ports.MetricsRecorder
	log     zerolog.Logger
	retries []time.Duration

	queue   chan domain.LedgerEvent
	stop    chan struct{}
	done    chan struct{}
	closed  atomic.Bool
	started atomic.Bool
	once    sync.Once
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRetryIntervals replaces the pauses between delivery attempts. An
// empty slice means a single attempt.
func WithRetryIntervals(d ...time.Duration) Option {
	return func(x *Dispatcher) { x.retries = d }
}

// WithMetrics counts drops and deliveries on m.
func WithMetrics(m ports.MetricsRecorder) Option {
	return func(x *Dispatcher) {
		if m != nil {
			x.metrics = m
		}
	}
}

// NewDispatcher creates a dispatcher holding at most bufferSize pending
// events. Call Start before publishing and Close on shutdown.
func NewDispatcher(sink ports.EventSink, bufferSize int, log zerolog.Logger, opts ...Option) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	d := &Dispatcher{
		sink:    sink,
		metrics: nopMetrics{},
		log:     logger.Component(log, "events"),
		retries: defaultRetryIntervals,
		queue:   make(chan domain.LedgerEvent, bufferSize),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the delivery worker. Calling it twice is a no-op.
func (d *Dispatcher) Start(ctx context.Context) {
	if !d.started.CompareAndSwap(false, true) {
		return
	}
	go d.run(context.WithoutCancel(ctx))
}

// Publish enqueues the event. It never blocks.
func (d *Dispatcher) Publish(_ context.Context, event domain.LedgerEvent) {
	if d.closed.Load() {
		d.drop(event, "dispatcher closed")
		return
	}
	select {
	case d.queue <- event:
	default:
		d.drop(event, "queue full")
	}
}

// Pending reports how many events wait for delivery.
func (d *Dispatcher) Pending() int {
	return len(d.queue)
}

// Close stops accepting events and waits for the queued ones to be
// delivered, or for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.once.Do(func() {
		d.closed.Store(true)
		close(d.stop)
	})
	if !d.started.Load() {
		return nil
	}
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case ev := <-d.queue:
			d.deliver(ctx, ev)
		case <-d.stop:
			for {
				select {
				case ev := <-d.queue:
					d.deliver(ctx, ev)
				default:
					return
				}
			}
		}
	}
}

// deliver tries the sink with retries. Retries are abandoned on shutdown.
func (d *Dispatcher) deliver(ctx context.Context, ev domain.LedgerEvent) {
	for attempt := 0; attempt <= len(d.retries); attempt++ {
		if attempt > 0 {
			t := time.NewTimer(d.retries[attempt-1])
			select {
			case <-t.C:
			case <-d.stop:
				t.Stop()
				d.metrics.EventDelivered("failed")
				d.log.Error().
					Str("entry_id", ev.EntryID.String()).
					Int("attempts", attempt).
					Msg("events: shutting down, delivery abandoned")
				return
			}
		}

		err := d.sink.Deliver(ctx, ev)
		if err == nil {
			d.metrics.EventDelivered("ok")
			d.log.Debug().
				Str("entry_id", ev.EntryID.String()).
				Int("attempt", attempt+1).
				Msg("events: delivered")
			return
		}
		d.log.Warn().Err(err).
			Str("entry_id", ev.EntryID.String()).
			Int("attempt", attempt+1).
			Msg("events: delivery failed")
	}

	d.metrics.EventDelivered("failed")
	d.log.Error().
		Str("entry_id", ev.EntryID.String()).
		Msg("events: all retry attempts exhausted")
}

func (d *Dispatcher) drop(ev domain.LedgerEvent, why string) {
	d.metrics.EventDropped()
	d.log.Warn().
		Str("entry_id", ev.EntryID.String()).
		Str("wallet_id", ev.WalletID.String()).
		Str("reason", why).
		Msg("events: event dropped")
}

type nopMetrics struct{}

func (nopMetrics) OperationCompleted(string, string) {}
func (nopMetrics) EventDropped()                     {}
func (nopMetrics) EventDelivered(string)             {}
func (nopMetrics) IntegrityViolation(string)         {}
func (nopMetrics) ReconcileRun(int, int)             {}
