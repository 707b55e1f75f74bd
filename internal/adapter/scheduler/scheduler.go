// Package scheduler runs the periodic ledger reconciliation sweep.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mexared-ledger/internal/core/ports"
	"mexared-ledger/pkg/logger"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler wraps a UTC, seconds-precision cron running ReconcileAll.
type Scheduler struct {
	cron    *cron.Cron
	recon   ports.ReconciliationService
	timeout time.Duration
	log     zerolog.Logger

	mu      sync.Mutex // one sweep at a time
	running bool
}

// New registers the reconciliation sweep under spec, a six-field cron
// expression. timeout bounds a single sweep; zero means no bound.
func New(spec string, recon ports.ReconciliationService, timeout time.Duration, log zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithSeconds(),
		),
		recon:   recon,
		timeout: timeout,
		log:     logger.Component(log, "reconcile-scheduler"),
	}

	if _, err := s.cron.AddFunc(spec, func() { s.RunNow(context.Background()) }); err != nil {
		return nil, fmt.Errorf("scheduler: invalid reconcile schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins the cron loop.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler: started")
}

// Stop halts the cron loop and waits for a sweep in flight.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info().Msg("scheduler: stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next reports when the sweep fires next. Zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// RunNow runs one sweep unless one is already running. It reports whether
// the sweep ran.
func (s *Scheduler) RunNow(ctx context.Context) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Warn().Msg("scheduler: previous reconcile still running, skipping")
		return false
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.runWithRecovery(ctx)
	return true
}

func (s *Scheduler) runWithRecovery(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("scheduler: reconcile panicked")
		}
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	report, err := s.recon.ReconcileAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("scheduler: reconcile failed")
		return
	}
	s.log.Info().
		Int("checked", report.Checked).
		Int("violations", report.Violations).
		Dur("elapsed", time.Since(start)).
		Msg("scheduler: reconcile finished")
}
