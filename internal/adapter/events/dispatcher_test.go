package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mexared-ledger/internal/core/domain"
	"mexared-ledger/internal/core/ports/mocks"
	"mexared-ledger/pkg/money"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func event(ref string) domain.LedgerEvent {
	return domain.LedgerEvent{
		EntryID:   uuid.New(),
		WalletID:  uuid.New(),
		Direction: domain.DirectionCredit,
		Amount:    money.New(1000, money.MXN),
		Reference: ref,
		Reason:    domain.ReasonDeposit,
		Timestamp: time.Now().UTC(),
	}
}

// recordingSink keeps delivered events in order.
type recordingSink struct {
	mu   sync.Mutex
	refs []string
}

func (s *recordingSink) Deliver(_ context.Context, ev domain.LedgerEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs = append(s.refs, ev.Reference)
	return nil
}

func (s *recordingSink) delivered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.refs...)
}

func TestDispatcher_DeliversInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	metrics := mocks.NewMockMetricsRecorder(ctrl)
	metrics.EXPECT().EventDelivered("ok").Times(5)

	sink := &recordingSink{}
	d := NewDispatcher(sink, 10, zerolog.Nop(), WithMetrics(metrics))
	d.Start(context.Background())

	for _, ref := range []string{"A", "B", "C", "D", "E"} {
		d.Publish(context.Background(), event(ref))
	}
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, sink.delivered())
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	ctrl := gomock.NewController(t)
	metrics := mocks.NewMockMetricsRecorder(ctrl)
	metrics.EXPECT().EventDropped().Times(1)

	// Not started: nothing drains the queue.
	d := NewDispatcher(&recordingSink{}, 2, zerolog.Nop(), WithMetrics(metrics))
	d.Publish(context.Background(), event("A"))
	d.Publish(context.Background(), event("B"))
	d.Publish(context.Background(), event("C"))

	assert.Equal(t, 2, d.Pending())
}

func TestDispatcher_PublishNeverBlocks(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockEventSink(ctrl)
	release := make(chan struct{})
	sink.EXPECT().Deliver(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, domain.LedgerEvent) error {
		<-release
		return nil
	}).AnyTimes()

	d := NewDispatcher(sink, 1, zerolog.Nop())
	d.Start(context.Background())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			d.Publish(context.Background(), event("X"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a stalled sink")
	}
	close(release)
	require.NoError(t, d.Close(context.Background()))
}

func TestDispatcher_RetriesThenSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockEventSink(ctrl)
	metrics := mocks.NewMockMetricsRecorder(ctrl)

	gomock.InOrder(
		sink.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(errors.New("redis down")),
		sink.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(errors.New("redis down")),
		sink.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(nil),
	)
	delivered := make(chan struct{})
	metrics.EXPECT().EventDelivered("ok").Do(func(string) { close(delivered) })

	d := NewDispatcher(sink, 4, zerolog.Nop(),
		WithMetrics(metrics),
		WithRetryIntervals(time.Millisecond, time.Millisecond, time.Millisecond))
	d.Start(context.Background())
	d.Publish(context.Background(), event("A"))

	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}
	require.NoError(t, d.Close(context.Background()))
}

func TestDispatcher_GivesUpAfterRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockEventSink(ctrl)
	metrics := mocks.NewMockMetricsRecorder(ctrl)

	sink.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(errors.New("redis down")).Times(3)
	delivered := make(chan struct{})
	metrics.EXPECT().EventDelivered("failed").Do(func(string) { close(delivered) })

	d := NewDispatcher(sink, 4, zerolog.Nop(),
		WithMetrics(metrics),
		WithRetryIntervals(time.Millisecond, time.Millisecond))
	d.Start(context.Background())
	d.Publish(context.Background(), event("A"))

	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("delivery never gave up")
	}
	require.NoError(t, d.Close(context.Background()))
}

func TestDispatcher_CloseDrainsQueue(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, 50, zerolog.Nop())

	for i := 0; i < 20; i++ {
		d.Publish(context.Background(), event("E"))
	}
	d.Start(context.Background())
	require.NoError(t, d.Close(context.Background()))
	assert.Len(t, sink.delivered(), 20)
}

func TestDispatcher_PublishAfterCloseDrops(t *testing.T) {
	ctrl := gomock.NewController(t)
	metrics := mocks.NewMockMetricsRecorder(ctrl)
	metrics.EXPECT().EventDropped().Times(1)

	sink := &recordingSink{}
	d := NewDispatcher(sink, 4, zerolog.Nop(), WithMetrics(metrics))
	d.Start(context.Background())
	require.NoError(t, d.Close(context.Background()))

	d.Publish(context.Background(), event("late"))
	assert.Empty(t, sink.delivered())
	// Closing twice is harmless.
	require.NoError(t, d.Close(context.Background()))
}

func TestDispatcher_CloseHonoursDeadline(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mocks.NewMockEventSink(ctrl)
	release := make(chan struct{})
	defer close(release)
	sink.EXPECT().Deliver(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, domain.LedgerEvent) error {
		<-release
		return nil
	}).AnyTimes()

	d := NewDispatcher(sink, 4, zerolog.Nop())
	d.Start(context.Background())
	d.Publish(context.Background(), event("A"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)
}

func TestLogSink_Deliver(t *testing.T) {
	assert.NoError(t, NewLogSink(zerolog.Nop()).Deliver(context.Background(), event("A")))
}
