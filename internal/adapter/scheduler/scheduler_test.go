package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"mexared-ledger/internal/core/ports"
	"mexared-ledger/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestNew_InvalidSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, err := New("every tuesday", mocks.NewMockReconciliationService(ctrl), 0, zerolog.Nop())
	require.Error(t, err)
}

func TestScheduler_RunNow(t *testing.T) {
	ctrl := gomock.NewController(t)
	recon := mocks.NewMockReconciliationService(ctrl)
	recon.EXPECT().ReconcileAll(gomock.Any()).Return(&ports.ReconcileReport{Checked: 4, Violations: 1}, nil)

	s, err := New("0 15 3 * * *", recon, time.Minute, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, s.RunNow(context.Background()))
}

func TestScheduler_RunNow_AppliesTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	recon := mocks.NewMockReconciliationService(ctrl)
	recon.EXPECT().ReconcileAll(gomock.Any()).DoAndReturn(func(ctx context.Context) (*ports.ReconcileReport, error) {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil, errors.New("db down")
	})

	s, err := New("0 15 3 * * *", recon, time.Second, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, s.RunNow(context.Background()))
}

func TestScheduler_RunNow_RecoversPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	recon := mocks.NewMockReconciliationService(ctrl)
	recon.EXPECT().ReconcileAll(gomock.Any()).DoAndReturn(func(context.Context) (*ports.ReconcileReport, error) {
		panic("boom")
	})

	s, err := New("0 15 3 * * *", recon, 0, zerolog.Nop())
	require.NoError(t, err)
	assert.NotPanics(t, func() { s.RunNow(context.Background()) })
}

func TestScheduler_RunNow_SkipsOverlap(t *testing.T) {
	ctrl := gomock.NewController(t)
	recon := mocks.NewMockReconciliationService(ctrl)
	entered := make(chan struct{})
	release := make(chan struct{})
	recon.EXPECT().ReconcileAll(gomock.Any()).DoAndReturn(func(context.Context) (*ports.ReconcileReport, error) {
		close(entered)
		<-release
		return &ports.ReconcileReport{}, nil
	}).Times(1)

	s, err := New("0 15 3 * * *", recon, 0, zerolog.Nop())
	require.NoError(t, err)

	first := make(chan bool)
	go func() { first <- s.RunNow(context.Background()) }()
	<-entered

	assert.False(t, s.RunNow(context.Background()))
	close(release)
	assert.True(t, <-first)
}

func TestScheduler_FiresOnSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	recon := mocks.NewMockReconciliationService(ctrl)
	fired := make(chan struct{}, 4)
	recon.EXPECT().ReconcileAll(gomock.Any()).DoAndReturn(func(context.Context) (*ports.ReconcileReport, error) {
		fired <- struct{}{}
		return &ports.ReconcileReport{}, nil
	}).MinTimes(1)

	s, err := New("* * * * * *", recon, 0, zerolog.Nop())
	require.NoError(t, err)
	s.Start()
	assert.False(t, s.Next().IsZero())

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("sweep never fired")
	}
	require.NoError(t, s.Stop(context.Background()))
}
