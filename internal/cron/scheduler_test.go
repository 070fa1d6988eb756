package cron

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emickson/mobile-action-bar-backend/internal/payment"
	"github.com/emickson/mobile-action-bar-backend/internal/store"
)

type panicky struct{}

func (panicky) Sweep(time.Time) int { panic("boom") }

func TestSweepRemovesExpired(t *testing.T) {
	mem := store.NewMemory(time.Minute)
	require.NoError(t, mem.Put(context.Background(), store.Record{TransactionID: "a", Status: payment.StatusPending}))

	s := New(mem, zap.NewNop())
	require.Equal(t, 0, s.sweepStatuses())

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	require.Equal(t, 1, s.sweepStatuses())
	require.Equal(t, 0, mem.Len())
}

func TestSweepWithoutStore(t *testing.T) {
	s := New(nil, zap.NewNop())
	require.Equal(t, 0, s.sweepStatuses())
}

func TestRecoverFromPanic(t *testing.T) {
	s := New(panicky{}, zap.NewNop())
	require.NotPanics(t, func() {
		defer s.recoverFromPanic("status sweep")
		s.sweepStatuses()
	})
}

func TestStartStop(t *testing.T) {
	s := New(store.NewMemory(time.Minute), zap.NewNop())
	require.NoError(t, s.Start())
	<-s.Stop().Done()
}
