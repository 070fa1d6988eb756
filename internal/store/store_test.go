package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/emickson/mobile-action-bar-backend/internal/payment"
)

func TestMemoryPutGet(t *testing.T) {
	m := NewMemory(time.Minute)
	ctx := context.Background()

	_, ok, err := m.Get(ctx, "tx")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, m.Put(ctx, Record{TransactionID: "tx", Status: payment.StatusPending, Gateway: "ironpay"}))
	require.NoError(t, m.Put(ctx, Record{TransactionID: "tx", Status: payment.StatusPaid, Gateway: "ironpay"}))

	rec, ok, err := m.Get(ctx, "tx")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, payment.StatusPaid, rec.Status)
}

func TestMemoryExpiryAndSweep(t *testing.T) {
	m := NewMemory(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, Record{TransactionID: "old"}))
	now = now.Add(30 * time.Second)
	require.NoError(t, m.Put(ctx, Record{TransactionID: "new"}))

	now = now.Add(45 * time.Second)
	_, ok, _ := m.Get(ctx, "old")
	require.False(t, ok)
	_, ok, _ = m.Get(ctx, "new")
	require.True(t, ok)

	require.Equal(t, 1, m.Sweep(now))
	require.Equal(t, 1, m.Len())
}

func TestNewWithoutRedisFallsBackToMemory(t *testing.T) {
	s := New(nil, 0)
	_, isMemory := s.(*Memory)
	require.True(t, isMemory)

	client, err := Connect("", "", 0)
	require.NoError(t, err)
	require.Nil(t, client)
}
