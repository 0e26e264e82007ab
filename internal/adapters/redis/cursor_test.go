package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "pms_sync/internal/adapters/redis"
)

func TestCursorStore_AbsentThenRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	store := redisad.NewCursorStore(redisad.New(mr.Addr(), "", 0))
	ctx := context.Background()

	_, ok, err := store.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "missing cursor is not an error")

	want := time.Date(2025, 7, 25, 8, 30, 0, 0, time.UTC)
	require.NoError(t, store.Set(ctx, want))

	got, ok, err := store.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(want), "got %s", got)

	// the key expires: losing it falls back to the default lookback
	assert.Equal(t, 30*24*time.Hour, mr.TTL("pms:last_sync"))
}

func TestCursorStore_CorruptValueTreatedAsAbsent(t *testing.T) {
	mr := miniredis.RunT(t)
	store := redisad.NewCursorStore(redisad.New(mr.Addr(), "", 0))

	require.NoError(t, mr.Set("pms:last_sync", "not-a-timestamp"))

	_, ok, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
