package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWindow(t *testing.T, budget int) *Window {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return NewWindow(c, budget)
}

func TestWindow_CollectiveBudget(t *testing.T) {
	w := newTestWindow(t, 2)
	ctx := context.Background()

	// pin the clock so every hit lands in one window
	now := time.Now().Truncate(time.Second)
	w.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		wait, err := w.Hit(ctx, "/bookings/{id}")
		require.NoError(t, err)
		assert.Zero(t, wait, "hit %d should be within budget", i)
	}

	wait, err := w.Hit(ctx, "/bookings/{id}")
	require.NoError(t, err)
	assert.Positive(t, wait)
	assert.LessOrEqual(t, wait, time.Second)
}

func TestWindow_NewWindowResetsBudget(t *testing.T) {
	w := newTestWindow(t, 1)
	ctx := context.Background()

	now := time.Now().Truncate(time.Second)
	w.now = func() time.Time { return now }

	_, err := w.Hit(ctx, "/guests/{id}")
	require.NoError(t, err)
	wait, err := w.Hit(ctx, "/guests/{id}")
	require.NoError(t, err)
	assert.Positive(t, wait)

	w.now = func() time.Time { return now.Add(time.Second) }
	wait, err = w.Hit(ctx, "/guests/{id}")
	require.NoError(t, err)
	assert.Zero(t, wait, "next window starts with a fresh budget")
}

func TestWindow_EndpointsAreKeyedSeparately(t *testing.T) {
	w := newTestWindow(t, 1)
	ctx := context.Background()

	now := time.Now().Truncate(time.Second)
	w.now = func() time.Time { return now }

	_, err := w.Hit(ctx, "/bookings/{id}")
	require.NoError(t, err)

	wait, err := w.Hit(ctx, "/rooms/{id}")
	require.NoError(t, err)
	assert.Zero(t, wait)
}
