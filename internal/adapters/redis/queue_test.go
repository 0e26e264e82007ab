package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "pms_sync/internal/adapters/redis"
)

func TestQueue_SubmitThenNextIsFIFO(t *testing.T) {
	mr := miniredis.RunT(t)
	q := redisad.NewQueue(redisad.New(mr.Addr(), "", 0), "pms:sync:bookings")
	ctx := context.Background()

	require.NoError(t, q.Submit(ctx, 42))
	require.NoError(t, q.Submit(ctx, 43))

	id, err := q.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	id, err = q.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(43), id)
}
