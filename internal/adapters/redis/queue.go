package redisad

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Queue hands booking sync tasks to worker processes through a Redis list.
// Submit is fire-and-forget: the dispatcher never learns how a task went.
type Queue struct {
	c   *redis.Client
	key string
}

func NewQueue(c *redis.Client, key string) *Queue { return &Queue{c: c, key: key} }

func (q *Queue) Submit(ctx context.Context, bookingID int64) error {
	return q.c.LPush(ctx, q.key, strconv.FormatInt(bookingID, 10)).Err()
}

// Next blocks until a task is available or ctx is canceled.
func (q *Queue) Next(ctx context.Context) (int64, error) {
	res, err := q.c.BRPop(ctx, 0, q.key).Result()
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(res[1], 10, 64)
}
