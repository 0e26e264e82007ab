package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const windowPrefix = "pms:ratelimit"

// Window is a fixed-window counter in Redis, shared across worker processes.
// One key per endpoint per second; every worker INCRs the same key, so the
// budget is collective rather than per-process.
type Window struct {
	c      *redis.Client
	budget int64
	window time.Duration
	now    func() time.Time
}

func NewWindow(c *redis.Client, budget int) *Window {
	if budget <= 0 {
		budget = 2
	}
	return &Window{c: c, budget: int64(budget), window: time.Second, now: time.Now}
}

func (w *Window) key(endpoint string, now time.Time) string {
	return fmt.Sprintf("%s:%s:%d", windowPrefix, endpoint, now.UnixNano()/int64(w.window))
}

func (w *Window) Hit(ctx context.Context, endpoint string) (time.Duration, error) {
	now := w.now()
	key := w.key(endpoint, now)

	pipe := w.c.TxPipeline()
	incr := pipe.Incr(ctx, key)
	// keep the key one extra window so a hit near the boundary still expires
	pipe.PExpire(ctx, key, 2*w.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	if incr.Val() > w.budget {
		return w.window - now.Sub(now.Truncate(w.window)), nil
	}
	return 0, nil
}
