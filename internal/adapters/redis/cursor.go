package redisad

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cursorKey = "pms:last_sync"
	cursorTTL = 30 * 24 * time.Hour
)

// CursorStore keeps the last successful sync time under a single expiring
// key. Losing the key is acceptable: the dispatcher falls back to its default
// lookback window.
type CursorStore struct{ c *redis.Client }

func NewCursorStore(c *redis.Client) *CursorStore { return &CursorStore{c: c} }

func (s *CursorStore) Get(ctx context.Context) (time.Time, bool, error) {
	v, err := s.c.Get(ctx, cursorKey).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		// a corrupt cursor is treated as absent, not fatal
		return time.Time{}, false, nil
	}
	return t, true, nil
}

func (s *CursorStore) Set(ctx context.Context, t time.Time) error {
	return s.c.Set(ctx, cursorKey, t.UTC().Format(time.RFC3339), cursorTTL).Err()
}
