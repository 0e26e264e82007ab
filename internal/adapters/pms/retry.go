package pms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"pms_sync/internal/domain"
)

// withRetry invokes call, sleeping out Throttled results and re-invoking with
// the attempt counter carried forward so reactive backoff keeps growing. Any
// other outcome propagates as-is. The attempt cap is mandatory: exhausting it
// converts to a Fatal failure instead of looping on a permanent throttle.
func (c *Client) withRetry(ctx context.Context, endpoint string, call func(ctx context.Context, attempt int) error) error {
	attempt := 0
	for retries := 0; ; retries++ {
		err := call(ctx, attempt)
		var thr *domain.ThrottledError
		if !errors.As(err, &thr) {
			return err // nil, or a non-retryable classification
		}
		if retries+1 >= c.retryMax {
			log.Warn().Str("endpoint", endpoint).Int("attempts", retries+1).Msg("retry budget exhausted")
			return &domain.FatalError{
				Endpoint: endpoint,
				Reason:   fmt.Sprintf("exceeded retry budget after %d attempts", retries+1),
			}
		}
		log.Info().Str("endpoint", endpoint).Dur("wait", thr.Wait).
			Int("attempt", retries+1).Int("max", c.retryMax).
			Msg("throttled, waiting before retry")
		if !sleepCtx(ctx, thr.Wait) {
			return ctx.Err()
		}
		attempt = thr.Attempt
	}
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
