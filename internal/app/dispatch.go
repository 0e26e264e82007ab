package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"pms_sync/internal/domain"
)

// Dispatcher runs one sync pass: resolve the window start, list changed
// booking ids, submit one task per id, then advance the cursor. It never
// waits for task completion; cursor advancement is tied to successful
// submission of the full batch.
type Dispatcher struct {
	pms      domain.PMSClient
	cursor   domain.CursorStore
	queue    domain.TaskQueue
	chunk    int
	lookback time.Duration
	now      func() time.Time
}

func NewDispatcher(pms domain.PMSClient, cursor domain.CursorStore, queue domain.TaskQueue, chunk int, lookback time.Duration) *Dispatcher {
	if chunk <= 0 {
		chunk = 100
	}
	if lookback <= 0 {
		lookback = 30 * 24 * time.Hour
	}
	return &Dispatcher{pms: pms, cursor: cursor, queue: queue, chunk: chunk, lookback: lookback, now: time.Now}
}

func (d *Dispatcher) Run(ctx context.Context, updatedAfter *time.Time) error {
	start := d.now()
	since := d.resolveSince(ctx, updatedAfter, start)

	ids, err := d.pms.ListBookingIDs(ctx, since)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		// a clean no-op: nothing dispatched and the cursor stays put
		log.Info().Time("since", since).Msg("no new bookings found to sync")
		return nil
	}
	log.Info().Int("count", len(ids)).Time("since", since).Msg("bookings to sync")

	submitted := 0
	for lo := 0; lo < len(ids); lo += d.chunk {
		hi := min(lo+d.chunk, len(ids))
		for _, id := range ids[lo:hi] {
			if err := d.queue.Submit(ctx, id); err != nil {
				return fmt.Errorf("submit booking %d: %w", id, err)
			}
			submitted++
		}
		log.Info().Int("submitted", submitted).Int("total", len(ids)).Msg("dispatch progress")
	}

	// The cursor moves to the run start time, not the newest booking seen:
	// the next window deliberately overlaps this one instead of risking gaps.
	if err := d.cursor.Set(ctx, start); err != nil {
		return fmt.Errorf("advance sync cursor: %w", err)
	}
	log.Info().Int("submitted", submitted).Msg("all booking tasks dispatched")
	return nil
}

// resolveSince prefers the explicit override, then the persisted cursor, then
// the default lookback. A cursor read failure degrades to the lookback rather
// than aborting the run.
func (d *Dispatcher) resolveSince(ctx context.Context, override *time.Time, now time.Time) time.Time {
	if override != nil {
		return *override
	}
	t, ok, err := d.cursor.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("cursor read failed, using default lookback")
	} else if ok {
		return t
	}
	return now.Add(-d.lookback)
}
