package queue

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// Runner executes one booking sync task.
type Runner interface {
	SyncBooking(ctx context.Context, bookingID int64) error
}

// Pool runs submitted tasks on bounded in-process workers. Submission is
// fire-and-forget: a task failure is logged against its booking id and never
// reaches the submitter, so one bad booking cannot abort its siblings.
type Pool struct {
	runner Runner
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
}

func NewPool(r Runner, workers int) *Pool {
	if workers <= 0 {
		workers = 8
	}
	return &Pool{runner: r, sem: semaphore.NewWeighted(int64(workers))}
}

func (p *Pool) Submit(ctx context.Context, bookingID int64) error {
	// acquire before launching the goroutine; release inside it
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.sem.Release(1)

		if err := p.runner.SyncBooking(ctx, bookingID); err != nil {
			log.Error().Int64("booking_id", bookingID).Err(err).Msg("booking sync failed")
			return
		}
		log.Info().Int64("booking_id", bookingID).Msg("booking sync ok")
	}()
	return nil
}

// Wait blocks until every submitted task has finished.
func (p *Pool) Wait() { p.wg.Wait() }
