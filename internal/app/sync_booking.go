package app

import (
	"context"
	"fmt"

	"pms_sync/internal/adapters/observability"
	"pms_sync/internal/domain"
)

// BookingSyncer is the unit of work behind one queue task: assemble the
// booking aggregate, then persist it in a single transaction.
type BookingSyncer struct {
	assembler *Assembler
	repo      domain.SyncRepository
}

func NewBookingSyncer(a *Assembler, r domain.SyncRepository) *BookingSyncer {
	return &BookingSyncer{assembler: a, repo: r}
}

func (s *BookingSyncer) SyncBooking(ctx context.Context, bookingID int64) error {
	agg, err := s.assembler.Assemble(ctx, bookingID)
	if err != nil {
		observability.ObserveBookingSync("assemble_failed")
		return fmt.Errorf("assemble booking %d: %w", bookingID, err)
	}
	if err := s.repo.SaveAggregate(ctx, agg); err != nil {
		observability.ObserveBookingSync("persist_failed")
		return fmt.Errorf("persist booking %d: %w", bookingID, err)
	}
	observability.ObserveBookingSync("ok")
	return nil
}
