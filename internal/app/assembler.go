package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"pms_sync/internal/domain"
)

// Assembler builds one booking aggregate by fanning out to the PMS for the
// booking, its room, its room type, and every referenced guest. Any
// sub-fetch failure aborts the whole assembly; no partial aggregate is
// returned.
type Assembler struct {
	pms domain.PMSClient
}

func NewAssembler(c domain.PMSClient) *Assembler { return &Assembler{pms: c} }

func (a *Assembler) Assemble(ctx context.Context, bookingID int64) (domain.BookingAggregate, error) {
	booking, err := a.pms.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.BookingAggregate{}, err
	}

	agg := domain.BookingAggregate{Booking: booking}

	// Room, room type and guests are independent; fetch them concurrently.
	// The shared limiter keeps the collective request rate within budget.
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		room, err := a.pms.GetRoom(ctx, booking.RoomID)
		if err != nil {
			return err
		}
		agg.Room = room
		return nil
	})
	g.Go(func() error {
		rt, err := a.pms.GetRoomType(ctx, booking.RoomTypeID)
		if err != nil {
			return err
		}
		agg.RoomType = rt
		return nil
	})

	guestIDs := dedupe(booking.GuestIDs)
	guests := make([]domain.Guest, len(guestIDs))
	for i, id := range guestIDs {
		i, id := i, id
		g.Go(func() error {
			guest, err := a.pms.GetGuest(ctx, id)
			if err != nil {
				return err
			}
			guests[i] = guest
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.BookingAggregate{}, err
	}
	agg.Guests = guests
	return agg, nil
}

// dedupe preserves first-seen order; duplicate guest ids in the payload must
// not duplicate fetches or association rows.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
