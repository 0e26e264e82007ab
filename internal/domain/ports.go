package domain

import (
	"context"
	"time"
)

type PMSClient interface {
	// ListBookingIDs returns ids of bookings changed since updatedAfter.
	// A response without the data container yields ErrNoData.
	ListBookingIDs(ctx context.Context, updatedAfter time.Time) ([]int64, error)

	GetBooking(ctx context.Context, id int64) (Booking, error)
	GetRoom(ctx context.Context, id int64) (Room, error)
	GetRoomType(ctx context.Context, id int64) (RoomType, error)
	GetGuest(ctx context.Context, id int64) (Guest, error)
}

// SyncRepository persists one assembled aggregate atomically: all entity
// upserts and the guest association reconciliation commit together or not
// at all.
type SyncRepository interface {
	SaveAggregate(ctx context.Context, agg BookingAggregate) error
}

// CursorStore keeps the "last successfully synced as-of" timestamp. A missing
// cursor is not an error: Get reports ok=false and the dispatcher falls back
// to its default lookback.
type CursorStore interface {
	Get(ctx context.Context) (t time.Time, ok bool, err error)
	Set(ctx context.Context, t time.Time) error
}

// TaskQueue accepts "sync booking X" tasks, fire-and-forget. Task execution
// and its failures are owned by the worker side, not the submitter.
type TaskQueue interface {
	Submit(ctx context.Context, bookingID int64) error
}

// Limiter is the proactive request budget shared by every concurrent fetcher.
// Hit records one request against the endpoint's window and returns how long
// the caller must wait before sending; zero means the request may go out now.
type Limiter interface {
	Hit(ctx context.Context, endpoint string) (time.Duration, error)
}
