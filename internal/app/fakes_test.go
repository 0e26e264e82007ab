package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pms_sync/internal/domain"
)

// ---- fakes shared by the app tests ----

type fakePMS struct {
	mu sync.Mutex

	ids    []int64
	idsErr error
	since  time.Time

	booking    domain.Booking
	bookingErr error

	roomCalls     int
	roomTypeCalls int
	guestCalls    map[int64]int
	guestErr      map[int64]error
}

func (f *fakePMS) ListBookingIDs(_ context.Context, updatedAfter time.Time) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.since = updatedAfter
	return f.ids, f.idsErr
}

func (f *fakePMS) GetBooking(context.Context, int64) (domain.Booking, error) {
	return f.booking, f.bookingErr
}

func (f *fakePMS) GetRoom(_ context.Context, id int64) (domain.Room, error) {
	f.mu.Lock()
	f.roomCalls++
	f.mu.Unlock()
	return domain.Room{ExternalID: id, Number: "101", Floor: 1}, nil
}

func (f *fakePMS) GetRoomType(_ context.Context, id int64) (domain.RoomType, error) {
	f.mu.Lock()
	f.roomTypeCalls++
	f.mu.Unlock()
	return domain.RoomType{ExternalID: id, Name: "Double", Description: "Two beds"}, nil
}

func (f *fakePMS) GetGuest(_ context.Context, id int64) (domain.Guest, error) {
	f.mu.Lock()
	if f.guestCalls == nil {
		f.guestCalls = map[int64]int{}
	}
	f.guestCalls[id]++
	f.mu.Unlock()
	if err := f.guestErr[id]; err != nil {
		return domain.Guest{}, err
	}
	return domain.Guest{
		ExternalID: id,
		FirstName:  "Guest",
		LastName:   fmt.Sprintf("Number%d", id),
		Email:      fmt.Sprintf("guest%d@example.com", id),
	}, nil
}

type fakeCursor struct {
	val  time.Time
	ok   bool
	err  error
	sets []time.Time
}

func (f *fakeCursor) Get(context.Context) (time.Time, bool, error) { return f.val, f.ok, f.err }
func (f *fakeCursor) Set(_ context.Context, t time.Time) error {
	f.sets = append(f.sets, t)
	return nil
}

type fakeQueue struct {
	ids    []int64
	failAt int // 1-based submission index that fails; 0 = never
}

func (f *fakeQueue) Submit(_ context.Context, id int64) error {
	if f.failAt > 0 && len(f.ids)+1 == f.failAt {
		return fmt.Errorf("queue unavailable")
	}
	f.ids = append(f.ids, id)
	return nil
}

type fakeRepo struct {
	mu    sync.Mutex
	saved []domain.BookingAggregate
	err   error
}

func (f *fakeRepo) SaveAggregate(_ context.Context, agg domain.BookingAggregate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, agg)
	return nil
}

func validBooking(guestIDs ...int64) domain.Booking {
	return domain.Booking{
		ExternalID:    "B-5",
		RoomID:        3,
		RoomTypeID:    4,
		Status:        "confirmed",
		GuestIDs:      guestIDs,
		ArrivalDate:   time.Date(2025, 7, 1, 14, 0, 0, 0, time.UTC),
		DepartureDate: time.Date(2025, 7, 5, 10, 0, 0, 0, time.UTC),
	}
}
