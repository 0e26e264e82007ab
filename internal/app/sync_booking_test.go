package app

import (
	"context"
	"errors"
	"testing"

	"pms_sync/internal/domain"
)

func TestBookingSyncer_AssemblesAndPersists(t *testing.T) {
	pms := &fakePMS{booking: validBooking(7)}
	repo := &fakeRepo{}
	s := NewBookingSyncer(NewAssembler(pms), repo)

	if err := s.SyncBooking(context.Background(), 5); err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected one aggregate saved, got %d", len(repo.saved))
	}
	if repo.saved[0].Booking.ExternalID != "B-5" || len(repo.saved[0].Guests) != 1 {
		t.Fatalf("unexpected aggregate: %+v", repo.saved[0])
	}
}

func TestBookingSyncer_InvalidDataSkipsPersistence(t *testing.T) {
	pms := &fakePMS{bookingErr: &domain.InvalidDataError{Endpoint: "/bookings/{id}", Field: "guest_ids"}}
	repo := &fakeRepo{}
	s := NewBookingSyncer(NewAssembler(pms), repo)

	err := s.SyncBooking(context.Background(), 7)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(repo.saved) != 0 {
		t.Fatal("nothing may be persisted for an invalid booking")
	}
}

func TestBookingSyncer_PersistFailureSurfaces(t *testing.T) {
	pms := &fakePMS{booking: validBooking(7)}
	repo := &fakeRepo{err: errors.New("deadlock")}
	s := NewBookingSyncer(NewAssembler(pms), repo)

	if err := s.SyncBooking(context.Background(), 5); err == nil {
		t.Fatal("expected error")
	}
}
