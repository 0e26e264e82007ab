package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"pms_sync/internal/domain"
)

func newTestDispatcher(pms *fakePMS, cursor *fakeCursor, q *fakeQueue, at time.Time) *Dispatcher {
	d := NewDispatcher(pms, cursor, q, 100, 30*24*time.Hour)
	d.now = func() time.Time { return at }
	return d
}

func TestDispatcher_Run_SubmitsAllAndAdvancesCursor(t *testing.T) {
	ids := make([]int64, 250)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	pms := &fakePMS{ids: ids}
	cursor := &fakeCursor{}
	q := &fakeQueue{}
	start := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	if err := newTestDispatcher(pms, cursor, q, start).Run(context.Background(), nil); err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(q.ids) != 250 {
		t.Fatalf("expected 250 submissions, got %d", len(q.ids))
	}
	if q.ids[0] != 1 || q.ids[249] != 250 {
		t.Fatalf("ids submitted out of order: %d..%d", q.ids[0], q.ids[249])
	}
	if len(cursor.sets) != 1 || !cursor.sets[0].Equal(start) {
		t.Fatalf("cursor must advance to the run start time, got %v", cursor.sets)
	}
}

func TestDispatcher_Run_EmptyListIsCleanNoOp(t *testing.T) {
	pms := &fakePMS{ids: nil}
	cursor := &fakeCursor{}
	q := &fakeQueue{}

	err := newTestDispatcher(pms, cursor, q, time.Now()).Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("zero bookings is a success: %v", err)
	}
	if len(q.ids) != 0 {
		t.Fatalf("nothing should be submitted, got %v", q.ids)
	}
	if len(cursor.sets) != 0 {
		t.Fatal("cursor must not move on a no-op run")
	}
}

func TestDispatcher_Run_MissingDataIsFatal(t *testing.T) {
	pms := &fakePMS{idsErr: domain.ErrNoData}
	cursor := &fakeCursor{}
	q := &fakeQueue{}

	err := newTestDispatcher(pms, cursor, q, time.Now()).Run(context.Background(), nil)
	if !errors.Is(err, domain.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if len(q.ids) != 0 || len(cursor.sets) != 0 {
		t.Fatal("no submissions and no cursor movement on a fatal listing")
	}
}

func TestDispatcher_Run_SubmitFailureLeavesCursor(t *testing.T) {
	pms := &fakePMS{ids: []int64{1, 2, 3}}
	cursor := &fakeCursor{}
	q := &fakeQueue{failAt: 3}

	err := newTestDispatcher(pms, cursor, q, time.Now()).Run(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(cursor.sets) != 0 {
		t.Fatal("cursor advances only after the full batch is submitted")
	}
}

func TestDispatcher_ResolveSince(t *testing.T) {
	start := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	override := time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)
	cursorAt := time.Date(2025, 7, 28, 0, 0, 0, 0, time.UTC)

	t.Run("explicit override wins", func(t *testing.T) {
		pms := &fakePMS{}
		d := newTestDispatcher(pms, &fakeCursor{val: cursorAt, ok: true}, &fakeQueue{}, start)
		_ = d.Run(context.Background(), &override)
		if !pms.since.Equal(override) {
			t.Fatalf("got %s", pms.since)
		}
	})

	t.Run("persisted cursor next", func(t *testing.T) {
		pms := &fakePMS{}
		d := newTestDispatcher(pms, &fakeCursor{val: cursorAt, ok: true}, &fakeQueue{}, start)
		_ = d.Run(context.Background(), nil)
		if !pms.since.Equal(cursorAt) {
			t.Fatalf("got %s", pms.since)
		}
	})

	t.Run("default lookback last", func(t *testing.T) {
		pms := &fakePMS{}
		d := newTestDispatcher(pms, &fakeCursor{}, &fakeQueue{}, start)
		_ = d.Run(context.Background(), nil)
		if !pms.since.Equal(start.Add(-30 * 24 * time.Hour)) {
			t.Fatalf("got %s", pms.since)
		}
	})

	t.Run("cursor read failure degrades to lookback", func(t *testing.T) {
		pms := &fakePMS{}
		d := newTestDispatcher(pms, &fakeCursor{err: errors.New("redis down")}, &fakeQueue{}, start)
		_ = d.Run(context.Background(), nil)
		if !pms.since.Equal(start.Add(-30 * 24 * time.Hour)) {
			t.Fatalf("got %s", pms.since)
		}
	})
}
