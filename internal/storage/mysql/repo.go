package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pms_sync/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// SaveAggregate commits the whole aggregate or nothing. Entities are upserted
// by external_id, so re-applying identical upstream data changes nothing but
// timestamps; the guest association set is replaced to match the aggregate
// exactly.
func (r *Repo) SaveAggregate(ctx context.Context, agg domain.BookingAggregate) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	roomID, err := upsertID(ctx, tx, upsertRoomSQL,
		agg.Room.ExternalID, agg.Room.Number, agg.Room.Floor)
	if err != nil {
		return fmt.Errorf("upsert room %d: %w", agg.Room.ExternalID, err)
	}

	roomTypeID, err := upsertID(ctx, tx, upsertRoomTypeSQL,
		agg.RoomType.ExternalID, agg.RoomType.Name, agg.RoomType.Description)
	if err != nil {
		return fmt.Errorf("upsert room type %d: %w", agg.RoomType.ExternalID, err)
	}

	guestIDs := make([]int64, 0, len(agg.Guests))
	for _, g := range agg.Guests {
		gid, gerr := upsertID(ctx, tx, upsertGuestSQL,
			g.ExternalID, g.FirstName, g.LastName, g.Email)
		if gerr != nil {
			err = fmt.Errorf("upsert guest %d: %w", g.ExternalID, gerr)
			return err
		}
		guestIDs = append(guestIDs, gid)
	}

	b := agg.Booking
	bookingID, err := upsertID(ctx, tx, upsertBookingSQL,
		b.ExternalID, b.ArrivalDate.UTC(), b.DepartureDate.UTC(),
		roomID, roomTypeID, b.Status, valStr(b.Notes))
	if err != nil {
		return fmt.Errorf("upsert booking %s: %w", b.ExternalID, err)
	}

	if err = syncGuests(ctx, tx, bookingID, guestIDs); err != nil {
		return fmt.Errorf("sync guests for booking %s: %w", b.ExternalID, err)
	}

	return tx.Commit()
}

func upsertID(ctx context.Context, tx *sql.Tx, query string, args ...any) (int64, error) {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// syncGuests replaces the booking's association set with exactly guestIDs:
// pairs not in the new set are deleted, missing pairs inserted.
func syncGuests(ctx context.Context, tx *sql.Tx, bookingID int64, guestIDs []int64) error {
	if len(guestIDs) == 0 {
		_, err := tx.ExecContext(ctx, deleteAllBookingGuestsSQL, bookingID)
		return err
	}

	ph := make([]string, len(guestIDs))
	delArgs := make([]any, 0, len(guestIDs)+1)
	delArgs = append(delArgs, bookingID)
	for i, id := range guestIDs {
		ph[i] = "?"
		delArgs = append(delArgs, id)
	}
	delSQL := deleteStaleBookingGuestsPrefix + "(" + strings.Join(ph, ",") + ")"
	if _, err := tx.ExecContext(ctx, delSQL, delArgs...); err != nil {
		return err
	}

	values := make([]string, 0, len(guestIDs))
	insArgs := make([]any, 0, len(guestIDs)*2)
	for _, id := range guestIDs {
		values = append(values, "(?,?)")
		insArgs = append(insArgs, bookingID, id)
	}
	insSQL := insertBookingGuestsPrefix + strings.Join(values, ",")
	_, err := tx.ExecContext(ctx, insSQL, insArgs...)
	return err
}
