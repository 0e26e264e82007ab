package pms

import (
	"strconv"
	"strings"
	"time"

	"pms_sync/internal/domain"
)

// Required field sets, checked before mapping. Missing any field makes the
// whole booking invalid; no partial aggregate is ever returned.
var (
	bookingRequired  = []string{"external_id", "room_id", "room_type_id", "status", "guest_ids", "arrival_date", "departure_date"}
	roomRequired     = []string{"id", "number", "floor"}
	roomTypeRequired = []string{"id", "name", "description"}
	guestRequired    = []string{"id", "first_name", "last_name", "email"}
)

// dateLayouts covers the formats the PMS has been seen emitting.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

/********** conversion helpers **********/

// asInt64 accepts the numeric shapes JSON decoding can produce, plus numeric
// strings.
func asInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case int:
		return int64(t), true
	case int64:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	}
	return "", false
}

func asTime(v any) (time.Time, bool) {
	s, ok := asString(v)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

/********** entity mappers **********/

func mapBooking(endpoint string, m map[string]any) (domain.Booking, error) {
	bad := func(field string) (domain.Booking, error) {
		return domain.Booking{}, &domain.InvalidDataError{Endpoint: endpoint, Field: field}
	}

	externalID, ok := asString(m["external_id"])
	if !ok || externalID == "" {
		return bad("external_id")
	}
	roomID, ok := asInt64(m["room_id"])
	if !ok {
		return bad("room_id")
	}
	roomTypeID, ok := asInt64(m["room_type_id"])
	if !ok {
		return bad("room_type_id")
	}
	status, ok := asString(m["status"])
	if !ok || status == "" {
		return bad("status")
	}
	rawGuests, ok := m["guest_ids"].([]any)
	if !ok {
		return bad("guest_ids")
	}
	guestIDs := make([]int64, 0, len(rawGuests))
	for _, g := range rawGuests {
		id, ok := asInt64(g)
		if !ok {
			return bad("guest_ids")
		}
		guestIDs = append(guestIDs, id)
	}
	arrival, ok := asTime(m["arrival_date"])
	if !ok {
		return bad("arrival_date")
	}
	departure, ok := asTime(m["departure_date"])
	if !ok {
		return bad("departure_date")
	}

	b := domain.Booking{
		ExternalID:    externalID,
		RoomID:        roomID,
		RoomTypeID:    roomTypeID,
		Status:        status,
		GuestIDs:      guestIDs,
		ArrivalDate:   arrival,
		DepartureDate: departure,
	}
	if notes, ok := asString(m["notes"]); ok && notes != "" {
		b.Notes = &notes
	}
	return b, nil
}

func mapRoom(endpoint string, m map[string]any) (domain.Room, error) {
	bad := func(field string) (domain.Room, error) {
		return domain.Room{}, &domain.InvalidDataError{Endpoint: endpoint, Field: field}
	}

	id, ok := asInt64(m["id"])
	if !ok {
		return bad("id")
	}
	number, ok := asString(m["number"])
	if !ok || number == "" {
		return bad("number")
	}
	floor, ok := asInt64(m["floor"])
	if !ok {
		return bad("floor")
	}
	return domain.Room{ExternalID: id, Number: number, Floor: int(floor)}, nil
}

func mapRoomType(endpoint string, m map[string]any) (domain.RoomType, error) {
	bad := func(field string) (domain.RoomType, error) {
		return domain.RoomType{}, &domain.InvalidDataError{Endpoint: endpoint, Field: field}
	}

	id, ok := asInt64(m["id"])
	if !ok {
		return bad("id")
	}
	name, ok := asString(m["name"])
	if !ok || name == "" {
		return bad("name")
	}
	desc, ok := asString(m["description"])
	if !ok {
		return bad("description")
	}
	return domain.RoomType{ExternalID: id, Name: name, Description: desc}, nil
}

func mapGuest(endpoint string, m map[string]any) (domain.Guest, error) {
	bad := func(field string) (domain.Guest, error) {
		return domain.Guest{}, &domain.InvalidDataError{Endpoint: endpoint, Field: field}
	}

	id, ok := asInt64(m["id"])
	if !ok {
		return bad("id")
	}
	first, ok := asString(m["first_name"])
	if !ok || first == "" {
		return bad("first_name")
	}
	last, ok := asString(m["last_name"])
	if !ok || last == "" {
		return bad("last_name")
	}
	email, ok := asString(m["email"])
	if !ok || email == "" {
		return bad("email")
	}
	return domain.Guest{ExternalID: id, FirstName: first, LastName: last, Email: email}, nil
}
