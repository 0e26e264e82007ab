package domain

import "time"

// Room, RoomType, Guest and Booking are keyed by the immutable external id
// the PMS assigns; local primary keys are owned by the datastore.

type Room struct {
	ExternalID int64
	Number     string
	Floor      int
}

type RoomType struct {
	ExternalID  int64
	Name        string
	Description string
}

type Guest struct {
	ExternalID int64
	FirstName  string
	LastName   string
	Email      string
}

type Booking struct {
	ExternalID    string
	RoomID        int64 // external room id, resolved to a local row at persist time
	RoomTypeID    int64 // external room type id, same
	Status        string
	Notes         *string
	GuestIDs      []int64
	ArrivalDate   time.Time
	DepartureDate time.Time
}

// BookingAggregate is one booking with every referenced entity fetched and
// validated, ready to be persisted in a single transaction.
type BookingAggregate struct {
	Booking  Booking
	Room     Room
	RoomType RoomType
	Guests   []Guest
}
