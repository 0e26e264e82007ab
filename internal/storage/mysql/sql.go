package mysql

// LAST_INSERT_ID(id) in the update arm makes LastInsertId return the existing
// row's primary key on a duplicate-key update, so every upsert yields the
// local id regardless of insert-or-update.

const upsertRoomSQL = `
INSERT INTO rooms (external_id, number, floor)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  id         = LAST_INSERT_ID(id),
  number     = VALUES(number),
  floor      = VALUES(floor),
  updated_at = CURRENT_TIMESTAMP
`

const upsertRoomTypeSQL = `
INSERT INTO room_types (external_id, name, description)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  id          = LAST_INSERT_ID(id),
  name        = VALUES(name),
  description = VALUES(description),
  updated_at  = CURRENT_TIMESTAMP
`

const upsertGuestSQL = `
INSERT INTO guests (external_id, first_name, last_name, email)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  id         = LAST_INSERT_ID(id),
  first_name = VALUES(first_name),
  last_name  = VALUES(last_name),
  email      = VALUES(email),
  updated_at = CURRENT_TIMESTAMP
`

const upsertBookingSQL = `
INSERT INTO bookings
  (external_id, arrival_date, departure_date, room_id, room_type_id, status, notes)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  id             = LAST_INSERT_ID(id),
  arrival_date   = VALUES(arrival_date),
  departure_date = VALUES(departure_date),
  room_id        = VALUES(room_id),
  room_type_id   = VALUES(room_type_id),
  status         = VALUES(status),
  notes          = VALUES(notes),
  updated_at     = CURRENT_TIMESTAMP
`

const deleteAllBookingGuestsSQL = `
DELETE FROM booking_guest WHERE booking_id = ?
`

// completed with a (?,...) placeholder list per call
const deleteStaleBookingGuestsPrefix = `
DELETE FROM booking_guest WHERE booking_id = ? AND guest_id NOT IN `

const insertBookingGuestsPrefix = `
INSERT IGNORE INTO booking_guest (booking_id, guest_id) VALUES `
