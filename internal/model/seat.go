package model

// Seat type values as stored in seat.type.  A "pmr" seat is reserved for
// reduced-mobility spectators; "stair" and "empty" cells exist so the
// grid can model walkways and gaps without breaking the rectangle.
const (
	SeatTypeNormal = "normal"
	SeatTypePMR    = "pmr"
	SeatTypeStair  = "stair"
	SeatTypeEmpty  = "empty"
)

// Seat describes one cell of a room's seating grid.  Seats are uniquely
// identified by their room, row letter and 1-based column index.  The
// identity of a seat is immutable once a reservation references it; its
// type can no longer change once any booking exists for a showing in the
// seat's room.
//
// Fields:
//  ID     – primary key identifier.
//  RoomID – room to which this seat belongs.
//  Row    – row letter (A, B, C, ...).
//  Column – seat position within the row (1-based).
//  Type   – one of normal, pmr, stair, empty.
type Seat struct {
	ID     uint64 // seat.id
	RoomID uint64 // seat.room_id
	Row    string // seat.seat_row
	Column uint32 // seat.seat_column
	Type   string // seat.type
}
