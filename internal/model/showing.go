package model

import "time"

// Showing represents one scheduled screening of a movie in a room.
// StartTime is stored as elapsed seconds since midnight; the screening's
// end is derived from the referenced movie's duration.  BasePrice is in
// minor currency units (cents) and is converted to major units at the
// pricing boundary.  This struct corresponds to a row in the `showing`
// table.
//
// Fields:
//  ID        – primary key identifier.
//  MovieID   – movie being screened.
//  RoomID    – room hosting the screening.
//  Date      – calendar date of the screening (time component ignored).
//  StartTime – start time as seconds since midnight.
//  BasePrice – base seat price in cents.
type Showing struct {
	ID        uint64    // showing.id
	MovieID   uint64    // showing.movie_id
	RoomID    uint64    // showing.room_id
	Date      time.Time // showing.date (DATE column)
	StartTime uint32    // showing.starttime (seconds since midnight)
	BasePrice uint32    // showing.baseprice (cents)
	CreatedAt time.Time // showing.created_at
	UpdatedAt time.Time // showing.updated_at
}

// StartsAt combines the showing's date with its start-of-day offset and
// returns the absolute start instant in the date's location.
func (s Showing) StartsAt() time.Time {
	d := s.Date
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location()).
		Add(time.Duration(s.StartTime) * time.Second)
}
