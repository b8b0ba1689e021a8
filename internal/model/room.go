package model

import "time"

// Room represents a screening room.  A room owns a rectangular grid of
// seats created when the room is added: one seat per row×column cell.
// Changing the dimensions regenerates every seat and is only allowed
// while no showing references the room.  This struct corresponds to a
// row in the `room` table.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – human readable label for the room.
//  RowCount  – number of seating rows (rows are labelled A, B, C, ...).
//  ColCount  – number of seats per row (columns are 1-based).
type Room struct {
	ID        uint64    // room.id
	Name      string    // room.name
	RowCount  uint32    // room.nb_rows
	ColCount  uint32    // room.nb_columns
	CreatedAt time.Time // room.created_at
	UpdatedAt time.Time // room.updated_at
}
