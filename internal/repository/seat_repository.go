package repository // repository defines data access for seats

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel definitions

	"github.com/cinemacousas/cinema-booking/internal/model"
)

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// SeatRepo provides methods to work with seats in the database.  Seats
// are created and regenerated by RoomRepo; this repository reads them
// and edits their type.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// GetByID retrieves a seat by its id.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT id, room_id, seat_row, seat_column, type FROM seat WHERE id = ?`
	var s model.Seat
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.RoomID, &s.Row, &s.Column, &s.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByRoom retrieves all seats of a room ordered by row then column.
func (r *SeatRepo) GetByRoom(ctx context.Context, roomID uint64) ([]model.Seat, error) {
	const q = `SELECT id, room_id, seat_row, seat_column, type
	           FROM seat
	           WHERE room_id = ?
	           ORDER BY seat_row, seat_column`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.RoomID, &s.Row, &s.Column, &s.Type); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// RoomHasBookings reports whether any booking exists for a showing in
// the room that contains the given seat.  Seat types are frozen once
// this is true, since changing a pmr seat under an existing booking
// would falsify the PMR flags derived from it.
func (r *SeatRepo) RoomHasBookings(ctx context.Context, seatID uint64) (bool, error) {
	const q = `SELECT COUNT(*)
	           FROM booking b
	           JOIN showing sh ON sh.id = b.showing_id
	           JOIN seat s ON s.room_id = sh.room_id
	           WHERE s.id = ?`
	var count int
	if err := r.db.QueryRowContext(ctx, q, seatID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateType changes a seat's type.  It refuses with ErrInUse once the
// seat's room has showings with bookings, and returns ErrSeatNotFound
// when the seat does not exist.
func (r *SeatRepo) UpdateType(ctx context.Context, seatID uint64, newType string) error {
	booked, err := r.RoomHasBookings(ctx, seatID)
	if err != nil {
		return err
	}
	if booked {
		return ErrInUse
	}
	res, err := r.db.ExecContext(ctx, `UPDATE seat SET type = ? WHERE id = ?`, newType, seatID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either the seat is absent or the type already matches; look
		// the row up to tell the two apart.
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM seat WHERE id = ?`, seatID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSeatNotFound
			}
			return err
		}
	}
	return nil
}
