// Package repository: read-side access to bookings.  The write path
// (creating and cancelling bookings) goes through the core booking
// engine and its transactional store; this repository serves listings,
// ownership checks and the detail shape rendered on tickets.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/cinemacousas/cinema-booking/internal/model"
)

// ErrBookingNotFound is returned when a booking lookup fails.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo provides read access to bookings and their reservations.
// Its ReservedSeatIDs method implements core.ReservationSource for the
// advisory availability check.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// ReservedSeatIDs returns the subset of seatIDs already reserved for
// the showing.  No locks are taken; this is the advisory pre-flight
// answer, not the transactional one.
func (r *BookingRepo) ReservedSeatIDs(ctx context.Context, showingID uint64, seatIDs []uint64) ([]uint64, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}
	marks := strings.TrimSuffix(strings.Repeat("?,", len(seatIDs)), ",")
	q := `SELECT seat_id FROM seatreservation WHERE showing_id = ? AND seat_id IN (` + marks + `)`
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, showingID)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var taken []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		taken = append(taken, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return taken, nil
}

// GetByID retrieves a bare booking row.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, showing_id, account_id, price, reference, first_name, last_name, email, created_at
	           FROM booking WHERE id = ?`
	var b model.Booking
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.ShowingID, &b.AccountID, &b.Price, &b.Reference, &b.FirstName, &b.LastName, &b.Email, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetByReference retrieves a booking by its opaque reference code, the
// lookup used by anonymous bookers retrieving a ticket.
func (r *BookingRepo) GetByReference(ctx context.Context, reference string) (*model.Booking, error) {
	const q = `SELECT id, showing_id, account_id, price, reference, first_name, last_name, email, created_at
	           FROM booking WHERE reference = ?`
	var b model.Booking
	err := r.db.QueryRowContext(ctx, q, reference).Scan(
		&b.ID, &b.ShowingID, &b.AccountID, &b.Price, &b.Reference, &b.FirstName, &b.LastName, &b.Email, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// OwnerID returns the account that owns a booking.  Handlers use it to
// enforce that customers only cancel or view their own bookings.
func (r *BookingRepo) OwnerID(ctx context.Context, bookingID uint64) (uint64, error) {
	var owner uint64
	err := r.db.QueryRowContext(ctx, `SELECT account_id FROM booking WHERE id = ?`, bookingID).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrBookingNotFound
		}
		return 0, err
	}
	return owner, nil
}

// BookingDetail is a booking joined with its showing, movie and room,
// the shape of the "my bookings" listing and the ticket document.
type BookingDetail struct {
	model.Booking
	Date          time.Time `json:"date"`
	StartTime     uint32    `json:"starttime"`
	MovieName     string    `json:"movie_name"`
	MovieDuration uint32    `json:"duration"`
	RoomName      string    `json:"room_name"`
	SeatCount     uint32    `json:"seat_count"`
}

const bookingDetailSelect = `SELECT b.id, b.showing_id, b.account_id, b.price, b.reference, b.first_name, b.last_name, b.email, b.created_at,
                                    s.date, s.starttime, m.name, m.duration, r.name,
                                    (SELECT COUNT(*) FROM seatreservation sr
                                     JOIN customer c ON c.id = sr.customer_id
                                     WHERE c.booking_id = b.id)
                             FROM booking b
                             JOIN showing s ON s.id = b.showing_id
                             JOIN movie m ON m.id = s.movie_id
                             JOIN room r ON r.id = s.room_id`

func scanBookingDetail(row interface{ Scan(...interface{}) error }) (*BookingDetail, error) {
	var d BookingDetail
	err := row.Scan(
		&d.ID, &d.ShowingID, &d.AccountID, &d.Price, &d.Reference, &d.FirstName, &d.LastName, &d.Email, &d.CreatedAt,
		&d.Date, &d.StartTime, &d.MovieName, &d.MovieDuration, &d.RoomName, &d.SeatCount,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDetail retrieves one booking with its showing context.
func (r *BookingRepo) GetDetail(ctx context.Context, id uint64) (*BookingDetail, error) {
	d, err := scanBookingDetail(r.db.QueryRowContext(ctx, bookingDetailSelect+` WHERE b.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return d, nil
}

// ListByAccount returns all bookings of an account with showing
// context, most recent screening first.  The handler splits the result
// into upcoming and past with the expiration evaluator.
func (r *BookingRepo) ListByAccount(ctx context.Context, accountID uint64) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, bookingDetailSelect+` WHERE b.account_id = ? ORDER BY s.date DESC, s.starttime DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]BookingDetail, 0)
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// BookedSeat is one reserved seat of a booking together with the
// spectator occupying it.
type BookedSeat struct {
	SeatID    uint64 `json:"seat_id"`
	Row       string `json:"row"`
	Column    uint32 `json:"column"`
	Type      string `json:"type"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Age       uint32 `json:"age"`
	PMR       bool   `json:"pmr"`
}

// Seats returns the reserved seats of a booking with their spectators,
// ordered by row then column.
func (r *BookingRepo) Seats(ctx context.Context, bookingID uint64) ([]BookedSeat, error) {
	const q = `SELECT st.id, st.seat_row, st.seat_column, st.type, c.firstname, c.lastname, c.age, c.pmr
	           FROM seatreservation sr
	           JOIN customer c ON c.id = sr.customer_id
	           JOIN seat st ON st.id = sr.seat_id
	           WHERE c.booking_id = ?
	           ORDER BY st.seat_row, st.seat_column`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]BookedSeat, 0)
	for rows.Next() {
		var s BookedSeat
		if err := rows.Scan(&s.SeatID, &s.Row, &s.Column, &s.Type, &s.FirstName, &s.LastName, &s.Age, &s.PMR); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
