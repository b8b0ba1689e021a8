package core

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/cinemacousas/cinema-booking/internal/model"
)

// SQLStore implements Store on top of database/sql.  Each Begin opens a
// real transaction; the MySQL default isolation (REPEATABLE READ) plus
// the unique key on seatreservation (showing_id, seat_id) guarantee
// that two concurrent bookings for overlapping seats cannot both commit.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps a database handle.
func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// Begin starts a booking transaction.
func (s *SQLStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx}, nil
}

type sqlTx struct {
	tx *sql.Tx
}

// placeholders returns "?, ?, ..." for n bound values.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// ReservedSeatIDs selects the requested seats that already carry a
// reservation for the showing, locking the matched rows so a racing
// transaction blocks until this one resolves.
func (t *sqlTx) ReservedSeatIDs(ctx context.Context, showingID uint64, seatIDs []uint64) ([]uint64, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}
	q := `SELECT seat_id FROM seatreservation
	      WHERE showing_id = ? AND seat_id IN (` + placeholders(len(seatIDs)) + `) FOR UPDATE`
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, showingID)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	rows, err := t.tx.QueryContext(ctx, q, args...)
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
	return taken, rows.Err()
}

// SeatTypes maps each existing seat id to its type.  Missing ids are
// simply absent from the result; the engine treats that as ErrSeatUnknown.
func (t *sqlTx) SeatTypes(ctx context.Context, seatIDs []uint64) (map[uint64]string, error) {
	if len(seatIDs) == 0 {
		return map[uint64]string{}, nil
	}
	q := `SELECT id, type FROM seat WHERE id IN (` + placeholders(len(seatIDs)) + `)`
	args := make([]interface{}, 0, len(seatIDs))
	for _, id := range seatIDs {
		args = append(args, id)
	}
	rows, err := t.tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	types := make(map[uint64]string, len(seatIDs))
	for rows.Next() {
		var id uint64
		var typ string
		if err := rows.Scan(&id, &typ); err != nil {
			return nil, err
		}
		types[id] = typ
	}
	return types, rows.Err()
}

// InsertBooking inserts the booking row and populates the generated id.
func (t *sqlTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO booking (price, account_id, showing_id, reference, first_name, last_name, email)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q, b.Price, b.AccountID, b.ShowingID, b.Reference, b.FirstName, b.LastName, b.Email)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// InsertCustomer inserts one spectator row and populates the generated id.
func (t *sqlTx) InsertCustomer(ctx context.Context, c *model.Customer) error {
	const q = `INSERT INTO customer (firstname, lastname, age, pmr, booking_id) VALUES (?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q, c.FirstName, c.LastName, c.Age, c.PMR, c.BookingID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// InsertReservation binds a customer to a seat for a showing.  A
// duplicate-key failure on the (showing_id, seat_id) unique index means
// a racing booking committed first and is reported as ErrSeatsUnavailable.
func (t *sqlTx) InsertReservation(ctx context.Context, r *model.SeatReservation) error {
	const q = `INSERT INTO seatreservation (customer_id, showing_id, seat_id) VALUES (?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q, r.CustomerID, r.ShowingID, r.SeatID)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrSeatsUnavailable
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = uint64(id)
	return nil
}

// BookingExists reports whether the booking row is present, locking it
// so a concurrent cancel of the same booking serializes behind this one.
func (t *sqlTx) BookingExists(ctx context.Context, bookingID uint64) (bool, error) {
	var one int
	err := t.tx.QueryRowContext(ctx, `SELECT 1 FROM booking WHERE id = ? FOR UPDATE`, bookingID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteReservationsByBooking removes the seat reservations owned by a
// booking's customers, returning the seats to the available pool.
func (t *sqlTx) DeleteReservationsByBooking(ctx context.Context, bookingID uint64) error {
	const q = `DELETE sr FROM seatreservation sr
	           JOIN customer c ON c.id = sr.customer_id
	           WHERE c.booking_id = ?`
	_, err := t.tx.ExecContext(ctx, q, bookingID)
	return err
}

// DeleteCustomersByBooking removes a booking's spectator rows.
func (t *sqlTx) DeleteCustomersByBooking(ctx context.Context, bookingID uint64) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM customer WHERE booking_id = ?`, bookingID)
	return err
}

// DeleteBooking removes the booking row itself.
func (t *sqlTx) DeleteBooking(ctx context.Context, bookingID uint64) error {
	_, err := t.tx.ExecContext(ctx, `DELETE FROM booking WHERE id = ?`, bookingID)
	return err
}

func (t *sqlTx) Commit() error   { return t.tx.Commit() }
func (t *sqlTx) Rollback() error { return t.tx.Rollback() }
