// Package repository contains data access logic for Showing domain
// operations. This file defines repository methods for showings. A
// Showing schedules a movie in a room on a date at a start time stored
// as seconds since midnight; its end is derived from the movie's
// duration, so most queries join the movie table.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cinemacousas/cinema-booking/internal/core"
	"github.com/cinemacousas/cinema-booking/internal/model"
)

// ErrShowingNotFound indicates that a showing was not located in the DB.
var ErrShowingNotFound = errors.New("showing not found")

// ShowingRepo manages persistence for showings.  It implements the
// core.ScheduleSource and core.ShowingSource interfaces consumed by the
// conflict checker and the booking engine.
type ShowingRepo struct {
	db *sql.DB
}

// NewShowingRepo constructs a ShowingRepo with the given DB handle.
func NewShowingRepo(db *sql.DB) *ShowingRepo {
	return &ShowingRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *ShowingRepo) DB() *sql.DB {
	return r.db
}

// ShowingDetail is a showing joined with its movie and room, the shape
// consumed by listings, seat maps and ticket documents.
type ShowingDetail struct {
	model.Showing
	MovieName     string  `json:"movie_name"`
	MovieDuration uint32  `json:"duration"`
	Director      *string `json:"director,omitempty"`
	RoomName      string  `json:"room_name"`
	RoomRows      uint32  `json:"nb_rows"`
	RoomCols      uint32  `json:"nb_columns"`
}

const detailSelect = `SELECT s.id, s.movie_id, s.room_id, s.date, s.starttime, s.baseprice, s.created_at, s.updated_at,
                             m.name, m.duration, m.director,
                             r.name, r.nb_rows, r.nb_columns
                      FROM showing s
                      JOIN movie m ON m.id = s.movie_id
                      JOIN room r ON r.id = s.room_id`

func scanDetail(row interface{ Scan(...interface{}) error }) (*ShowingDetail, error) {
	var d ShowingDetail
	err := row.Scan(
		&d.ID, &d.MovieID, &d.RoomID, &d.Date, &d.StartTime, &d.BasePrice, &d.CreatedAt, &d.UpdatedAt,
		&d.MovieName, &d.MovieDuration, &d.Director,
		&d.RoomName, &d.RoomRows, &d.RoomCols,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new showing and assigns the generated ID back to the
// struct.  Schedule conflicts are the caller's concern: handlers gate
// creation through the core conflict checker first.
func (r *ShowingRepo) Create(ctx context.Context, s *model.Showing) error {
	const q = `INSERT INTO showing (date, starttime, baseprice, room_id, movie_id) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.Date.Format("2006-01-02"), s.StartTime, s.BasePrice, s.RoomID, s.MovieID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID retrieves a bare showing row.  Returns ErrShowingNotFound
// when no row matches.
func (r *ShowingRepo) GetByID(ctx context.Context, id uint64) (*model.Showing, error) {
	const q = `SELECT id, movie_id, room_id, date, starttime, baseprice, created_at, updated_at FROM showing WHERE id = ?`
	var s model.Showing
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.MovieID, &s.RoomID, &s.Date, &s.StartTime, &s.BasePrice, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowingNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetDetail retrieves a showing joined with its movie and room.
func (r *ShowingRepo) GetDetail(ctx context.Context, id uint64) (*ShowingDetail, error) {
	d, err := scanDetail(r.db.QueryRowContext(ctx, detailSelect+` WHERE s.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowingNotFound
		}
		return nil, err
	}
	return d, nil
}

// ListDetails returns all showings with movie and room information,
// ordered by date then start time.  Callers filter out elapsed entries
// with the expiration evaluator so listings and ticket views agree on
// what counts as upcoming.
func (r *ShowingRepo) ListDetails(ctx context.Context) ([]ShowingDetail, error) {
	rows, err := r.db.QueryContext(ctx, detailSelect+` ORDER BY s.date, s.starttime`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]ShowingDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
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

// ListDetailsByMovie returns all showings of one movie, ordered by date
// then start time.
func (r *ShowingRepo) ListDetailsByMovie(ctx context.Context, movieID uint64) ([]ShowingDetail, error) {
	rows, err := r.db.QueryContext(ctx, detailSelect+` WHERE s.movie_id = ? ORDER BY s.date, s.starttime`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]ShowingDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
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

// EntriesForRoomDate lists the screenings of a room on a date as
// schedule entries for the conflict checker, excluding excludeID when
// non-zero.  Each entry carries its own movie's duration.
func (r *ShowingRepo) EntriesForRoomDate(ctx context.Context, roomID uint64, date time.Time, excludeID uint64) ([]core.ScheduleEntry, error) {
	const q = `SELECT s.id, s.starttime, m.duration, m.name
	           FROM showing s
	           JOIN movie m ON m.id = s.movie_id
	           WHERE s.room_id = ? AND s.date = ? AND s.id <> ?`
	rows, err := r.db.QueryContext(ctx, q, roomID, date.Format("2006-01-02"), excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	var entries []core.ScheduleEntry
	for rows.Next() {
		var (
			id        uint64
			startSecs uint32
			duration  uint32
			name      string
		)
		if err := rows.Scan(&id, &startSecs, &duration, &name); err != nil {
			return nil, err
		}
		entries = append(entries, core.ScheduleEntry{
			ShowingID: id,
			MovieName: name,
			Start:     day.Add(time.Duration(startSecs) * time.Second),
			Duration:  time.Duration(duration) * time.Minute,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// BasePriceCents implements core.ShowingSource for the booking engine.
func (r *ShowingRepo) BasePriceCents(ctx context.Context, showingID uint64) (uint32, error) {
	var cents uint32
	err := r.db.QueryRowContext(ctx, `SELECT baseprice FROM showing WHERE id = ?`, showingID).Scan(&cents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, core.ErrShowingNotFound
		}
		return 0, err
	}
	return cents, nil
}

// Update rewrites a showing's schedule and price.  As with Create, the
// conflict check happens upstream with the showing itself excluded.
// Returns ErrShowingNotFound when the row is absent.
func (r *ShowingRepo) Update(ctx context.Context, s *model.Showing) error {
	const q = `UPDATE showing SET date = ?, starttime = ?, baseprice = ?, room_id = ?, movie_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, s.Date.Format("2006-01-02"), s.StartTime, s.BasePrice, s.RoomID, s.MovieID, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM showing WHERE id = ?`, s.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrShowingNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a showing.  Returns ErrInUse while any booking
// references it and ErrShowingNotFound when the row is absent.
func (r *ShowingRepo) Delete(ctx context.Context, id uint64) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM booking WHERE showing_id = ?`, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrInUse
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM showing WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShowingNotFound
	}
	return nil
}

// SeatStatus is one cell of a showing's seat map: the seat plus whether
// a reservation occupies it for this showing.
type SeatStatus struct {
	model.Seat
	Occupied bool `json:"occupied"`
}

// SeatMap returns every seat of the showing's room with its occupancy
// for this showing, ordered by row then column.  Occupancy is derived
// solely from the seatreservation table.
func (r *ShowingRepo) SeatMap(ctx context.Context, showingID uint64) ([]SeatStatus, error) {
	showing, err := r.GetByID(ctx, showingID)
	if err != nil {
		return nil, err
	}
	const q = `SELECT st.id, st.room_id, st.seat_row, st.seat_column, st.type,
	                  CASE WHEN sr.seat_id IS NULL THEN 0 ELSE 1 END
	           FROM seat st
	           LEFT JOIN seatreservation sr ON sr.seat_id = st.id AND sr.showing_id = ?
	           WHERE st.room_id = ?
	           ORDER BY st.seat_row, st.seat_column`
	rows, err := r.db.QueryContext(ctx, q, showingID, showing.RoomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]SeatStatus, 0)
	for rows.Next() {
		var s SeatStatus
		if err := rows.Scan(&s.ID, &s.RoomID, &s.Row, &s.Column, &s.Type, &s.Occupied); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
