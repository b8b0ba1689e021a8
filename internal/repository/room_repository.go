package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinemacousas/cinema-booking/internal/model"
)

// ErrRoomNotFound is returned when a room lookup fails.
var ErrRoomNotFound = errors.New("room not found")

// RoomRepo manages rooms and their seat grids.  A room owns exactly one
// seat per row×column cell; creating a room generates the full grid and
// changing the dimensions regenerates it.  Dimension changes and
// deletions are blocked while any showing references the room.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// rowLabel converts a zero-based row index to its letter label: A, B,
// ... Z, AA, AB and so on for rooms deeper than 26 rows.
func rowLabel(i int) string {
	label := []byte{}
	for {
		label = append([]byte{byte('A' + i%26)}, label...)
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	return string(label)
}

// insertSeatGrid bulk-inserts the full seat grid for a room inside the
// given transaction.  Every seat starts as type "normal".
func insertSeatGrid(ctx context.Context, tx *sql.Tx, roomID uint64, rowCount, colCount uint32) error {
	if rowCount == 0 || colCount == 0 {
		return nil
	}
	query := `INSERT INTO seat (type, room_id, seat_row, seat_column) VALUES `
	args := make([]interface{}, 0, int(rowCount)*int(colCount)*4)
	first := true
	for row := 0; row < int(rowCount); row++ {
		label := rowLabel(row)
		for col := 1; col <= int(colCount); col++ {
			if !first {
				query += ","
			}
			first = false
			query += "(?, ?, ?, ?)"
			args = append(args, model.SeatTypeNormal, roomID, label, col)
		}
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// Create inserts a room and generates its seat grid in one transaction.
// On success the generated ID is populated on the given room.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO room (name, nb_rows, nb_columns) VALUES (?, ?, ?)`,
		room.Name, room.RowCount, room.ColCount)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)
	if err := insertSeatGrid(ctx, tx, room.ID, room.RowCount, room.ColCount); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID retrieves a room by its ID.  Returns ErrRoomNotFound when no
// row matches.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT id, name, nb_rows, nb_columns, created_at, updated_at FROM room WHERE id = ?`
	var room model.Room
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&room.ID, &room.Name, &room.RowCount, &room.ColCount, &room.CreatedAt, &room.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// List returns all rooms ordered by name.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	const q = `SELECT id, name, nb_rows, nb_columns, created_at, updated_at FROM room ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Room, 0)
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.RowCount, &room.ColCount, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UsedInShowings reports whether any showing references the room.
func (r *RoomRepo) UsedInShowings(ctx context.Context, roomID uint64) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM showing WHERE room_id = ?`, roomID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update renames a room and, when the dimensions change, regenerates
// the whole seat grid.  A dimension change is refused with ErrInUse
// while the room is referenced by any showing, because regenerating
// seats would orphan their reservations.  Rename-only updates are a
// plain UPDATE.
func (r *RoomRepo) Update(ctx context.Context, room *model.Room) error {
	current, err := r.GetByID(ctx, room.ID)
	if err != nil {
		return err
	}
	dimensionsChanged := room.RowCount != current.RowCount || room.ColCount != current.ColCount
	if !dimensionsChanged {
		_, err := r.db.ExecContext(ctx,
			`UPDATE room SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			room.Name, room.ID)
		return err
	}
	used, err := r.UsedInShowings(ctx, room.ID)
	if err != nil {
		return err
	}
	if used {
		return ErrInUse
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM seat WHERE room_id = ?`, room.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE room SET name = ?, nb_rows = ?, nb_columns = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		room.Name, room.RowCount, room.ColCount, room.ID); err != nil {
		return err
	}
	if err := insertSeatGrid(ctx, tx, room.ID, room.RowCount, room.ColCount); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a room and all of its seats.  The seats go first
// because of the foreign key.  Returns ErrInUse while showings
// reference the room and ErrRoomNotFound when the row is absent.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	used, err := r.UsedInShowings(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return ErrInUse
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM seat WHERE room_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM room WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
