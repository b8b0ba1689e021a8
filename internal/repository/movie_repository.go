package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions

	"github.com/cinemacousas/cinema-booking/internal/model"
)

// ErrMovieNotFound is returned when a movie lookup fails.
var ErrMovieNotFound = errors.New("movie not found")

// MovieRepo provides CRUD operations for movies.  Deleting a movie is
// blocked while any showing references it.
type MovieRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// Create inserts a new movie and assigns the generated ID back to the
// struct.  Duration must be at least one minute; callers validate that
// before reaching the repository.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = "INSERT INTO movie (name, duration, director, `cast`, synopsis) VALUES (?, ?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, m.Name, m.Duration, m.Director, m.Cast, m.Synopsis)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	const sel = "SELECT id, name, duration, director, `cast`, synopsis, created_at, updated_at FROM movie WHERE id = ?"
	return r.db.QueryRowContext(ctx, sel, m.ID).Scan(
		&m.ID, &m.Name, &m.Duration, &m.Director, &m.Cast, &m.Synopsis, &m.CreatedAt, &m.UpdatedAt,
	)
}

// GetByID retrieves a movie by its ID.  It returns ErrMovieNotFound if
// there is no matching row.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = "SELECT id, name, duration, director, `cast`, synopsis, created_at, updated_at FROM movie WHERE id = ?"
	var m model.Movie
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.Name, &m.Duration, &m.Director, &m.Cast, &m.Synopsis, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns all movies ordered by name.  When none exist it returns
// an empty slice and nil error.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	const q = "SELECT id, name, duration, director, `cast`, synopsis, created_at, updated_at FROM movie ORDER BY name"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Name, &m.Duration, &m.Director, &m.Cast, &m.Synopsis, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update rewrites a movie's attributes.  Returns ErrMovieNotFound when
// the row does not exist.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	const q = "UPDATE movie SET name = ?, duration = ?, director = ?, `cast` = ?, synopsis = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, m.Name, m.Duration, m.Director, m.Cast, m.Synopsis, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "no such movie" from "identical values".
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM movie WHERE id = ?`, m.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMovieNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a movie.  It returns ErrInUse while any showing still
// references the movie and ErrMovieNotFound when the row is absent.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM showing WHERE movie_id = ?`, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrInUse
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM movie WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}
