package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinemacousas/cinema-booking/internal/model"
)

// ErrAgePriceNotFound is returned when a pricing band lookup fails.
var ErrAgePriceNotFound = errors.New("age price not found")

// AgePriceRepo reads and maintains the age pricing bands.  Rules
// implements core.PricingSource for the booking engine.
type AgePriceRepo struct {
	db *sql.DB
}

// NewAgePriceRepo constructs an AgePriceRepo with the given DB handle.
func NewAgePriceRepo(db *sql.DB) *AgePriceRepo {
	return &AgePriceRepo{db: db}
}

// Rules returns all pricing bands ordered by ascending agemin, the
// order the pricing calculator matches them in.
func (r *AgePriceRepo) Rules(ctx context.Context) ([]model.AgePrice, error) {
	const q = `SELECT id, name, agemin, agemax, factor FROM ageprice ORDER BY agemin`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.AgePrice, 0)
	for rows.Next() {
		var p model.AgePrice
		if err := rows.Scan(&p.ID, &p.Name, &p.AgeMin, &p.AgeMax, &p.Factor); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update rewrites one band.  Band boundaries are back-office reference
// data; there is no delete because the calculator needs the bands to
// stay exhaustive.
func (r *AgePriceRepo) Update(ctx context.Context, p *model.AgePrice) error {
	const q = `UPDATE ageprice SET name = ?, agemin = ?, agemax = ?, factor = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, p.Name, p.AgeMin, p.AgeMax, p.Factor, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM ageprice WHERE id = ?`, p.ID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrAgePriceNotFound
			}
			return err
		}
	}
	return nil
}
