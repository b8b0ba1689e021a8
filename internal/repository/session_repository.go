package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cinemacousas/cinema-booking/internal/model"
)

// ErrSessionNotFound is returned when no active, unexpired session
// matches a token hash.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepo manages server-side login sessions.  Only token hashes
// are stored; the raw token lives in the client's cookie.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo constructs a SessionRepo with the given DB handle.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create inserts a new session row and assigns the generated ID.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	const q = `INSERT INTO account_session (account_id, token_hash, expires_at, is_active, ip_address, user_agent)
	           VALUES (?, ?, ?, 1, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.AccountID, s.TokenHash, s.ExpiresAt, s.IPAddress, s.UserAgent)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.IsActive = true
	return nil
}

// Validate resolves a token hash to its session, requiring the session
// to be active and unexpired.  Expired-but-unswept rows fail here the
// same as swept ones; the sweep only makes the expiry durable.
func (r *SessionRepo) Validate(ctx context.Context, tokenHash string, now time.Time) (*model.Session, error) {
	const q = `SELECT id, account_id, token_hash, expires_at, is_active, ip_address, user_agent, created_at
	           FROM account_session
	           WHERE token_hash = ? AND is_active = 1 AND expires_at > ?`
	var s model.Session
	err := r.db.QueryRowContext(ctx, q, tokenHash, now).Scan(
		&s.ID, &s.AccountID, &s.TokenHash, &s.ExpiresAt, &s.IsActive, &s.IPAddress, &s.UserAgent, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Invalidate deactivates a session by token hash, the logout path.
// Deactivating an already inactive or unknown session is a no-op.
func (r *SessionRepo) Invalidate(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE account_session SET is_active = 0 WHERE token_hash = ?`, tokenHash)
	return err
}

// InvalidateAllForAccount deactivates every session of an account, used
// after a password change.
func (r *SessionRepo) InvalidateAllForAccount(ctx context.Context, accountID uint64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE account_session SET is_active = 0 WHERE account_id = ?`, accountID)
	return err
}

// SweepExpired flips every expired-but-active session to inactive and
// returns how many rows changed.  Idempotent; safe to run on a timer.
func (r *SessionRepo) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE account_session SET is_active = 0 WHERE is_active = 1 AND expires_at <= ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
