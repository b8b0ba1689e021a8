package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/cinemacousas/cinema-booking/internal/model"
)

var (
	// ErrAccountNotFound is returned when an account lookup fails.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailExists is returned when the email is already registered.
	ErrEmailExists = errors.New("email already exists")
	// ErrUsernameExists is returned when the username is already taken.
	ErrUsernameExists = errors.New("username already exists")
)

// AccountRepo manages accounts in the database.
type AccountRepo struct {
	db *sql.DB
}

// NewAccountRepo constructs an AccountRepo with the given DB handle.
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// Create inserts a new account.  Unique-key violations on email or
// username are mapped to their sentinel errors; MySQL reports both
// through error 1062, so the key name in the message tells them apart.
func (r *AccountRepo) Create(ctx context.Context, a *model.Account) error {
	const q = `INSERT INTO account (first_name, last_name, email, username, password_hash, birthday, role)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.FirstName, a.LastName, a.Email, a.Username, a.PasswordHash, a.Birthday, a.Role)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			if strings.Contains(err.Error(), "username") {
				return ErrUsernameExists
			}
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

const accountSelect = `SELECT id, first_name, last_name, email, username, password_hash, birthday, role, created_at FROM account`

func (r *AccountRepo) scanOne(ctx context.Context, q string, arg interface{}) (*model.Account, error) {
	var a model.Account
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Username, &a.PasswordHash, &a.Birthday, &a.Role, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetByID retrieves an account by its ID.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (*model.Account, error) {
	return r.scanOne(ctx, accountSelect+` WHERE id = ?`, id)
}

// GetByEmail retrieves an account by email, the login lookup.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.scanOne(ctx, accountSelect+` WHERE email = ?`, email)
}

// GetByUsername retrieves an account by username.
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	return r.scanOne(ctx, accountSelect+` WHERE username = ?`, username)
}

// UpdateProfile rewrites the mutable profile fields.  Email and
// username keep their uniqueness mapping from Create.
func (r *AccountRepo) UpdateProfile(ctx context.Context, a *model.Account) error {
	const q = `UPDATE account SET first_name = ?, last_name = ?, email = ?, username = ?, birthday = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, a.FirstName, a.LastName, a.Email, a.Username, a.Birthday, a.ID)
	if err != nil && strings.Contains(err.Error(), "1062") {
		if strings.Contains(err.Error(), "username") {
			return ErrUsernameExists
		}
		return ErrEmailExists
	}
	return err
}

// UpdatePassword stores a new bcrypt hash for the account.
func (r *AccountRepo) UpdatePassword(ctx context.Context, accountID uint64, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE account SET password_hash = ? WHERE id = ?`, passwordHash, accountID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM account WHERE id = ?`, accountID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrAccountNotFound
			}
			return err
		}
	}
	return nil
}
