package model

import "time"

// Account roles.  ADMIN runs the back-office; CUSTOMER books tickets.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// Account represents a registered user of the booking site.  The
// reserved anonymous account (see config.AnonymousAccountID) owns
// bookings made without logging in.  Corresponds to a row in the
// `account` table.
//
// Fields:
//  ID           – primary key identifier.
//  FirstName    – given name.
//  LastName     – family name.
//  Email        – unique email address.
//  Username     – unique handle.
//  PasswordHash – bcrypt hashed password.
//  Birthday     – optional date of birth.
//  Role         – ADMIN or CUSTOMER.
type Account struct {
	ID           uint64     // account.id
	FirstName    string     // account.first_name
	LastName     string     // account.last_name
	Email        string     // account.email
	Username     string     // account.username
	PasswordHash string     // account.password_hash
	Birthday     *time.Time // account.birthday (nullable)
	Role         string     // account.role
	CreatedAt    time.Time  // account.created_at
}

// Session models an entry in the `account_session` table.  Only the
// SHA-256 hash of the session token is stored.  Expired sessions are
// flipped to inactive by the periodic background sweep; the sweep is
// idempotent and touches no booking data.
type Session struct {
	ID        uint64    // account_session.id
	AccountID uint64    // account_session.account_id
	TokenHash string    // account_session.token_hash
	ExpiresAt time.Time // account_session.expires_at
	IsActive  bool      // account_session.is_active
	IPAddress *string   // account_session.ip_address (nullable)
	UserAgent *string   // account_session.user_agent (nullable)
	CreatedAt time.Time // account_session.created_at
}
