// Package core implements the seat-booking transaction engine together
// with the pricing calculator, the availability checker, the schedule
// conflict checker and the showing expiration evaluator.  It talks to
// storage through small injected interfaces so every decision path can
// be exercised deterministically in tests.  Sentinel errors below form
// the failure taxonomy handlers translate into HTTP responses.
package core

import "errors"

// ErrSpectatorSeatMismatch is returned when the number of spectators
// does not equal the number of selected seats.  Validation failure;
// nothing has touched storage when this is returned.
var ErrSpectatorSeatMismatch = errors.New("spectator count does not match seat count")

// ErrNoSeatsSelected is returned when a booking is attempted with an
// empty seat selection.
var ErrNoSeatsSelected = errors.New("no seats selected")

// ErrNoPricingRules is returned when the age pricing table is empty.
// This is a configuration problem, not a race: callers must surface it
// distinctly and never default the price to zero.
var ErrNoPricingRules = errors.New("no age pricing rules configured")

// ErrSeatsUnavailable is returned when at least one requested seat
// already has a reservation for the showing.  It is the expected
// outcome of losing a booking race and should send the user back to
// seat selection.
var ErrSeatsUnavailable = errors.New("seats no longer available")

// ErrSeatUnknown is returned when a requested seat id does not exist in
// the showing's room.
var ErrSeatUnknown = errors.New("unknown seat")

// ErrShowingNotFound is returned when the referenced showing does not exist.
var ErrShowingNotFound = errors.New("showing not found")

// ErrBookingNotFound is returned by Cancel when the booking does not
// exist, including the second of two cancel calls for the same id.
var ErrBookingNotFound = errors.New("booking not found")

// ErrBookingFailed wraps storage-layer failures inside the booking
// transaction.  The transaction has been rolled back in full when this
// is returned; handlers surface it as a generic retry message without
// internal detail.
var ErrBookingFailed = errors.New("booking transaction failed")
