// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current account is not
// allowed to act on a booking owned by someone else, while ErrInUse
// signals that a delete or update cannot proceed because dependent
// records exist (a movie scheduled in showings, a room with showings,
// a seat in a room that already has bookings).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrInUse is returned when a delete or update cannot be performed
// because of dependent records, such as deleting a movie that is still
// scheduled in showings. Handlers should translate this into an HTTP
// 409 response.
var ErrInUse = errors.New("resource in use")
