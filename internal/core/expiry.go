package core

import (
	"time"

	"github.com/cinemacousas/cinema-booking/internal/model"
)

// IsExpired reports whether a screening's time window has elapsed.  The
// screening starts at the given date combined with startSeconds
// (seconds since midnight) and ends durationMin minutes later; it is
// expired once the end instant is no longer after now.  A screening
// ending exactly at now is therefore expired, one ending a second later
// is not.  The caller injects now so listings are deterministic to test.
func IsExpired(date time.Time, startSeconds uint32, durationMin uint32, now time.Time) bool {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()).
		Add(time.Duration(startSeconds) * time.Second)
	end := start.Add(time.Duration(durationMin) * time.Minute)
	return !end.After(now)
}

// ShowingExpired applies IsExpired to a showing and its movie.  A
// missing showing or movie is treated as expired: the fail-safe default
// keeps broken rows out of "upcoming" listings instead of showing them
// forever.  The same classification is used for showings and for the
// bookings that reference them, so a screening can never be expired in
// one view and active in another.
func ShowingExpired(s *model.Showing, m *model.Movie, now time.Time) bool {
	if s == nil || m == nil {
		return true
	}
	return IsExpired(s.Date, s.StartTime, m.Duration, now)
}
