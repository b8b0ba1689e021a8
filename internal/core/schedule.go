package core

import (
	"context"
	"time"
)

// ScheduleMargin is the mandatory buffer between two screenings in the
// same room: audiences need time to leave and staff to clean up.
const ScheduleMargin = 10 * time.Minute

// ScheduleEntry is one existing screening as seen by the conflict
// checker: when it starts and how long its movie runs.
type ScheduleEntry struct {
	ShowingID uint64
	MovieName string
	Start     time.Time
	Duration  time.Duration
}

// ScheduleSource lists the screenings of a room on a date.  The showing
// repository implements it with a movie join so each entry carries its
// own duration.
type ScheduleSource interface {
	// EntriesForRoomDate returns all screenings for the room on the
	// date, excluding excludeID when non-zero (the update-a-showing
	// case).  Order is the stored query order.
	EntriesForRoomDate(ctx context.Context, roomID uint64, date time.Time, excludeID uint64) ([]ScheduleEntry, error)
}

// FindConflict checks a proposed screening against existing ones.  Both
// the proposed and each existing window are widened by ScheduleMargin
// on both sides, then compared with strict overlap: windows that merely
// touch do not conflict.  The net effect is that two screenings need a
// gap of at least twice the margin between end and start; a gap of
// exactly 2×margin is allowed.  Returns the first conflicting entry in
// input order, or nil.
func FindConflict(proposedStart time.Time, duration time.Duration, existing []ScheduleEntry) *ScheduleEntry {
	newStart := proposedStart.Add(-ScheduleMargin)
	newEnd := proposedStart.Add(duration + ScheduleMargin)
	for i := range existing {
		e := existing[i]
		existingStart := e.Start.Add(-ScheduleMargin)
		existingEnd := e.Start.Add(e.Duration + ScheduleMargin)
		if newStart.Before(existingEnd) && newEnd.After(existingStart) {
			return &e
		}
	}
	return nil
}

// ConflictChecker is the schedule conflict checker bound to a source of
// existing screenings.  It is a pre-validation gate for showing
// creation and update; it never mutates state and holds no lock, so a
// race between two concurrent showing creations remains possible (an
// accepted gap — showing creation is a low-frequency admin action).
type ConflictChecker struct {
	src ScheduleSource
}

// NewConflictChecker binds a checker to a schedule source.
func NewConflictChecker(src ScheduleSource) *ConflictChecker {
	return &ConflictChecker{src: src}
}

// HasConflict fetches the room's screenings for the date and reports
// the first one whose margined window overlaps the proposed window.
// Pass excludeID != 0 when validating an update so the showing does not
// collide with itself.  A nil entry means the slot is free.
func (c *ConflictChecker) HasConflict(ctx context.Context, roomID uint64, date time.Time, proposedStart time.Time, duration time.Duration, excludeID uint64) (*ScheduleEntry, error) {
	existing, err := c.src.EntriesForRoomDate(ctx, roomID, date, excludeID)
	if err != nil {
		return nil, err
	}
	return FindConflict(proposedStart, duration, existing), nil
}
