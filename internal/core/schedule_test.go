package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hh, mm int) time.Time {
	return time.Date(2026, 9, 4, hh, mm, 0, 0, time.UTC)
}

// One existing screening from 14:00 running 100 minutes (ends 15:40).
func existing1400() []ScheduleEntry {
	return []ScheduleEntry{{
		ShowingID: 7,
		MovieName: "Interstellar",
		Start:     at(14, 0),
		Duration:  100 * time.Minute,
	}}
}

func TestFindConflictGapShorterThanTwiceMargin(t *testing.T) {
	// 15:50 is only 10 minutes after the 15:40 end; with a 10-minute
	// margin on each side that is too tight.
	clash := FindConflict(at(15, 50), 90*time.Minute, existing1400())
	require.NotNil(t, clash)
	assert.Equal(t, uint64(7), clash.ShowingID)
}

func TestFindConflictGapExactlyTwiceMargin(t *testing.T) {
	// 16:00 leaves 20 minutes after the 15:40 end: the margined windows
	// touch but do not overlap.
	assert.Nil(t, FindConflict(at(16, 0), 90*time.Minute, existing1400()))
}

func TestFindConflictGapWiderThanTwiceMargin(t *testing.T) {
	assert.Nil(t, FindConflict(at(16, 1), 90*time.Minute, existing1400()))
}

func TestFindConflictOverlappingStart(t *testing.T) {
	// 14:30 starts in the middle of the existing screening.
	assert.NotNil(t, FindConflict(at(14, 30), 90*time.Minute, existing1400()))
}

func TestFindConflictProposedBeforeExisting(t *testing.T) {
	// Ending at 13:40 leaves exactly 20 minutes before the 14:00 start.
	assert.Nil(t, FindConflict(at(12, 0), 100*time.Minute, existing1400()))
	// Ending at 13:41 leaves only 19.
	assert.NotNil(t, FindConflict(at(12, 1), 100*time.Minute, existing1400()))
}

func TestFindConflictEmptySchedule(t *testing.T) {
	assert.Nil(t, FindConflict(at(14, 0), 100*time.Minute, nil))
}

func TestFindConflictReturnsFirstInOrder(t *testing.T) {
	entries := []ScheduleEntry{
		{ShowingID: 1, Start: at(14, 0), Duration: 60 * time.Minute},
		{ShowingID: 2, Start: at(14, 30), Duration: 60 * time.Minute},
	}
	clash := FindConflict(at(14, 15), 60*time.Minute, entries)
	require.NotNil(t, clash)
	assert.Equal(t, uint64(1), clash.ShowingID)
}

type fakeScheduleSource struct {
	entries   []ScheduleEntry
	excludeID uint64
}

func (f *fakeScheduleSource) EntriesForRoomDate(_ context.Context, _ uint64, _ time.Time, excludeID uint64) ([]ScheduleEntry, error) {
	f.excludeID = excludeID
	out := make([]ScheduleEntry, 0, len(f.entries))
	for _, e := range f.entries {
		if excludeID != 0 && e.ShowingID == excludeID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func TestConflictCheckerExcludesSelfOnUpdate(t *testing.T) {
	src := &fakeScheduleSource{entries: existing1400()}
	checker := NewConflictChecker(src)

	// Rescheduling showing 7 within its own slot must not collide with
	// itself.
	clash, err := checker.HasConflict(context.Background(), 1, at(0, 0), at(14, 30), 100*time.Minute, 7)
	require.NoError(t, err)
	assert.Nil(t, clash)
	assert.Equal(t, uint64(7), src.excludeID)

	// A different showing proposing the same slot does collide.
	clash, err = checker.HasConflict(context.Background(), 1, at(0, 0), at(14, 30), 100*time.Minute, 0)
	require.NoError(t, err)
	assert.NotNil(t, clash)
}
