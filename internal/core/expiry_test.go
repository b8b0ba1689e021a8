package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cinemacousas/cinema-booking/internal/model"
)

func TestIsExpiredBoundary(t *testing.T) {
	date := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	start := uint32(20 * 3600) // 20:00
	duration := uint32(100)    // ends 21:40

	end := time.Date(2026, 9, 4, 21, 40, 0, 0, time.UTC)

	assert.True(t, IsExpired(date, start, duration, end), "screening ending exactly now is expired")
	assert.False(t, IsExpired(date, start, duration, end.Add(-time.Second)))
	assert.True(t, IsExpired(date, start, duration, end.Add(time.Second)))
}

func TestIsExpiredStillRunning(t *testing.T) {
	date := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 4, 20, 30, 0, 0, time.UTC)
	// Started 20:00, runs until 21:40: in progress, not expired.
	assert.False(t, IsExpired(date, 20*3600, 100, now))
}

func TestIsExpiredFutureDate(t *testing.T) {
	date := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 4, 23, 59, 0, 0, time.UTC)
	assert.False(t, IsExpired(date, 0, 100, now))
}

func TestShowingExpiredNilFailSafe(t *testing.T) {
	now := time.Now()
	s := &model.Showing{Date: now.AddDate(0, 0, 1)}
	m := &model.Movie{Duration: 100}

	assert.True(t, ShowingExpired(nil, m, now))
	assert.True(t, ShowingExpired(s, nil, now))
	assert.False(t, ShowingExpired(s, m, now))
}
