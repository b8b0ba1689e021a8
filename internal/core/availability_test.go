package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReservations struct {
	taken map[uint64]bool
}

func (f fakeReservations) ReservedSeatIDs(_ context.Context, _ uint64, seatIDs []uint64) ([]uint64, error) {
	var out []uint64
	for _, id := range seatIDs {
		if f.taken[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

func TestSeatsAvailable(t *testing.T) {
	src := fakeReservations{taken: map[uint64]bool{2: true}}

	ok, err := SeatsAvailable(context.Background(), src, 1, []uint64{1, 3})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = SeatsAvailable(context.Background(), src, 1, []uint64{1, 2})
	require.NoError(t, err)
	assert.False(t, ok, "one taken seat makes the whole selection unavailable")
}

func TestSeatsAvailableEmptySelection(t *testing.T) {
	ok, err := SeatsAvailable(context.Background(), fakeReservations{}, 1, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}
