package core

import "context"

// ReservationSource answers which of a set of seats already carry a
// reservation for a showing.  The repository layer implements it
// against the live seatreservation table; the booking transaction
// re-implements it inside its own transaction.
type ReservationSource interface {
	// ReservedSeatIDs returns the subset of seatIDs that have an
	// existing reservation for the showing.  An empty input yields an
	// empty result.
	ReservedSeatIDs(ctx context.Context, showingID uint64, seatIDs []uint64) ([]uint64, error)
}

// SeatsAvailable reports whether none of the given seats is reserved
// for the showing.  An empty selection is trivially available.  The
// answer is advisory only: a concurrent booking can invalidate it at
// any moment, so the booking engine re-checks inside its transaction
// instead of trusting a prior call.
func SeatsAvailable(ctx context.Context, src ReservationSource, showingID uint64, seatIDs []uint64) (bool, error) {
	if len(seatIDs) == 0 {
		return true, nil
	}
	taken, err := src.ReservedSeatIDs(ctx, showingID, seatIDs)
	if err != nil {
		return false, err
	}
	return len(taken) == 0, nil
}
