package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinemacousas/cinema-booking/internal/model"
)

// memStore is an in-memory Store whose transactions stage their writes
// and apply them on Commit, mirroring the SQL store's atomicity.
type memStore struct {
	seatTypes    map[uint64]string    // seat id -> type
	reserved     map[[2]uint64]uint64 // (showing, seat) -> customer
	bookings     map[uint64]*model.Booking
	customers    map[uint64]*model.Customer
	nextID       uint64
	commitErr    error
	beginErr     error
}

func newMemStore() *memStore {
	return &memStore{
		seatTypes: map[uint64]string{
			1: model.SeatTypeNormal,
			2: model.SeatTypeNormal,
			3: model.SeatTypePMR,
		},
		reserved:  map[[2]uint64]uint64{},
		bookings:  map[uint64]*model.Booking{},
		customers: map[uint64]*model.Customer{},
	}
}

func (s *memStore) id() uint64 { s.nextID++; return s.nextID }

func (s *memStore) Begin(context.Context) (Tx, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return &memTx{store: s}, nil
}

type staged struct {
	bookings     []*model.Booking
	customers    []*model.Customer
	reservations []*model.SeatReservation
	deleted      []uint64 // booking ids removed by cancel
}

type memTx struct {
	store *memStore
	staged
	done bool
}

func (t *memTx) ReservedSeatIDs(_ context.Context, showingID uint64, seatIDs []uint64) ([]uint64, error) {
	var taken []uint64
	for _, id := range seatIDs {
		if _, ok := t.store.reserved[[2]uint64{showingID, id}]; ok {
			taken = append(taken, id)
		}
	}
	return taken, nil
}

func (t *memTx) SeatTypes(_ context.Context, seatIDs []uint64) (map[uint64]string, error) {
	out := make(map[uint64]string)
	for _, id := range seatIDs {
		if typ, ok := t.store.seatTypes[id]; ok {
			out[id] = typ
		}
	}
	return out, nil
}

func (t *memTx) InsertBooking(_ context.Context, b *model.Booking) error {
	b.ID = t.store.id()
	t.bookings = append(t.bookings, b)
	return nil
}

func (t *memTx) InsertCustomer(_ context.Context, c *model.Customer) error {
	c.ID = t.store.id()
	t.customers = append(t.customers, c)
	return nil
}

func (t *memTx) InsertReservation(_ context.Context, r *model.SeatReservation) error {
	key := [2]uint64{r.ShowingID, r.SeatID}
	if _, ok := t.store.reserved[key]; ok {
		return ErrSeatsUnavailable
	}
	for _, prev := range t.reservations {
		if prev.ShowingID == r.ShowingID && prev.SeatID == r.SeatID {
			return ErrSeatsUnavailable
		}
	}
	t.reservations = append(t.reservations, r)
	return nil
}

func (t *memTx) BookingExists(_ context.Context, bookingID uint64) (bool, error) {
	_, ok := t.store.bookings[bookingID]
	return ok, nil
}

func (t *memTx) DeleteReservationsByBooking(_ context.Context, bookingID uint64) error {
	t.deleted = append(t.deleted, bookingID)
	return nil
}

func (t *memTx) DeleteCustomersByBooking(context.Context, uint64) error { return nil }
func (t *memTx) DeleteBooking(context.Context, uint64) error            { return nil }

func (t *memTx) Commit() error {
	if t.done {
		return errors.New("already finished")
	}
	t.done = true
	if t.store.commitErr != nil {
		return t.store.commitErr
	}
	for _, b := range t.bookings {
		t.store.bookings[b.ID] = b
	}
	for _, c := range t.customers {
		t.store.customers[c.ID] = c
	}
	for _, r := range t.reservations {
		t.store.reserved[[2]uint64{r.ShowingID, r.SeatID}] = r.CustomerID
	}
	for _, id := range t.deleted {
		delete(t.store.bookings, id)
		for key := range t.store.reserved {
			if cust, ok := t.store.customers[t.store.reserved[key]]; ok && cust.BookingID == id {
				delete(t.store.reserved, key)
			}
		}
		for cid, c := range t.store.customers {
			if c.BookingID == id {
				delete(t.store.customers, cid)
			}
		}
	}
	return nil
}

func (t *memTx) Rollback() error { t.done = true; return nil }

type fakePricing struct{ rules []model.AgePrice }

func (f fakePricing) Rules(context.Context) ([]model.AgePrice, error) { return f.rules, nil }

type fakeShowings struct{ prices map[uint64]uint32 }

func (f fakeShowings) BasePriceCents(_ context.Context, id uint64) (uint32, error) {
	cents, ok := f.prices[id]
	if !ok {
		return 0, ErrShowingNotFound
	}
	return cents, nil
}

func newTestEngine(store *memStore) *Engine {
	return NewEngine(store,
		fakePricing{rules: standardRules()},
		fakeShowings{prices: map[uint64]uint32{10: 1000}}, // showing 10: 10.00
		1)
}

func validRequest() BookingRequest {
	account := uint64(42)
	return BookingRequest{
		ShowingID: 10,
		AccountID: &account,
		Spectators: []Spectator{
			{FirstName: "Ada", LastName: "Lovelace", Age: 30},
			{FirstName: "Tim", LastName: "Short", Age: 8},
		},
		SeatIDs: []uint64{1, 3},
		Booker:  &BookerInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
	}
}

func TestBookCommitsEverything(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)

	result, err := engine.Book(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.Reference)
	assert.Equal(t, 15.00, result.Quote.Total) // 10.00 adult + 5.00 child

	booking := store.bookings[result.BookingID]
	require.NotNil(t, booking)
	assert.Equal(t, uint64(42), booking.AccountID)
	assert.Equal(t, 15.00, booking.Price)
	assert.Equal(t, "ada@example.com", booking.Email)

	assert.Len(t, store.customers, 2)
	assert.Len(t, store.reserved, 2)
}

func TestBookDerivesPMRFromSeatType(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)

	result, err := engine.Book(context.Background(), validRequest())
	require.NoError(t, err)
	_ = result

	// Spectator order is preserved: Ada sits in seat 1 (normal), Tim in
	// seat 3 (pmr).
	var ada, tim *model.Customer
	for _, c := range store.customers {
		switch c.FirstName {
		case "Ada":
			ada = c
		case "Tim":
			tim = c
		}
	}
	require.NotNil(t, ada)
	require.NotNil(t, tim)
	assert.False(t, ada.PMR)
	assert.True(t, tim.PMR)
}

func TestBookAnonymousDefaults(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)

	req := validRequest()
	req.AccountID = nil
	req.Booker = nil
	result, err := engine.Book(context.Background(), req)
	require.NoError(t, err)

	booking := store.bookings[result.BookingID]
	require.NotNil(t, booking)
	assert.Equal(t, uint64(1), booking.AccountID, "anonymous bookings belong to the reserved account")
	assert.Equal(t, "Anonymous", booking.FirstName)
	assert.Equal(t, "anonymous@cinemacousas.com", booking.Email)
}

func TestBookValidation(t *testing.T) {
	engine := newTestEngine(newMemStore())

	req := validRequest()
	req.SeatIDs = nil
	_, err := engine.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrNoSeatsSelected)

	req = validRequest()
	req.SeatIDs = []uint64{1}
	_, err = engine.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrSpectatorSeatMismatch)
}

func TestBookUnknownShowing(t *testing.T) {
	engine := newTestEngine(newMemStore())
	req := validRequest()
	req.ShowingID = 999
	_, err := engine.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrShowingNotFound)
}

func TestBookUnknownSeat(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)
	req := validRequest()
	req.SeatIDs = []uint64{1, 999}
	_, err := engine.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrSeatUnknown)
	assert.Empty(t, store.bookings, "nothing may persist after a failed booking")
}

func TestBookSeatAlreadyTaken(t *testing.T) {
	store := newMemStore()
	store.reserved[[2]uint64{10, 3}] = 77
	engine := newTestEngine(store)

	_, err := engine.Book(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSeatsUnavailable)
	assert.Empty(t, store.bookings)
	assert.Len(t, store.reserved, 1, "the pre-existing reservation is untouched")
}

func TestBookCommitFailureWrapped(t *testing.T) {
	store := newMemStore()
	store.commitErr = errors.New("disk full")
	engine := newTestEngine(store)

	_, err := engine.Book(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBookingFailed)
	assert.Empty(t, store.bookings)
}

func TestCancelFreesSeatsAndIsNotIdempotent(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)

	result, err := engine.Book(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, store.reserved, 2)

	require.NoError(t, engine.Cancel(context.Background(), result.BookingID))
	assert.Empty(t, store.bookings)
	assert.Empty(t, store.reserved, "cancelled seats return to the pool")

	// The booking is gone: a second cancel is an error, not a no-op.
	err = engine.Cancel(context.Background(), result.BookingID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancelUnknownBooking(t *testing.T) {
	engine := newTestEngine(newMemStore())
	err := engine.Cancel(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestQuoteDoesNotTouchSeats(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)

	quote, err := engine.Quote(context.Background(), 10, []uint32{5, 30, 70})
	require.NoError(t, err)
	assert.Equal(t, 23.00, quote.Total)
	assert.Empty(t, store.reserved)
	assert.Empty(t, store.bookings)
}

func TestRebookFreedSeats(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)

	first, err := engine.Book(context.Background(), validRequest())
	require.NoError(t, err)

	// Same seats again: blocked while the first booking holds them.
	_, err = engine.Book(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrSeatsUnavailable)

	require.NoError(t, engine.Cancel(context.Background(), first.BookingID))

	second, err := engine.Book(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEqual(t, first.BookingID, second.BookingID)
}
