package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cinemacousas/cinema-booking/internal/model"
)

// Spectator is one person the booking is for.  Ages drive pricing; the
// PMR flag on the persisted customer row is derived from the assigned
// seat's type, never from client input.
type Spectator struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Age       uint32 `json:"age"`
}

// BookerInfo carries the contact fields stored on the booking row.
type BookerInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Placeholder booker identity used when an anonymous booking arrives
// without contact details.  A defined default, not an error.
var anonymousBooker = BookerInfo{
	FirstName: "Anonymous",
	LastName:  "User",
	Email:     "anonymous@cinemacousas.com",
}

// BookingRequest is the full input of a booking attempt.  Spectators
// and SeatIDs are parallel: spectator i sits in seat i.
type BookingRequest struct {
	ShowingID  uint64
	AccountID  *uint64 // nil for anonymous bookings
	Spectators []Spectator
	SeatIDs    []uint64
	Booker     *BookerInfo // nil falls back to the placeholder identity
}

// BookingResult is returned on a committed booking.
type BookingResult struct {
	BookingID uint64
	Reference string
	Quote     PriceQuote
}

// Store opens booking transactions.  The SQL implementation lives in
// store_sql.go; tests substitute an in-memory store.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one atomic booking transaction.  Implementations must guarantee
// that ReservedSeatIDs and the inserts observe the storage layer's
// isolation: of two concurrent transactions reserving an overlapping
// seat set, at most one may commit.
type Tx interface {
	ReservedSeatIDs(ctx context.Context, showingID uint64, seatIDs []uint64) ([]uint64, error)
	SeatTypes(ctx context.Context, seatIDs []uint64) (map[uint64]string, error)
	InsertBooking(ctx context.Context, b *model.Booking) error
	InsertCustomer(ctx context.Context, c *model.Customer) error
	InsertReservation(ctx context.Context, r *model.SeatReservation) error
	BookingExists(ctx context.Context, bookingID uint64) (bool, error)
	DeleteReservationsByBooking(ctx context.Context, bookingID uint64) error
	DeleteCustomersByBooking(ctx context.Context, bookingID uint64) error
	DeleteBooking(ctx context.Context, bookingID uint64) error
	Commit() error
	Rollback() error
}

// PricingSource supplies the current age pricing bands in ascending
// AgeMin order.  Reference data: it may change between calls and is
// never cached here.
type PricingSource interface {
	Rules(ctx context.Context) ([]model.AgePrice, error)
}

// ShowingSource resolves a showing's base price.  Returns
// ErrShowingNotFound when the showing does not exist.
type ShowingSource interface {
	BasePriceCents(ctx context.Context, showingID uint64) (uint32, error)
}

// Engine is the booking transaction engine.  It validates input, prices
// the booking, then re-validates seat availability and persists the
// booking with its customer and seat-reservation rows inside a single
// transaction.  Either everything commits or nothing does.
type Engine struct {
	store         Store
	pricing       PricingSource
	showings      ShowingSource
	anonAccountID uint64
}

// NewEngine wires the engine to its collaborators.  anonAccountID is
// the reserved account that owns bookings made without logging in.
func NewEngine(store Store, pricing PricingSource, showings ShowingSource, anonAccountID uint64) *Engine {
	if store == nil || pricing == nil || showings == nil {
		panic("nil dependency passed to NewEngine")
	}
	return &Engine{store: store, pricing: pricing, showings: showings, anonAccountID: anonAccountID}
}

// Quote prices a prospective booking without touching seat state.  The
// showing's stored cents price is converted to major units at this
// boundary.
func (e *Engine) Quote(ctx context.Context, showingID uint64, ages []uint32) (PriceQuote, error) {
	cents, err := e.showings.BasePriceCents(ctx, showingID)
	if err != nil {
		return PriceQuote{}, err
	}
	rules, err := e.pricing.Rules(ctx)
	if err != nil {
		return PriceQuote{}, fmt.Errorf("load pricing rules: %w", err)
	}
	return CalculatePrice(CentsToMajor(cents), ages, rules)
}

// Book runs the whole booking transaction.  Validation and pricing
// happen before the transaction begins, so those failures never touch
// storage.  Inside the transaction the seat set is re-checked against
// the seatreservation table; a concurrent booking that got there first
// surfaces as ErrSeatsUnavailable with everything rolled back.  Any
// other storage failure rolls back and is wrapped in ErrBookingFailed.
func (e *Engine) Book(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	if len(req.SeatIDs) == 0 {
		return nil, ErrNoSeatsSelected
	}
	if len(req.Spectators) != len(req.SeatIDs) {
		return nil, ErrSpectatorSeatMismatch
	}

	ages := make([]uint32, len(req.Spectators))
	for i, sp := range req.Spectators {
		ages[i] = sp.Age
	}
	quote, err := e.Quote(ctx, req.ShowingID, ages)
	if err != nil {
		return nil, err
	}

	accountID := e.anonAccountID
	if req.AccountID != nil {
		accountID = *req.AccountID
	}
	booker := anonymousBooker
	if req.Booker != nil {
		booker = *req.Booker
	}

	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Re-check availability inside the transaction; the pre-flight
	// answer from the availability checker cannot be trusted here.
	taken, err := tx.ReservedSeatIDs(ctx, req.ShowingID, req.SeatIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}
	if len(taken) > 0 {
		return nil, ErrSeatsUnavailable
	}

	seatTypes, err := tx.SeatTypes(ctx, req.SeatIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}
	for _, sid := range req.SeatIDs {
		if _, ok := seatTypes[sid]; !ok {
			return nil, ErrSeatUnknown
		}
	}

	booking := &model.Booking{
		ShowingID: req.ShowingID,
		AccountID: accountID,
		Price:     quote.Total,
		Reference: uuid.NewString(),
		FirstName: booker.FirstName,
		LastName:  booker.LastName,
		Email:     booker.Email,
	}
	if err := tx.InsertBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}

	for i, sp := range req.Spectators {
		seatID := req.SeatIDs[i]
		customer := &model.Customer{
			BookingID: booking.ID,
			FirstName: sp.FirstName,
			LastName:  sp.LastName,
			Age:       sp.Age,
			PMR:       seatTypes[seatID] == model.SeatTypePMR,
		}
		if err := tx.InsertCustomer(ctx, customer); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
		}
		res := &model.SeatReservation{
			CustomerID: customer.ID,
			ShowingID:  req.ShowingID,
			SeatID:     seatID,
		}
		if err := tx.InsertReservation(ctx, res); err != nil {
			// The unique (showing_id, seat_id) key is the last line of
			// defence against a racing transaction that slipped past
			// the re-check under weaker isolation.
			if err == ErrSeatsUnavailable {
				return nil, ErrSeatsUnavailable
			}
			return nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}
	committed = true
	return &BookingResult{BookingID: booking.ID, Reference: booking.Reference, Quote: quote}, nil
}

// Cancel deletes a booking and everything it owns: seat reservations
// first, then customers, then the booking row, respecting referential
// dependencies.  The freed seats return to the available pool.  A
// second cancel of the same id fails with ErrBookingNotFound.  Not
// reversible.
func (e *Engine) Cancel(ctx context.Context, bookingID uint64) error {
	tx, err := e.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	exists, err := tx.BookingExists(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}
	if !exists {
		return ErrBookingNotFound
	}
	if err := tx.DeleteReservationsByBooking(ctx, bookingID); err != nil {
		return fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}
	if err := tx.DeleteCustomersByBooking(ctx, bookingID); err != nil {
		return fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}
	if err := tx.DeleteBooking(ctx, bookingID); err != nil {
		return fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrBookingFailed, err)
	}
	committed = true
	return nil
}
