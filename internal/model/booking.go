package model

import "time"

// Booking groups the customers and seat reservations committed in one
// booking transaction.  Price is the server-computed total in major
// currency units; it is never taken from client input.  Reference is an
// opaque code handed to the booker for ticket retrieval.  This struct
// corresponds to a row in the `booking` table.
//
// Fields:
//  ID        – primary key identifier.
//  ShowingID – showing the booking is for.
//  AccountID – owning account; anonymous bookings use the reserved
//              anonymous account identity.
//  Price     – computed total price in major units.
//  Reference – opaque booking reference code.
//  FirstName – booker contact first name.
//  LastName  – booker contact last name.
//  Email     – booker contact email.
type Booking struct {
	ID        uint64    // booking.id
	ShowingID uint64    // booking.showing_id
	AccountID uint64    // booking.account_id
	Price     float64   // booking.price
	Reference string    // booking.reference
	FirstName string    // booking.first_name
	LastName  string    // booking.last_name
	Email     string    // booking.email
	CreatedAt time.Time // booking.created_at
}

// Customer is one spectator inside a booking.  The PMR flag records
// whether the spectator occupies a reduced-mobility seat; it is derived
// from the seat's type when the booking is committed, never trusted from
// the client.  Corresponds to a row in the `customer` table.
type Customer struct {
	ID        uint64 // customer.id
	BookingID uint64 // customer.booking_id
	FirstName string // customer.firstname
	LastName  string // customer.lastname
	Age       uint32 // customer.age
	PMR       bool   // customer.pmr
}

// SeatReservation binds one customer to one seat for one showing.  Its
// existence is the sole source of truth for "this seat is occupied for
// this showing"; at most one row may exist per (showing, seat) pair.
// Corresponds to a row in the `seatreservation` table.
type SeatReservation struct {
	ID         uint64 // seatreservation.id
	CustomerID uint64 // seatreservation.customer_id
	ShowingID  uint64 // seatreservation.showing_id
	SeatID     uint64 // seatreservation.seat_id
}
