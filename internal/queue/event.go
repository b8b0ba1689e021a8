// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking transaction commits.
// It carries enough information for downstream consumers to log, notify
// or trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID   uint64   `json:"booking_id"`
	Reference   string   `json:"reference"`
	AccountID   uint64   `json:"account_id"`
	ShowingID   uint64   `json:"showing_id"`
	MovieName   string   `json:"movie_name"`
	RoomName    string   `json:"room_name"`
	StartsAt    string   `json:"starts_at"`
	SeatLabels  []string `json:"seats"`
	Spectators  int      `json:"spectators"`
	TotalPrice  float64  `json:"total_price"`
	ConfirmedAt string   `json:"confirmed_at"`
}

// BookingCancelledEvent is published when a booking is cancelled and its
// seats return to the available pool.
type BookingCancelledEvent struct {
	BookingID   uint64 `json:"booking_id"`
	Reference   string `json:"reference"`
	AccountID   uint64 `json:"account_id"`
	ShowingID   uint64 `json:"showing_id"`
	CancelledAt string `json:"cancelled_at"`
}
