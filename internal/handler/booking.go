package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinemacousas/cinema-booking/internal/core"
	"github.com/cinemacousas/cinema-booking/internal/model"
	"github.com/cinemacousas/cinema-booking/internal/notify"
	"github.com/cinemacousas/cinema-booking/internal/queue"
	"github.com/cinemacousas/cinema-booking/internal/repository"
	queuepublisher "github.com/cinemacousas/cinema-booking/internal/service"
)

// BookingHandler serves the customer-facing booking endpoints: quoting,
// booking, cancelling, listing and the ticket document.  The write path
// goes through the core engine; reads go through the repositories.
type BookingHandler struct {
	Engine   *core.Engine
	Bookings *repository.BookingRepo
	Showings *repository.ShowingRepo
}

// NewBookingHandler constructs a BookingHandler and panics on nil deps.
func NewBookingHandler(engine *core.Engine, bookings *repository.BookingRepo, showings *repository.ShowingRepo) *BookingHandler {
	if engine == nil || bookings == nil || showings == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Engine: engine, Bookings: bookings, Showings: showings}
}

// ----- DTOs -----

type quoteReq struct {
	Ages []uint32 `json:"ages"`
}

type bookReq struct {
	Spectators []core.Spectator `json:"spectators"`
	SeatIDs    []uint64         `json:"seat_ids"`
	Booker     *core.BookerInfo `json:"booker"`
}

// bookingError maps the engine's sentinel errors onto HTTP responses.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, core.ErrShowingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "showing not found"})
	case errors.Is(err, core.ErrNoSeatsSelected):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no seats selected"})
	case errors.Is(err, core.ErrSpectatorSeatMismatch):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "spectator and seat counts differ"})
	case errors.Is(err, core.ErrSeatUnknown):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat"})
	case errors.Is(err, core.ErrSeatsUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": "seats no longer available"})
	case errors.Is(err, core.ErrNoPricingRules):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "pricing unavailable"})
	case errors.Is(err, core.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
}

// Quote handles POST /showings/:id/quote: price a prospective booking
// from spectator ages, without touching seat state.
func (h *BookingHandler) Quote(c echo.Context) error {
	showingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req quoteReq
	if err := c.Bind(&req); err != nil || len(req.Ages) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ages required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	quote, err := h.Engine.Quote(ctx, showingID, req.Ages)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, quote)
}

// Book handles POST /showings/:id/bookings.  Logged-in customers own
// the booking; anonymous bookings fall back to the reserved anonymous
// account.  Expired showings cannot be booked.
func (h *BookingHandler) Book(c echo.Context) error {
	showingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	detail, err := h.Showings.GetDetail(ctx, showingID)
	if err != nil {
		if err == repository.ErrShowingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load showing failed"})
	}
	if core.IsExpired(detail.Date, detail.StartTime, detail.MovieDuration, time.Now()) {
		return c.JSON(http.StatusGone, echo.Map{"error": "showing already played"})
	}

	result, err := h.Engine.Book(ctx, core.BookingRequest{
		ShowingID:  showingID,
		AccountID:  optionalAccountID(c),
		Spectators: req.Spectators,
		SeatIDs:    req.SeatIDs,
		Booker:     req.Booker,
	})
	if err != nil {
		return bookingError(c, err)
	}

	go h.publishConfirmed(result, detail, len(req.Spectators))

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id": result.BookingID,
		"reference":  result.Reference,
		"quote":      result.Quote,
	})
}

// publishConfirmed emits the booking.confirmed event off the request
// path; a broker outage never fails a committed booking.  The committed
// rows are re-read for the owner account and seat labels.
func (h *BookingHandler) publishConfirmed(result *core.BookingResult, detail *repository.ShowingDetail, spectators int) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var accountID uint64
	if b, err := h.Bookings.GetByID(ctx, result.BookingID); err == nil {
		accountID = b.AccountID
	}
	var labels []string
	if seats, err := h.Bookings.Seats(ctx, result.BookingID); err == nil {
		for _, s := range seats {
			labels = append(labels, fmt.Sprintf("%s%d", s.Row, s.Column))
		}
	}

	_ = queuepublisher.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{
		BookingID:   result.BookingID,
		Reference:   result.Reference,
		AccountID:   accountID,
		ShowingID:   detail.ID,
		MovieName:   detail.MovieName,
		RoomName:    detail.RoomName,
		StartsAt:    detail.StartsAt().Format(time.RFC3339),
		SeatLabels:  labels,
		Spectators:  spectators,
		TotalPrice:  result.Quote.Total,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// canAccess reports whether the caller may act on the booking: its
// owner, or an admin.
func canAccess(c echo.Context, ownerID uint64) bool {
	if role, _ := c.Get("role").(string); role == model.RoleAdmin {
		return true
	}
	accountID, err := getAccountID(c)
	return err == nil && accountID == ownerID
}

// Cancel handles DELETE /bookings/:id.  Only the owner or an admin may
// cancel; the freed seats return to the pool immediately.
func (h *BookingHandler) Cancel(c echo.Context) error {
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	booking, err := h.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if !canAccess(c, booking.AccountID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Engine.Cancel(ctx, bookingID); err != nil {
		return bookingError(c, err)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queuepublisher.PublishBookingCancelled(ctx, queue.BookingCancelledEvent{
			BookingID:   booking.ID,
			Reference:   booking.Reference,
			AccountID:   booking.AccountID,
			ShowingID:   booking.ShowingID,
			CancelledAt: time.Now().UTC().Format(time.RFC3339),
		})
	}()
	return c.NoContent(http.StatusNoContent)
}

// MyBookings handles GET /bookings: the caller's bookings split into
// upcoming and past by the screening's expiration, so this list and the
// showing listings always agree.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	accountID, err := getAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	all, err := h.Bookings.ListByAccount(ctx, accountID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list bookings failed"})
	}
	now := time.Now()
	upcoming := make([]repository.BookingDetail, 0)
	past := make([]repository.BookingDetail, 0)
	for _, b := range all {
		if core.IsExpired(b.Date, b.StartTime, b.MovieDuration, now) {
			past = append(past, b)
		} else {
			upcoming = append(upcoming, b)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"upcoming": upcoming, "past": past})
}

// GetBooking handles GET /bookings/:id: the booking with its seats and
// spectators, for the owner or an admin.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	detail, err := h.Bookings.GetDetail(ctx, bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if !canAccess(c, detail.AccountID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	seats, err := h.Bookings.Seats(ctx, bookingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": detail, "seats": seats})
}

// Ticket handles GET /bookings/:id/ticket: the printable PDF with the
// QR-coded booking reference.  Owners and admins only.
func (h *BookingHandler) Ticket(c echo.Context) error {
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	detail, err := h.Bookings.GetDetail(ctx, bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	if !canAccess(c, detail.AccountID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return h.renderTicket(c, detail)
}

// TicketByReference handles GET /tickets/:reference: ticket retrieval
// for anonymous bookers, who only hold the opaque reference.
func (h *BookingHandler) TicketByReference(c echo.Context) error {
	reference := c.Param("reference")
	ctx, cancel := reqCtx(c)
	defer cancel()

	booking, err := h.Bookings.GetByReference(ctx, reference)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	detail, err := h.Bookings.GetDetail(ctx, booking.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
	}
	return h.renderTicket(c, detail)
}

func (h *BookingHandler) renderTicket(c echo.Context, detail *repository.BookingDetail) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	seats, err := h.Bookings.Seats(ctx, detail.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load seats failed"})
	}
	pdf, err := notify.RenderTicketPDF(notify.TicketData{Booking: detail, Seats: seats})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render ticket failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="ticket-%s.pdf"`, detail.Reference))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
