package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cinemacousas/cinema-booking/internal/model"
	"github.com/cinemacousas/cinema-booking/internal/repository"
)

// UpdateSeatType handles PUT /admin/seats/:id.  Seat types can be
// edited (pmr, stair, empty, back to normal) until the first booking
// lands in the room, after which the layout is frozen.
func (h *AdminHandler) UpdateSeatType(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Type string `json:"type"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	newType := strings.ToLower(strings.TrimSpace(req.Type))
	switch newType {
	case model.SeatTypeNormal, model.SeatTypePMR, model.SeatTypeStair, model.SeatTypeEmpty:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat type"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Seats.UpdateType(ctx, id, newType); err != nil {
		switch err {
		case repository.ErrSeatNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		case repository.ErrInUse:
			return c.JSON(http.StatusConflict, echo.Map{"error": "room has bookings; seat layout frozen"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update seat failed"})
	}
	seat, err := h.Seats.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get seat failed"})
	}
	return c.JSON(http.StatusOK, seat)
}
