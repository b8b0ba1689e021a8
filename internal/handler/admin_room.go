package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cinemacousas/cinema-booking/internal/model"
	"github.com/cinemacousas/cinema-booking/internal/repository"
)

type roomReq struct {
	Name     string `json:"name"`
	RowCount uint32 `json:"nb_rows"`
	ColCount uint32 `json:"nb_columns"`
}

func (r *roomReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return "name required"
	}
	if r.RowCount < 1 || r.ColCount < 1 {
		return "rows and columns must be at least 1"
	}
	if r.RowCount > 100 || r.ColCount > 100 {
		return "rows and columns must be at most 100"
	}
	return ""
}

// CreateRoom handles POST /admin/rooms.  The full seat grid is
// generated with the room.
func (h *AdminHandler) CreateRoom(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	room := &model.Room{Name: req.Name, RowCount: req.RowCount, ColCount: req.ColCount}
	if err := h.Rooms.Create(ctx, room); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, room)
}

// ListRooms handles GET /admin/rooms.
func (h *AdminHandler) ListRooms(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	rooms, err := h.Rooms.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rooms failed"})
	}
	return c.JSON(http.StatusOK, rooms)
}

// GetRoom handles GET /admin/rooms/:id, returning the room with its
// seats.
func (h *AdminHandler) GetRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get room failed"})
	}
	seats, err := h.Seats.GetByRoom(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get seats failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"room": room, "seats": seats})
}

// UpdateRoom handles PUT /admin/rooms/:id.  Renames are always allowed;
// dimension changes regenerate the seat grid and are refused while the
// room has showings.
func (h *AdminHandler) UpdateRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	room := &model.Room{ID: id, Name: req.Name, RowCount: req.RowCount, ColCount: req.ColCount}
	if err := h.Rooms.Update(ctx, room); err != nil {
		switch err {
		case repository.ErrRoomNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case repository.ErrInUse:
			return c.JSON(http.StatusConflict, echo.Map{"error": "room has showings; dimensions frozen"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update room failed"})
	}
	return c.JSON(http.StatusOK, room)
}

// DeleteRoom handles DELETE /admin/rooms/:id.
func (h *AdminHandler) DeleteRoom(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Rooms.Delete(ctx, id); err != nil {
		switch err {
		case repository.ErrRoomNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case repository.ErrInUse:
			return c.JSON(http.StatusConflict, echo.Map{"error": "room has showings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete room failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
