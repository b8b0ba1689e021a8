package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinemacousas/cinema-booking/internal/core"
	"github.com/cinemacousas/cinema-booking/internal/model"
	"github.com/cinemacousas/cinema-booking/internal/repository"
)

type showingReq struct {
	MovieID   uint64 `json:"movie_id"`
	RoomID    uint64 `json:"room_id"`
	Date      string `json:"date"`      // YYYY-MM-DD
	StartTime string `json:"starttime"` // HH:MM
	BasePrice uint32 `json:"baseprice"` // cents
}

// parseShowing validates the request and resolves its movie, returning
// the showing row ready for persistence.
func (h *AdminHandler) parseShowing(c echo.Context, req *showingReq) (*model.Showing, *model.Movie, int, string) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, nil, http.StatusBadRequest, "date must be YYYY-MM-DD"
	}
	var hh, mm int
	if _, err := fmt.Sscanf(req.StartTime, "%d:%d", &hh, &mm); err != nil || hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return nil, nil, http.StatusBadRequest, "starttime must be HH:MM"
	}
	if req.BasePrice == 0 {
		return nil, nil, http.StatusBadRequest, "baseprice required"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	movie, err := h.Movies.GetByID(ctx, req.MovieID)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return nil, nil, http.StatusNotFound, "movie not found"
		}
		return nil, nil, http.StatusInternalServerError, "load movie failed"
	}
	if _, err := h.Rooms.GetByID(ctx, req.RoomID); err != nil {
		if err == repository.ErrRoomNotFound {
			return nil, nil, http.StatusNotFound, "room not found"
		}
		return nil, nil, http.StatusInternalServerError, "load room failed"
	}

	s := &model.Showing{
		MovieID:   req.MovieID,
		RoomID:    req.RoomID,
		Date:      date,
		StartTime: uint32(hh*3600 + mm*60),
		BasePrice: req.BasePrice,
	}
	return s, movie, 0, ""
}

// checkSlot runs the conflict checker for the showing's room and slot.
// A non-empty message names the clashing screening.
func (h *AdminHandler) checkSlot(c echo.Context, s *model.Showing, movie *model.Movie, excludeID uint64) (int, string) {
	ctx, cancel := reqCtx(c)
	defer cancel()
	checker := core.NewConflictChecker(h.Showings)
	clash, err := checker.HasConflict(ctx, s.RoomID, s.Date, s.StartsAt(), time.Duration(movie.Duration)*time.Minute, excludeID)
	if err != nil {
		return http.StatusInternalServerError, "conflict check failed"
	}
	if clash != nil {
		return http.StatusConflict, fmt.Sprintf("slot conflicts with %q at %s", clash.MovieName, clash.Start.Format("15:04"))
	}
	return 0, ""
}

// CreateShowing handles POST /admin/showings.  The slot must clear the
// schedule conflict check before anything is written.
func (h *AdminHandler) CreateShowing(c echo.Context) error {
	var req showingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s, movie, status, msg := h.parseShowing(c, &req)
	if msg != "" {
		return c.JSON(status, echo.Map{"error": msg})
	}
	if status, msg := h.checkSlot(c, s, movie, 0); msg != "" {
		return c.JSON(status, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Showings.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create showing failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

// ListShowings handles GET /admin/showings.
func (h *AdminHandler) ListShowings(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Showings.ListDetails(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list showings failed"})
	}
	return c.JSON(http.StatusOK, list)
}

// GetShowing handles GET /admin/showings/:id.
func (h *AdminHandler) GetShowing(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	d, err := h.Showings.GetDetail(ctx, id)
	if err != nil {
		if err == repository.ErrShowingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get showing failed"})
	}
	return c.JSON(http.StatusOK, d)
}

// UpdateShowing handles PUT /admin/showings/:id.  The conflict check
// excludes the showing itself so it does not collide with its old slot.
func (h *AdminHandler) UpdateShowing(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req showingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s, movie, status, msg := h.parseShowing(c, &req)
	if msg != "" {
		return c.JSON(status, echo.Map{"error": msg})
	}
	s.ID = id
	if status, msg := h.checkSlot(c, s, movie, id); msg != "" {
		return c.JSON(status, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Showings.Update(ctx, s); err != nil {
		if err == repository.ErrShowingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update showing failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// DeleteShowing handles DELETE /admin/showings/:id.  Showings with
// bookings cannot be removed.
func (h *AdminHandler) DeleteShowing(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Showings.Delete(ctx, id); err != nil {
		switch err {
		case repository.ErrShowingNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showing not found"})
		case repository.ErrInUse:
			return c.JSON(http.StatusConflict, echo.Map{"error": "showing has bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete showing failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAgePrices handles GET /admin/ageprices.
func (h *AdminHandler) ListAgePrices(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	rules, err := h.AgePrices.Rules(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list age prices failed"})
	}
	return c.JSON(http.StatusOK, rules)
}

// UpdateAgePrice handles PUT /admin/ageprices/:id.
func (h *AdminHandler) UpdateAgePrice(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Name   string  `json:"name"`
		AgeMin uint32  `json:"agemin"`
		AgeMax uint32  `json:"agemax"`
		Factor float64 `json:"factor"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.AgeMax < req.AgeMin || req.Factor < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid pricing band"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	p := &model.AgePrice{ID: id, Name: req.Name, AgeMin: req.AgeMin, AgeMax: req.AgeMax, Factor: req.Factor}
	if err := h.AgePrices.Update(ctx, p); err != nil {
		if err == repository.ErrAgePriceNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "age price not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update age price failed"})
	}
	return c.JSON(http.StatusOK, p)
}
