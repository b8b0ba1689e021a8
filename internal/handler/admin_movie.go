package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinemacousas/cinema-booking/internal/model"
	"github.com/cinemacousas/cinema-booking/internal/repository"
)

// AdminHandler bundles the repositories behind the back-office CRUD
// endpoints for movies, rooms, seats, showings and pricing bands.
type AdminHandler struct {
	Movies    *repository.MovieRepo
	Rooms     *repository.RoomRepo
	Seats     *repository.SeatRepo
	Showings  *repository.ShowingRepo
	AgePrices *repository.AgePriceRepo
}

// NewAdminHandler constructs an AdminHandler and panics on nil deps.
func NewAdminHandler(movies *repository.MovieRepo, rooms *repository.RoomRepo, seats *repository.SeatRepo, showings *repository.ShowingRepo, agePrices *repository.AgePriceRepo) *AdminHandler {
	if movies == nil || rooms == nil || seats == nil || showings == nil || agePrices == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Movies: movies, Rooms: rooms, Seats: seats, Showings: showings, AgePrices: agePrices}
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

type movieReq struct {
	Name     string  `json:"name"`
	Duration uint32  `json:"duration"` // minutes
	Director *string `json:"director"`
	Cast     *string `json:"cast"`
	Synopsis *string `json:"synopsis"`
}

func (r *movieReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return "name required"
	}
	if r.Duration < 1 {
		return "duration must be at least 1 minute"
	}
	return ""
}

// CreateMovie handles POST /admin/movies.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	m := &model.Movie{Name: req.Name, Duration: req.Duration, Director: req.Director, Cast: req.Cast, Synopsis: req.Synopsis}
	if err := h.Movies.Create(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	return c.JSON(http.StatusCreated, m)
}

// ListMovies handles GET /admin/movies.
func (h *AdminHandler) ListMovies(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	movies, err := h.Movies.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list movies failed"})
	}
	return c.JSON(http.StatusOK, movies)
}

// GetMovie handles GET /admin/movies/:id.
func (h *AdminHandler) GetMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get movie failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// UpdateMovie handles PUT /admin/movies/:id.
func (h *AdminHandler) UpdateMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	m := &model.Movie{ID: id, Name: req.Name, Duration: req.Duration, Director: req.Director, Cast: req.Cast, Synopsis: req.Synopsis}
	if err := h.Movies.Update(ctx, m); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update movie failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// DeleteMovie handles DELETE /admin/movies/:id.  A movie scheduled in
// any showing cannot be removed.
func (h *AdminHandler) DeleteMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Movies.Delete(ctx, id); err != nil {
		switch err {
		case repository.ErrMovieNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		case repository.ErrInUse:
			return c.JSON(http.StatusConflict, echo.Map{"error": "movie has scheduled showings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete movie failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
