package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinemacousas/cinema-booking/internal/core"
	"github.com/cinemacousas/cinema-booking/internal/repository"
)

// BrowseHandler serves the public catalogue: movies, upcoming showings,
// seat maps and the advisory availability check.  No authentication.
type BrowseHandler struct {
	Movies   *repository.MovieRepo
	Showings *repository.ShowingRepo
	Bookings *repository.BookingRepo
}

// NewBrowseHandler constructs a BrowseHandler and panics on nil deps.
func NewBrowseHandler(movies *repository.MovieRepo, showings *repository.ShowingRepo, bookings *repository.BookingRepo) *BrowseHandler {
	if movies == nil || showings == nil || bookings == nil {
		panic("nil repository passed to NewBrowseHandler")
	}
	return &BrowseHandler{Movies: movies, Showings: showings, Bookings: bookings}
}

// filterUpcoming drops showings whose screening window has elapsed.
func filterUpcoming(all []repository.ShowingDetail, now time.Time) []repository.ShowingDetail {
	upcoming := make([]repository.ShowingDetail, 0, len(all))
	for _, d := range all {
		if !core.IsExpired(d.Date, d.StartTime, d.MovieDuration, now) {
			upcoming = append(upcoming, d)
		}
	}
	return upcoming
}

// ListMovies handles GET /movies.
func (h *BrowseHandler) ListMovies(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	movies, err := h.Movies.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list movies failed"})
	}
	return c.JSON(http.StatusOK, movies)
}

// GetMovie handles GET /movies/:id, returning the movie with its
// upcoming showings.
func (h *BrowseHandler) GetMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	movie, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get movie failed"})
	}
	all, err := h.Showings.ListDetailsByMovie(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list showings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"movie": movie, "showings": filterUpcoming(all, time.Now())})
}

// ListShowings handles GET /showings: every upcoming screening with its
// movie and room.
func (h *BrowseHandler) ListShowings(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	all, err := h.Showings.ListDetails(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list showings failed"})
	}
	return c.JSON(http.StatusOK, filterUpcoming(all, time.Now()))
}

// GetShowing handles GET /showings/:id: the screening with its full
// seat map, occupied seats flagged from the reservation table.
func (h *BrowseHandler) GetShowing(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	detail, err := h.Showings.GetDetail(ctx, id)
	if err != nil {
		if err == repository.ErrShowingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get showing failed"})
	}
	seats, err := h.Showings.SeatMap(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get seat map failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"showing": detail,
		"expired": core.IsExpired(detail.Date, detail.StartTime, detail.MovieDuration, time.Now()),
		"seats":   seats,
	})
}

// CheckAvailability handles GET /showings/:id/availability?seats=1,2,3.
// The answer is advisory: seats can be taken between this call and the
// booking transaction, which re-checks under lock.
func (h *BrowseHandler) CheckAvailability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var seatIDs []uint64
	for _, part := range strings.Split(c.QueryParam("seats"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seats parameter"})
		}
		seatIDs = append(seatIDs, n)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if _, err := h.Showings.GetByID(ctx, id); err != nil {
		if err == repository.ErrShowingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get showing failed"})
	}
	available, err := core.SeatsAvailable(ctx, h.Bookings, id, seatIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"available": available})
}
