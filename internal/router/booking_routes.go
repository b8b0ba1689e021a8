package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cinemacousas/cinema-booking/internal/config"
	"github.com/cinemacousas/cinema-booking/internal/handler"
	"github.com/cinemacousas/cinema-booking/internal/middleware"
)

// RegisterBooking registers the booking endpoints.  Quoting, booking
// and ticket-by-reference accept anonymous visitors; listing and
// cancelling require a logged-in account.  The booking writes sit
// behind the rate limiter.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, rlCfg config.RateLimitConfig, rdb *redis.Client, jwtSecret string) {
	public := e.Group("/v1")
	public.Use(middleware.RateLimit(rlCfg, rdb))
	// OptionalJWTAuth: a token binds the booking to the account, its
	// absence books under the reserved anonymous identity.
	public.Use(middleware.OptionalJWTAuth(jwtSecret))
	public.POST("/showings/:id/quote", h.Quote)
	public.POST("/showings/:id/bookings", h.Book)
	public.GET("/tickets/:reference", h.TicketByReference)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/bookings", h.MyBookings)
	auth.GET("/bookings/:id", h.GetBooking)
	auth.GET("/bookings/:id/ticket", h.Ticket)
	auth.DELETE("/bookings/:id", h.Cancel)
}
