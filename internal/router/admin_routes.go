package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cinemacousas/cinema-booking/internal/handler"
	"github.com/cinemacousas/cinema-booking/internal/middleware"
	"github.com/cinemacousas/cinema-booking/internal/model"
)

// RegisterAdmin registers the back-office CRUD endpoints under
// /v1/admin.  Every route requires a valid token carrying the ADMIN
// role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.POST("/movies", h.CreateMovie)
	g.GET("/movies", h.ListMovies)
	g.GET("/movies/:id", h.GetMovie)
	g.PUT("/movies/:id", h.UpdateMovie)
	g.DELETE("/movies/:id", h.DeleteMovie)

	g.POST("/rooms", h.CreateRoom)
	g.GET("/rooms", h.ListRooms)
	g.GET("/rooms/:id", h.GetRoom)
	g.PUT("/rooms/:id", h.UpdateRoom)
	g.DELETE("/rooms/:id", h.DeleteRoom)

	g.PUT("/seats/:id", h.UpdateSeatType)

	g.POST("/showings", h.CreateShowing)
	g.GET("/showings", h.ListShowings)
	g.GET("/showings/:id", h.GetShowing)
	g.PUT("/showings/:id", h.UpdateShowing)
	g.DELETE("/showings/:id", h.DeleteShowing)

	g.GET("/ageprices", h.ListAgePrices)
	g.PUT("/ageprices/:id", h.UpdateAgePrice)
}
