package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // the Echo web framework handles routing
	"github.com/redis/go-redis/v9"

	"github.com/cinemacousas/cinema-booking/internal/config"
	"github.com/cinemacousas/cinema-booking/internal/handler"
	"github.com/cinemacousas/cinema-booking/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication:
// the health check and the public catalogue (movies, upcoming
// showings, seat maps, advisory availability).
func RegisterRoutes(e *echo.Echo, b *handler.BrowseHandler) {
	// Load balancers and monitoring systems probe this endpoint.
	e.GET("/healthz", handler.Health)

	e.GET("/v1/movies", b.ListMovies)
	e.GET("/v1/movies/:id", b.GetMovie)
	e.GET("/v1/showings", b.ListShowings)
	e.GET("/v1/showings/:id", b.GetShowing)
	e.GET("/v1/showings/:id/availability", b.CheckAvailability)
}

// RegisterAuth registers the authentication endpoints.  Signup, login
// and logout live under /v1/auth without middleware; profile and
// password management require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rlCfg config.RateLimitConfig, rdb *redis.Client, jwtSecret string) {
	g := e.Group("/v1/auth")
	// Credential endpoints sit behind the rate limiter: they are the
	// natural target for brute forcing.
	g.Use(middleware.RateLimit(rlCfg, rdb))
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.POST("/me/password", a.ChangePassword)
}
