package main // Entry point package

import (
	"context" // contexts for the background sweep
	"log"     // Logging library
	"time"    // sweep ticker cadence

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/cinemacousas/cinema-booking/internal/config"
	"github.com/cinemacousas/cinema-booking/internal/core"
	"github.com/cinemacousas/cinema-booking/internal/database"
	"github.com/cinemacousas/cinema-booking/internal/handler"
	"github.com/cinemacousas/cinema-booking/internal/queue"
	"github.com/cinemacousas/cinema-booking/internal/repository"
	"github.com/cinemacousas/cinema-booking/internal/router"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the rate limiter only; nil degrades to no limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting disabled")
	}
	rlCfg := config.LoadRateLimitConfig()

	// Repositories.
	movies := repository.NewMovieRepo(db)
	rooms := repository.NewRoomRepo(db)
	seats := repository.NewSeatRepo(db)
	showings := repository.NewShowingRepo(db)
	agePrices := repository.NewAgePriceRepo(db)
	bookings := repository.NewBookingRepo(db)
	accounts := repository.NewAccountRepo(db)
	sessions := repository.NewSessionRepo(db)

	// Booking engine over the transactional SQL store.
	engine := core.NewEngine(core.NewSQLStore(db), agePrices, showings, cfg.AnonymousAccountID)

	// Handlers.
	authHandler := handler.NewAuthHandler(cfg, accounts, sessions)
	adminHandler := handler.NewAdminHandler(movies, rooms, seats, showings, agePrices)
	browseHandler := handler.NewBrowseHandler(movies, showings, bookings)
	bookingHandler := handler.NewBookingHandler(engine, bookings, showings)

	e := echo.New()
	router.RegisterRoutes(e, browseHandler)
	router.RegisterAuth(e, authHandler, rlCfg, rdb, cfg.JWTSecret)
	router.RegisterBooking(e, bookingHandler, rlCfg, rdb, cfg.JWTSecret)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret)

	// Background consumer writing booking events to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	// Periodic sweep flipping expired sessions to inactive.
	go sweepSessions(sessions, time.Duration(cfg.SessionSweepMin)*time.Minute)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// sweepSessions runs the expired-session sweep on a ticker.  The sweep
// is idempotent, so overlapping or skipped runs are harmless.
func sweepSessions(sessions *repository.SessionRepo, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := sessions.SweepExpired(ctx, time.Now())
		cancel()
		if err != nil {
			log.Printf("session sweep failed: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("session sweep: deactivated %d expired sessions", n)
		}
	}
}
