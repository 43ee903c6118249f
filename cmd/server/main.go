package main // Entry point package

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/room-booking-service/internal/booking"
	"github.com/iliyamo/room-booking-service/internal/config"
	"github.com/iliyamo/room-booking-service/internal/database"
	"github.com/iliyamo/room-booking-service/internal/handler"
	"github.com/iliyamo/room-booking-service/internal/middleware"
	"github.com/iliyamo/room-booking-service/internal/queue"
	"github.com/iliyamo/room-booking-service/internal/repository"
	"github.com/iliyamo/room-booking-service/internal/router"
)

func main() {
	// .env is optional; real deployments set the variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "room-booking").Logger()
	if cfg.Env == "dev" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	uow := repository.NewUnitOfWork(db)

	svc := booking.NewService(roomRepo, bookingRepo, uow, logger)

	e := echo.New()
	e.HideBanner = true

	// Redis-backed rate limiting and response caching.  NewRedisClient
	// returns nil when no server is reachable; both middlewares degrade
	// to no-ops in that case.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn().Msg("redis unavailable; rate limiting and caching disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, userRepo, tokenRepo), cfg.JWTSecret)
	router.RegisterBooking(e,
		handler.NewBookingHandler(svc, bookingRepo),
		handler.NewBrowseHandler(svc, roomRepo),
		cfg.JWTSecret)
	router.RegisterAdmin(e,
		handler.NewAdminRoomHandler(roomRepo),
		handler.NewAdminBookingHandler(svc, bookingRepo, roomRepo),
		cfg.JWTSecret)

	// Consume booking.decided events in the background; the consumer runs
	// its own reconnect loop and never takes the server down.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			logger.Error().Err(err).Msg("booking consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
