package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airtrack/config"
	"github.com/Domenick1991/airtrack/internal/advisor"
	"github.com/Domenick1991/airtrack/internal/auth"
	"github.com/Domenick1991/airtrack/internal/bootstrap"
	"github.com/Domenick1991/airtrack/internal/cache"
	"github.com/Domenick1991/airtrack/internal/kafka"
	"github.com/Domenick1991/airtrack/internal/logger"
	"github.com/Domenick1991/airtrack/internal/migrations"
	"github.com/Domenick1991/airtrack/internal/notify"
	"github.com/Domenick1991/airtrack/internal/repository"
	"github.com/Domenick1991/airtrack/internal/service/booking"
	"github.com/Domenick1991/airtrack/internal/service/ops"
	"github.com/Domenick1991/airtrack/internal/service/support"
	"github.com/Domenick1991/airtrack/internal/service/trips"
	"github.com/Domenick1991/airtrack/internal/service/users"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.Migrate {
		if err := migrations.Up(ctx, cfg.Database.DSN()); err != nil {
			fatal(log, "apply migrations", err)
		}
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		fatal(log, "connect postgres", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Cache.TripsTTL())
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		log.Warn("redis unavailable, serving from postgres", slog.Any("error", err))
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		log.Warn("kafka unavailable, events will be dropped", slog.Any("error", err))
	}

	notifier := notify.NewTelegramNotifier(cfg.Telegram, log)

	var generator advisor.Generator
	if cfg.OpenAI.APIKey != "" {
		generator = advisor.NewOpenAIClient(cfg.OpenAI)
	}
	tripAdvisor := advisor.New(generator, advisor.WithTimeout(cfg.OpenAI.Timeout()), advisor.WithLogger(log))

	tokens := auth.NewTokenManager(cfg.Auth)

	airportRepo := repository.NewAirportRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	tripRepo := repository.NewTripRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	tripService := trips.NewTripService(tripRepo, airportRepo, bookingRepo, redisCache, tripAdvisor,
		trips.WithHub(cfg.Tracking.DefaultHub),
		trips.WithUnlockWindow(cfg.Tracking.UnlockWindow()),
		trips.WithLogger(log),
	)
	bookingService := booking.NewBookingService(bookingRepo, tripRepo, producer, cfg.Kafka.EventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLogger(log),
	)
	supportService := support.NewSupportService(ticketRepo, notifier, producer, cfg.Kafka.EventsTopic, log)
	userService := users.NewUserService(userRepo, tokens, log)
	opsService := ops.NewOpsService(airportRepo, flightRepo, tripRepo, bookingRepo, ticketRepo, redisCache, producer,
		ops.WithTopics(cfg.Kafka.EventsTopic, cfg.Kafka.NotificationsTopic),
		ops.WithLogger(log),
	)

	if cfg.Auth.SeedStaff() {
		err := userService.EnsureStaff(ctx, users.SignupInput{
			Username: cfg.Auth.StaffUsername,
			Email:    cfg.Auth.StaffEmail,
			FullName: "Operations",
			Password: cfg.Auth.StaffPassword,
		})
		if err != nil {
			fatal(log, "seed staff account", err)
		}
	}

	services := bootstrap.Services{
		Trips:    tripService,
		Bookings: bookingService,
		Support:  supportService,
		Users:    userService,
		Ops:      opsService,
	}
	if err := bootstrap.Run(ctx, cfg, services, tokens, log); err != nil {
		fatal(log, "server error", err)
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, slog.Any("error", err))
	os.Exit(1)
}
