package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/booking-api/internal/config"
	"github.com/jwalitptl/booking-api/internal/handler"
	availabilityHandler "github.com/jwalitptl/booking-api/internal/handler/availability"
	bookingHandler "github.com/jwalitptl/booking-api/internal/handler/booking"
	calendarHandler "github.com/jwalitptl/booking-api/internal/handler/calendar"
	practitionerHandler "github.com/jwalitptl/booking-api/internal/handler/practitioner"
	"github.com/jwalitptl/booking-api/internal/middleware"
	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository/postgres"
	"github.com/jwalitptl/booking-api/internal/router"
	"github.com/jwalitptl/booking-api/internal/schedule"
	availabilityService "github.com/jwalitptl/booking-api/internal/service/availability"
	bookingService "github.com/jwalitptl/booking-api/internal/service/booking"
	"github.com/jwalitptl/booking-api/pkg/logger"
	"github.com/jwalitptl/booking-api/pkg/messaging/redis"
	"github.com/jwalitptl/booking-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Logging.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Logging.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appMetrics := metrics.NewMetrics("booking_api")

	// Repositories
	practitionerRepo := postgres.NewPractitionerRepository(db, appMetrics)
	bookingRepo := postgres.NewBookingRepository(db, appMetrics)
	calendarRepo := postgres.NewCalendarRepository(db, appMetrics)

	// Service catalog is closed configuration: durations never come from
	// requests.
	services := make(map[model.ServiceType]time.Duration, len(cfg.Availability.Services))
	for name, minutes := range cfg.Availability.Services {
		services[model.ServiceType(name)] = time.Duration(minutes) * time.Minute
	}

	calendar := schedule.NewCalendar(calendarRepo, services)

	availabilitySvc := availabilityService.NewService(
		practitionerRepo,
		bookingRepo,
		calendar,
		appLogger,
		availabilityService.WithSlotStep(cfg.Availability.SlotStep()),
		availabilityService.WithNoticePolicy(schedule.NoticePolicy{
			EmptyDay:  cfg.Availability.NoticeEmptyDay(),
			BookedDay: cfg.Availability.NoticeBookedDay(),
		}),
		availabilityService.WithMetrics(appMetrics),
	)

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, appLogger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	bookingSvc := bookingService.NewService(
		bookingRepo,
		practitionerRepo,
		calendar,
		availabilitySvc,
		broker,
		appMetrics,
		appLogger,
	)

	// Handlers
	h := handler.NewHandler(db)
	availabilityH := availabilityHandler.NewHandler(availabilitySvc)
	bookingH := bookingHandler.NewHandler(bookingSvc)
	calendarH := calendarHandler.NewHandler(calendarRepo, calendar)
	practitionerH := practitionerHandler.NewHandler(practitionerRepo)

	r := router.NewRouter(
		availabilityH,
		bookingH,
		calendarH,
		practitionerH,
		h,
		router.Config{
			RateLimit:     100,
			RateBurst:     200,
			CORSConfig:    middleware.DefaultCORSConfig(),
			Timeout:       time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			MetricsPrefix: "booking_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
