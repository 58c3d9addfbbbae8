package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/aviasales/api"
	"github.com/Domenick1991/aviasales/config"
	"github.com/Domenick1991/aviasales/internal/bootstrap"
	"github.com/Domenick1991/aviasales/internal/cache"
	"github.com/Domenick1991/aviasales/internal/external"
	"github.com/Domenick1991/aviasales/internal/kafka"
	"github.com/Domenick1991/aviasales/internal/ratelimit"
	"github.com/Domenick1991/aviasales/internal/repository"
	"github.com/Domenick1991/aviasales/internal/service/airline"
	"github.com/Domenick1991/aviasales/internal/service/airport"
	"github.com/Domenick1991/aviasales/internal/service/booking"
	"github.com/Domenick1991/aviasales/internal/service/country"
	"github.com/Domenick1991/aviasales/internal/service/flights"
	"github.com/Domenick1991/aviasales/internal/service/passenger"
	"github.com/Domenick1991/aviasales/pkg/logger"
	"github.com/Domenick1991/aviasales/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// appCache is what the services need from redis; cache.NoOpCache stands in when redis is down.
type appCache interface {
	flights.Cache
	booking.Locker
	Ping(ctx context.Context) error
	Close() error
}

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zapLog, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, zapLog)
	stop()
	if err != nil {
		zapLog.Error("app stopped", "error", err)
		_ = zapLog.Sync()
		os.Exit(1)
	}
	_ = zapLog.Sync()
}

// run owns every connection it opens; they are closed before it returns.
func run(ctx context.Context, cfg *config.Config, zapLog logger.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	var store appCache
	redisCache, err := cache.NewRedisCache(ctx, cfg.Redis)
	if err != nil {
		zapLog.Warn("redis unavailable, caching and booking locks disabled", "addr", cfg.Redis.Addr, "error", err)
		store = cache.NewNoOpCache()
	} else {
		store = redisCache
	}
	defer store.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, zapLog)
	defer producer.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	limiter := ratelimit.NewSourceLimiter(cfg.Aggregator.RatePerSecond, cfg.Aggregator.RateBurst)
	for source, limit := range cfg.Aggregator.RateLimits {
		limiter.SetLimit(source, limit.RatePerSecond, limit.Burst)
	}
	fake := external.NewFakeService(cfg.Aggregator.FakeFlightsCount)

	var timetable flights.TimeTable
	if cfg.External.TimeTable.BaseURL != "" {
		timetable = external.NewTimeTableClient(cfg.External.TimeTable.BaseURL, cfg.External.TimeTable.APIKey,
			time.Duration(cfg.External.TimeTable.TimeoutSeconds)*time.Second)
	}
	var countriesAPI country.CountriesAPI
	if cfg.External.Countries.BaseURL != "" {
		countriesAPI = external.NewCountriesClient(cfg.External.Countries.BaseURL, cfg.External.Countries.APIVersion,
			time.Duration(cfg.External.Countries.TimeoutSeconds)*time.Second)
	}

	retryDelays := make([]time.Duration, 0, len(cfg.Aggregator.RetryDelaysMs))
	for _, ms := range cfg.Aggregator.RetryDelaysMs {
		retryDelays = append(retryDelays, time.Duration(ms)*time.Millisecond)
	}

	airlineRepo := repository.NewAirlineRepository(pool)
	airportRepo := repository.NewAirportRepository(pool)
	countryRepo := repository.NewCountryRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	passengerRepo := repository.NewPassengerRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	flightService := flights.NewFlightService(flightRepo, timetable, fake, store, zapLog,
		flights.WithLimiter(limiter),
		flights.WithMetrics(appMetrics),
		flights.WithTimeout(time.Duration(cfg.Aggregator.TimeoutSeconds)*time.Second),
		flights.WithRetryDelays(retryDelays...),
		flights.WithTimeTableTTL(time.Duration(cfg.External.TimeTable.CacheTTLSeconds)*time.Second),
	)
	countryService := country.NewCountryService(countryRepo, countriesAPI, store, zapLog,
		country.WithLimiter(limiter),
		country.WithMetrics(appMetrics),
		country.WithCacheTTL(time.Duration(cfg.External.Countries.CacheTTLSeconds)*time.Second),
	)
	bookingService := booking.NewBookingService(bookingRepo, flightRepo, store, fake, zapLog,
		booking.WithEvents(producer, cfg.Kafka.BookingEventsTopic),
		booking.WithLockTTL(time.Duration(cfg.Booking.LockTTLSeconds)*time.Second),
		booking.WithMetrics(appMetrics),
	)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.RouterOptions{
		Log:      zapLog,
		Metrics:  appMetrics,
		Gatherer: reg,
		HealthChecks: map[string]api.HealthCheck{
			"postgres": pool.Ping,
			"redis":    store.Ping,
			"kafka":    producer.CheckConnection,
		},
	}, map[string]api.Registrar{
		"airlines":   api.NewAirlineHandler(airline.NewAirlineService(airlineRepo, zapLog)),
		"airports":   api.NewAirportHandler(airport.NewAirportService(airportRepo, zapLog)),
		"countries":  api.NewCountryHandler(countryService),
		"flights":    api.NewFlightHandler(flightService),
		"passengers": api.NewPassengerHandler(passenger.NewPassengerService(passengerRepo, zapLog)),
		"bookings":   api.NewBookingHandler(bookingService),
	})

	servers := bootstrap.NewServers(cfg, router, zapLog)
	if err := servers.Run(ctx, cfg.GRPC.Address); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
