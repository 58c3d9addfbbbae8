package flights

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/Domenick1991/aviasales/internal/external"
	"github.com/Domenick1991/aviasales/internal/repository"
	"github.com/Domenick1991/aviasales/pkg/logger"
	"github.com/Domenick1991/aviasales/pkg/metrics"
)

type FlightUseCase interface {
	Search(ctx context.Context, filter domain.FlightFilter, pager domain.Pager) (*domain.FlightSearchResult, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, input FlightInput) (*domain.Flight, error)
	Update(ctx context.Context, id int64, input FlightInput) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
}

type TimeTable interface {
	Lookup(ctx context.Context, from, to, date string, count int) (*external.AirDetailsRS, error)
}

type FakeFlights interface {
	Flights(ctx context.Context) ([]external.FakeFlight, error)
}

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Limiter interface {
	Wait(ctx context.Context, source string) error
}

type FlightService struct {
	repo         repository.FlightRepository
	timetable    TimeTable
	fake         FakeFlights
	cache        Cache
	limiter      Limiter
	metrics      *metrics.Metrics
	log          logger.Logger
	timeout      time.Duration
	retryDelays  []time.Duration
	timetableTTL time.Duration
}

type FlightServiceOption func(*FlightService)

func WithLimiter(l Limiter) FlightServiceOption {
	return func(s *FlightService) {
		s.limiter = l
	}
}

func WithMetrics(m *metrics.Metrics) FlightServiceOption {
	return func(s *FlightService) {
		s.metrics = m
	}
}

func WithTimeout(d time.Duration) FlightServiceOption {
	return func(s *FlightService) {
		s.timeout = d
	}
}

func WithRetryDelays(delays ...time.Duration) FlightServiceOption {
	return func(s *FlightService) {
		s.retryDelays = delays
	}
}

func WithTimeTableTTL(ttl time.Duration) FlightServiceOption {
	return func(s *FlightService) {
		s.timetableTTL = ttl
	}
}

// NewFlightService wires the search sources. A nil timetable disables that source.
func NewFlightService(
	repo repository.FlightRepository,
	timetable TimeTable,
	fake FakeFlights,
	cache Cache,
	log logger.Logger,
	opts ...FlightServiceOption,
) *FlightService {
	service := &FlightService{
		repo:         repo,
		timetable:    timetable,
		fake:         fake,
		cache:        cache,
		log:          log,
		timeout:      15 * time.Second,
		timetableTTL: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

type FlightInput struct {
	ExternalID         string
	AirlineID          int64
	DepartureAirportID int64
	DepartureTime      time.Time
	ArrivalAirportID   int64
	ArrivalTime        time.Time
	PassengerCount     int
	IsAvailable        bool
	HasFreeBaggage     bool
	TransactionCount   int
	Prices             []domain.Price
}

func (in FlightInput) validate() error {
	switch {
	case in.AirlineID <= 0:
		return fmt.Errorf("%w: airline_id must be positive", domain.ErrValidation)
	case in.DepartureAirportID <= 0 || in.ArrivalAirportID <= 0:
		return fmt.Errorf("%w: airport ids must be positive", domain.ErrValidation)
	case in.DepartureAirportID == in.ArrivalAirportID:
		return fmt.Errorf("%w: departure and arrival airports must differ", domain.ErrValidation)
	case in.DepartureTime.IsZero() || in.ArrivalTime.IsZero():
		return fmt.Errorf("%w: departure_time and arrival_time are required", domain.ErrValidation)
	case !in.ArrivalTime.After(in.DepartureTime):
		return fmt.Errorf("%w: arrival_time must be after departure_time", domain.ErrValidation)
	case in.PassengerCount < 0 || in.TransactionCount < 0:
		return fmt.Errorf("%w: counts must not be negative", domain.ErrValidation)
	}

	seen := make(map[domain.PriceType]bool, len(in.Prices))
	for _, p := range in.Prices {
		if !p.Type.Valid() {
			return fmt.Errorf("%w: unknown price type %q", domain.ErrValidation, p.Type)
		}
		if p.AmountCents <= 0 {
			return fmt.Errorf("%w: %s price must be positive", domain.ErrValidation, p.Type)
		}
		if seen[p.Type] {
			return fmt.Errorf("%w: duplicate %s price", domain.ErrValidation, p.Type)
		}
		seen[p.Type] = true
	}
	return nil
}

func (in FlightInput) toFlight(id int64) *domain.Flight {
	prices := in.Prices
	if prices == nil {
		prices = []domain.Price{}
	}
	return &domain.Flight{
		ID:                 id,
		ExternalID:         in.ExternalID,
		Source:             domain.SourceDB,
		AirlineID:          in.AirlineID,
		DepartureAirportID: in.DepartureAirportID,
		DepartureTime:      in.DepartureTime,
		ArrivalAirportID:   in.ArrivalAirportID,
		ArrivalTime:        in.ArrivalTime,
		Details: domain.FlightDetails{
			PassengerCount:   in.PassengerCount,
			IsAvailable:      in.IsAvailable,
			HasFreeBaggage:   in.HasFreeBaggage,
			TransactionCount: in.TransactionCount,
			HasTransaction:   in.TransactionCount > 0,
		},
		Prices: prices,
	}
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Create(ctx context.Context, input FlightInput) (*domain.Flight, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	flight := input.toFlight(0)
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	s.log.Info("flight created", "flight_id", flight.ID)
	return flight, nil
}

func (s *FlightService) Update(ctx context.Context, id int64, input FlightInput) (*domain.Flight, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	flight := input.toFlight(id)
	if err := s.repo.Update(ctx, flight); err != nil {
		return nil, err
	}
	return flight, nil
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

var _ FlightUseCase = (*FlightService)(nil)
