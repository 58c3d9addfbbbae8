package booking

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/aviasales/internal/cache"
	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/Domenick1991/aviasales/internal/kafka"
	"github.com/Domenick1991/aviasales/internal/repository"
	"github.com/Domenick1991/aviasales/pkg/correlation"
	"github.com/Domenick1991/aviasales/pkg/logger"
	"github.com/Domenick1991/aviasales/pkg/metrics"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	List(ctx context.Context, filter domain.BookingFilter, pager domain.Pager) ([]domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	Update(ctx context.Context, id int64, input UpdateBookingInput) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
}

type FlightLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
}

type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string) error
}

// Provider is the external booking system every booking change is mirrored to.
type Provider interface {
	CheckFlight(ctx context.Context, flightID int64) (bool, error)
	BookFlight(ctx context.Context, flightID, passengerID int64) (bool, error)
	UpdateBooking(ctx context.Context, bookingID int64) (bool, error)
	DeleteBooking(ctx context.Context, bookingID int64) (bool, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings     repository.BookingRepository
	flights      FlightLookup
	locker       Locker
	provider     Provider
	producer     Producer
	bookingTopic string
	lockTTL      time.Duration
	metrics      *metrics.Metrics
	log          logger.Logger
	now          func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithLockTTL(ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.lockTTL = ttl
	}
}

func WithMetrics(m *metrics.Metrics) BookingServiceOption {
	return func(s *BookingService) {
		s.metrics = m
	}
}

// WithEvents enables publishing of booking events to topic.
func WithEvents(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights FlightLookup,
	locker Locker,
	provider Provider,
	log logger.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings: bookings,
		flights:  flights,
		locker:   locker,
		provider: provider,
		log:      log,
		lockTTL:  30 * time.Second,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

type CreateBookingInput struct {
	FlightID        int64
	PassengerID     int64
	TotalPriceCents int64
	Status          domain.BookingStatus
	BookingDateTime time.Time
}

type UpdateBookingInput struct {
	TotalPriceCents int64
	Status          domain.BookingStatus
}

func validateStatus(price int64, status domain.BookingStatus) error {
	if price <= 0 {
		return fmt.Errorf("%w: total_price_cents must be positive", domain.ErrValidation)
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown booking status %q", domain.ErrValidation, status)
	}
	return nil
}

func (s *BookingService) List(ctx context.Context, filter domain.BookingFilter, pager domain.Pager) ([]domain.Booking, error) {
	return s.bookings.List(ctx, filter, pager)
}

func (s *BookingService) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.FlightID <= 0 || input.PassengerID <= 0 {
		return nil, fmt.Errorf("%w: flight_id and passenger_id must be positive", domain.ErrValidation)
	}
	if input.Status == "" {
		input.Status = domain.BookingStatusPending
	}
	if err := validateStatus(input.TotalPriceCents, input.Status); err != nil {
		return nil, err
	}
	if input.BookingDateTime.IsZero() {
		input.BookingDateTime = s.now().UTC()
	}

	if _, err := s.flights.GetByID(ctx, input.FlightID); err != nil {
		return nil, fmt.Errorf("flight %d: %w", input.FlightID, err)
	}

	lockKey := cache.BookingLockKey(input.FlightID, input.PassengerID)
	ok, err := s.locker.AcquireLock(ctx, lockKey, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire booking lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: booking for flight %d and passenger %d is in progress", domain.ErrConflict, input.FlightID, input.PassengerID)
	}
	defer func() {
		if err := s.locker.ReleaseLock(context.WithoutCancel(ctx), lockKey); err != nil {
			s.log.Warn("failed to release booking lock", "key", lockKey, "error", err)
		}
	}()

	available, err := s.provider.CheckFlight(ctx, input.FlightID)
	if err != nil {
		return nil, fmt.Errorf("%w: check flight: %v", domain.ErrExternalFailure, err)
	}
	if !available {
		return nil, domain.ErrFlightUnavailable
	}

	booked, err := s.provider.BookFlight(ctx, input.FlightID, input.PassengerID)
	if err != nil {
		return nil, fmt.Errorf("%w: book flight: %v", domain.ErrExternalFailure, err)
	}
	if !booked {
		return nil, fmt.Errorf("%w: provider rejected booking", domain.ErrExternalFailure)
	}

	booking := &domain.Booking{
		FlightID:        input.FlightID,
		PassengerID:     input.PassengerID,
		TotalPriceCents: input.TotalPriceCents,
		Status:          input.Status,
		BookingDateTime: input.BookingDateTime,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.log.Info("booking created", "booking_id", booking.ID, "flight_id", booking.FlightID, "passenger_id", booking.PassengerID)
	s.publish(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) Update(ctx context.Context, id int64, input UpdateBookingInput) (*domain.Booking, error) {
	if err := validateStatus(input.TotalPriceCents, input.Status); err != nil {
		return nil, err
	}
	if _, err := s.bookings.GetByID(ctx, id); err != nil {
		return nil, err
	}

	ok, err := s.provider.UpdateBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: update booking: %v", domain.ErrExternalFailure, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: provider rejected update", domain.ErrExternalFailure)
	}

	booking := &domain.Booking{ID: id, TotalPriceCents: input.TotalPriceCents, Status: input.Status}
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingUpdated, booking)
	return booking, nil
}

func (s *BookingService) Delete(ctx context.Context, id int64) error {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := s.provider.DeleteBooking(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: delete booking: %v", domain.ErrExternalFailure, err)
	}
	if !ok {
		return fmt.Errorf("%w: provider rejected delete", domain.ErrExternalFailure)
	}

	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("booking deleted", "booking_id", id)
	s.publish(ctx, kafka.EventBookingDeleted, current)
	return nil
}

// publish never fails the caller: the booking is already stored.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		ID:              uuid.NewString(),
		Type:            eventType,
		BookingID:       booking.ID,
		FlightID:        booking.FlightID,
		PassengerID:     booking.PassengerID,
		TotalPriceCents: booking.TotalPriceCents,
		Status:          string(booking.Status),
		CorrelationID:   correlation.FromContext(ctx),
		OccurredAt:      s.now().UTC(),
	}
	err := s.producer.Publish(ctx, s.bookingTopic, strconv.FormatInt(booking.ID, 10), event)
	s.metrics.EventPublished(eventType, err)
	if err != nil {
		s.log.Warn("failed to publish booking event", "type", eventType, "booking_id", booking.ID, "error", err)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
