package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/Domenick1991/aviasales/internal/kafka"
	"github.com/Domenick1991/aviasales/pkg/correlation"
	"github.com/Domenick1991/aviasales/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) List(ctx context.Context, filter domain.BookingFilter, pager domain.Pager) ([]domain.Booking, error) {
	args := m.Called(ctx, filter, pager)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockFlightLookup struct {
	mock.Mock
}

func (m *MockFlightLookup) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocker) ReleaseLock(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CheckFlight(ctx context.Context, flightID int64) (bool, error) {
	args := m.Called(ctx, flightID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvider) BookFlight(ctx context.Context, flightID, passengerID int64) (bool, error) {
	args := m.Called(ctx, flightID, passengerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvider) UpdateBooking(ctx context.Context, bookingID int64) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProvider) DeleteBooking(ctx context.Context, bookingID int64) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

const (
	topic   = "booking-events"
	lockKey = "lock:booking:flight:10:passenger:20"
)

type fixture struct {
	bookings *MockBookingRepository
	flights  *MockFlightLookup
	locker   *MockLocker
	provider *MockProvider
	producer *MockProducer
	service  *BookingService
}

func newFixture() *fixture {
	f := &fixture{
		bookings: &MockBookingRepository{},
		flights:  &MockFlightLookup{},
		locker:   &MockLocker{},
		provider: &MockProvider{},
		producer: &MockProducer{},
	}
	f.service = NewBookingService(f.bookings, f.flights, f.locker, f.provider, logger.NewNop(),
		WithEvents(f.producer, topic), WithLockTTL(time.Minute))
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.bookings.AssertExpectations(t)
	f.flights.AssertExpectations(t)
	f.locker.AssertExpectations(t)
	f.provider.AssertExpectations(t)
	f.producer.AssertExpectations(t)
}

func createInput() CreateBookingInput {
	return CreateBookingInput{FlightID: 10, PassengerID: 20, TotalPriceCents: 15000}
}

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e kafka.BookingEvent) bool { return e.Type == eventType })
}

func TestBookingService_Create(t *testing.T) {
	f := newFixture()
	ctx := correlation.WithID(context.Background(), "corr-1")

	f.flights.On("GetByID", ctx, int64(10)).Return(&domain.Flight{ID: 10}, nil).Once()
	f.locker.On("AcquireLock", ctx, lockKey, time.Minute).Return(true, nil).Once()
	f.locker.On("ReleaseLock", mock.Anything, lockKey).Return(nil).Once()
	f.provider.On("CheckFlight", ctx, int64(10)).Return(true, nil).Once()
	f.provider.On("BookFlight", ctx, int64(10), int64(20)).Return(true, nil).Once()
	f.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Booking).ID = 5 }).
		Return(nil).Once()
	f.producer.On("Publish", ctx, topic, "5", mock.MatchedBy(func(e kafka.BookingEvent) bool {
		return e.Type == kafka.EventBookingCreated && e.BookingID == 5 && e.CorrelationID == "corr-1" && e.ID != ""
	})).Return(nil).Once()

	booking, err := f.service.Create(ctx, createInput())
	require.NoError(t, err)
	assert.Equal(t, int64(5), booking.ID)
	assert.Equal(t, domain.BookingStatusPending, booking.Status)
	assert.False(t, booking.BookingDateTime.IsZero())
	f.assertExpectations(t)
}

func TestBookingService_Create_FlightNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.flights.On("GetByID", ctx, int64(10)).Return(nil, domain.ErrNotFound).Once()

	booking, err := f.service.Create(ctx, createInput())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, booking)
	f.locker.AssertNotCalled(t, "AcquireLock", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_Create_Locked(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.flights.On("GetByID", ctx, int64(10)).Return(&domain.Flight{ID: 10}, nil).Once()
	f.locker.On("AcquireLock", ctx, lockKey, time.Minute).Return(false, nil).Once()

	_, err := f.service.Create(ctx, createInput())
	assert.ErrorIs(t, err, domain.ErrConflict)
	f.provider.AssertNotCalled(t, "CheckFlight", mock.Anything, mock.Anything)
	f.locker.AssertNotCalled(t, "ReleaseLock", mock.Anything, mock.Anything)
}

func TestBookingService_Create_ProviderOutcomes(t *testing.T) {
	testCases := []struct {
		name      string
		available bool
		checkErr  error
		booked    bool
		wantErr   error
	}{
		{name: "flight unavailable", available: false, wantErr: domain.ErrFlightUnavailable},
		{name: "check failed", checkErr: errors.New("timeout"), wantErr: domain.ErrExternalFailure},
		{name: "booking rejected", available: true, booked: false, wantErr: domain.ErrExternalFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()

			f.flights.On("GetByID", ctx, int64(10)).Return(&domain.Flight{ID: 10}, nil).Once()
			f.locker.On("AcquireLock", ctx, lockKey, time.Minute).Return(true, nil).Once()
			f.locker.On("ReleaseLock", mock.Anything, lockKey).Return(nil).Once()
			f.provider.On("CheckFlight", ctx, int64(10)).Return(tc.available, tc.checkErr).Once()
			f.provider.On("BookFlight", ctx, int64(10), int64(20)).Return(tc.booked, nil).Maybe()

			_, err := f.service.Create(ctx, createInput())
			assert.ErrorIs(t, err, tc.wantErr)
			f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			f.locker.AssertExpectations(t)
		})
	}
}

func TestBookingService_Create_PublishFailureIsIgnored(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.flights.On("GetByID", ctx, int64(10)).Return(&domain.Flight{ID: 10}, nil).Once()
	f.locker.On("AcquireLock", ctx, lockKey, time.Minute).Return(true, nil).Once()
	f.locker.On("ReleaseLock", mock.Anything, lockKey).Return(nil).Once()
	f.provider.On("CheckFlight", ctx, int64(10)).Return(true, nil).Once()
	f.provider.On("BookFlight", ctx, int64(10), int64(20)).Return(true, nil).Once()
	f.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	f.producer.On("Publish", ctx, topic, "0", eventOfType(kafka.EventBookingCreated)).Return(errors.New("broker down")).Once()

	booking, err := f.service.Create(ctx, createInput())
	require.NoError(t, err)
	assert.NotNil(t, booking)
	f.assertExpectations(t)
}

func TestBookingService_Create_Duplicate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.flights.On("GetByID", ctx, int64(10)).Return(&domain.Flight{ID: 10}, nil).Once()
	f.locker.On("AcquireLock", ctx, lockKey, time.Minute).Return(true, nil).Once()
	f.locker.On("ReleaseLock", mock.Anything, lockKey).Return(nil).Once()
	f.provider.On("CheckFlight", ctx, int64(10)).Return(true, nil).Once()
	f.provider.On("BookFlight", ctx, int64(10), int64(20)).Return(true, nil).Once()
	f.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(domain.ErrConflict).Once()

	_, err := f.service.Create(ctx, createInput())
	assert.ErrorIs(t, err, domain.ErrConflict)
	f.producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_Create_Validation(t *testing.T) {
	f := newFixture()

	testCases := []struct {
		name  string
		input CreateBookingInput
	}{
		{"missing flight", CreateBookingInput{PassengerID: 1, TotalPriceCents: 1}},
		{"missing passenger", CreateBookingInput{FlightID: 1, TotalPriceCents: 1}},
		{"zero price", CreateBookingInput{FlightID: 1, PassengerID: 1}},
		{"bad status", CreateBookingInput{FlightID: 1, PassengerID: 1, TotalPriceCents: 1, Status: "Boarded"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), tc.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	f.flights.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestBookingService_Update(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, int64(5)).Return(&domain.Booking{ID: 5, Status: domain.BookingStatusPending}, nil).Once()
	f.provider.On("UpdateBooking", ctx, int64(5)).Return(true, nil).Once()
	f.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.ID == 5 && b.Status == domain.BookingStatusConfirmed && b.TotalPriceCents == 20000
	})).Run(func(args mock.Arguments) {
		b := args.Get(1).(*domain.Booking)
		b.FlightID, b.PassengerID = 10, 20
	}).Return(nil).Once()
	f.producer.On("Publish", ctx, topic, "5", eventOfType(kafka.EventBookingUpdated)).Return(nil).Once()

	booking, err := f.service.Update(ctx, 5, UpdateBookingInput{TotalPriceCents: 20000, Status: domain.BookingStatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, int64(10), booking.FlightID)
	f.assertExpectations(t)
}

func TestBookingService_Update_NotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, int64(5)).Return(nil, domain.ErrNotFound).Once()

	_, err := f.service.Update(ctx, 5, UpdateBookingInput{TotalPriceCents: 1, Status: domain.BookingStatusCancelled})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.provider.AssertNotCalled(t, "UpdateBooking", mock.Anything, mock.Anything)
}

func TestBookingService_Delete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	current := &domain.Booking{ID: 5, FlightID: 10, PassengerID: 20, Status: domain.BookingStatusConfirmed}

	f.bookings.On("GetByID", ctx, int64(5)).Return(current, nil).Once()
	f.provider.On("DeleteBooking", ctx, int64(5)).Return(true, nil).Once()
	f.bookings.On("Delete", ctx, int64(5)).Return(nil).Once()
	f.producer.On("Publish", ctx, topic, "5", mock.MatchedBy(func(e kafka.BookingEvent) bool {
		return e.Type == kafka.EventBookingDeleted && e.PassengerID == 20
	})).Return(nil).Once()

	require.NoError(t, f.service.Delete(ctx, 5))
	f.assertExpectations(t)
}

func TestBookingService_Delete_ProviderRejects(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, int64(5)).Return(&domain.Booking{ID: 5}, nil).Once()
	f.provider.On("DeleteBooking", ctx, int64(5)).Return(false, nil).Once()

	err := f.service.Delete(ctx, 5)
	assert.ErrorIs(t, err, domain.ErrExternalFailure)
	f.bookings.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
