package airline

import (
	"context"
	"testing"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/Domenick1991/aviasales/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAirlineRepository struct {
	mock.Mock
}

func (m *MockAirlineRepository) List(ctx context.Context, filter domain.AirlineFilter, pager domain.Pager) ([]domain.Airline, error) {
	args := m.Called(ctx, filter, pager)
	return args.Get(0).([]domain.Airline), args.Error(1)
}

func (m *MockAirlineRepository) GetByID(ctx context.Context, id int64) (*domain.Airline, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airline), args.Error(1)
}

func (m *MockAirlineRepository) Create(ctx context.Context, airline *domain.Airline) error {
	args := m.Called(ctx, airline)
	return args.Error(0)
}

func (m *MockAirlineRepository) Update(ctx context.Context, airline *domain.Airline) error {
	args := m.Called(ctx, airline)
	return args.Error(0)
}

func (m *MockAirlineRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestAirlineService_Create_NormalizesCodes(t *testing.T) {
	repo := &MockAirlineRepository{}
	service := NewAirlineService(repo, logger.NewNop())
	ctx := context.Background()

	repo.On("Create", ctx, &domain.Airline{Name: "Aeroflot", IataCode: "SU", IcaoCode: "AFL"}).Return(nil).Once()

	airline, err := service.Create(ctx, AirlineInput{Name: " Aeroflot ", IataCode: "su", IcaoCode: "afl"})
	require.NoError(t, err)
	assert.Equal(t, "SU", airline.IataCode)
	repo.AssertExpectations(t)
}

func TestAirlineService_Create_Validation(t *testing.T) {
	service := NewAirlineService(&MockAirlineRepository{}, logger.NewNop())

	testCases := []struct {
		name  string
		input AirlineInput
	}{
		{"missing name", AirlineInput{IataCode: "SU", IcaoCode: "AFL"}},
		{"long iata", AirlineInput{Name: "A", IataCode: "SUU", IcaoCode: "AFL"}},
		{"short icao", AirlineInput{Name: "A", IataCode: "SU", IcaoCode: "AF"}},
		{"long icao", AirlineInput{Name: "A", IataCode: "SU", IcaoCode: "AFLXX"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), tc.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestAirlineService_Create_Conflict(t *testing.T) {
	repo := &MockAirlineRepository{}
	service := NewAirlineService(repo, logger.NewNop())
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(domain.ErrConflict).Once()

	_, err := service.Create(ctx, AirlineInput{Name: "Aeroflot", IataCode: "SU", IcaoCode: "AFL"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAirlineService_Update(t *testing.T) {
	repo := &MockAirlineRepository{}
	service := NewAirlineService(repo, logger.NewNop())
	ctx := context.Background()

	repo.On("Update", ctx, &domain.Airline{ID: 3, Name: "S7", IataCode: "S7", IcaoCode: "SBI"}).Return(nil).Once()

	airline, err := service.Update(ctx, 3, AirlineInput{Name: "S7", IataCode: "S7", IcaoCode: "SBI"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), airline.ID)
	repo.AssertExpectations(t)
}

func TestAirlineService_ListAndDelete(t *testing.T) {
	repo := &MockAirlineRepository{}
	service := NewAirlineService(repo, logger.NewNop())
	ctx := context.Background()
	filter := domain.AirlineFilter{Name: "aero"}
	pager := domain.NewPager(2, 5)

	repo.On("List", ctx, filter, pager).Return([]domain.Airline{{ID: 1}}, nil).Once()
	repo.On("Delete", ctx, int64(1)).Return(domain.ErrNotFound).Once()

	airlines, err := service.List(ctx, filter, pager)
	require.NoError(t, err)
	assert.Len(t, airlines, 1)
	assert.ErrorIs(t, service.Delete(ctx, 1), domain.ErrNotFound)
	repo.AssertExpectations(t)
}
