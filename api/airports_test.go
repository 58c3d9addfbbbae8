package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/Domenick1991/aviasales/internal/service/airport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAirportUseCase struct {
	mock.Mock
}

func (m *MockAirportUseCase) List(ctx context.Context, filter domain.AirportFilter, pager domain.Pager) ([]domain.Airport, error) {
	args := m.Called(ctx, filter, pager)
	return args.Get(0).([]domain.Airport), args.Error(1)
}

func (m *MockAirportUseCase) GetByID(ctx context.Context, id int64) (*domain.Airport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airport), args.Error(1)
}

func (m *MockAirportUseCase) Create(ctx context.Context, input airport.AirportInput) (*domain.Airport, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airport), args.Error(1)
}

func (m *MockAirportUseCase) Update(ctx context.Context, id int64, input airport.AirportInput) (*domain.Airport, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airport), args.Error(1)
}

func (m *MockAirportUseCase) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestAirportHandler_list(t *testing.T) {
	mockService := &MockAirportUseCase{}
	router := newTestRouter(map[string]Registrar{"airports": NewAirportHandler(mockService)})

	filter := domain.AirportFilter{City: "Moscow", IataCode: "SVO"}
	mockService.On("List", mock.Anything, filter, domain.Pager{Page: 2, PerPage: 10}).
		Return([]domain.Airport{{ID: 1, Code: "SVO"}}, nil).Once()

	w := doRequest(router, http.MethodGet, "/api/airports?city=Moscow&iata_code=SVO&page=2", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"SVO"`)
	mockService.AssertExpectations(t)
}

func TestAirportHandler_create_Validation(t *testing.T) {
	mockService := &MockAirportUseCase{}
	router := newTestRouter(map[string]Registrar{"airports": NewAirportHandler(mockService)})

	w := doRequest(router, http.MethodPost, "/api/airports", map[string]any{
		"code":     "SVO",
		"type":     "International",
		"details":  map[string]any{"facilities": strings.Repeat("x", 401)},
		"location": map[string]any{"latitude": 120},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	p := decodeProblem(t, w)
	assert.Equal(t, "must be at most 400", p.Errors["details.facilities"])
	assert.Equal(t, "must be at most 90", p.Errors["location.latitude"])
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAirportHandler_get(t *testing.T) {
	mockService := &MockAirportUseCase{}
	router := newTestRouter(map[string]Registrar{"airports": NewAirportHandler(mockService)})

	mockService.On("GetByID", mock.Anything, int64(2)).Return(&domain.Airport{ID: 2, Code: "LED"}, nil).Once()

	w := doRequest(router, http.MethodGet, "/api/airports/2", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"LED"`)
}

func TestAirportHandler_delete_NotFound(t *testing.T) {
	mockService := &MockAirportUseCase{}
	router := newTestRouter(map[string]Registrar{"airports": NewAirportHandler(mockService)})

	mockService.On("Delete", mock.Anything, int64(9)).Return(domain.ErrNotFound).Once()

	w := doRequest(router, http.MethodDelete, "/api/airports/9", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}
