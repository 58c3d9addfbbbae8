package airline

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/Domenick1991/aviasales/internal/repository"
	"github.com/Domenick1991/aviasales/pkg/logger"
)

type AirlineUseCase interface {
	List(ctx context.Context, filter domain.AirlineFilter, pager domain.Pager) ([]domain.Airline, error)
	GetByID(ctx context.Context, id int64) (*domain.Airline, error)
	Create(ctx context.Context, input AirlineInput) (*domain.Airline, error)
	Update(ctx context.Context, id int64, input AirlineInput) (*domain.Airline, error)
	Delete(ctx context.Context, id int64) error
}

type AirlineService struct {
	repo repository.AirlineRepository
	log  logger.Logger
}

func NewAirlineService(repo repository.AirlineRepository, log logger.Logger) *AirlineService {
	return &AirlineService{repo: repo, log: log}
}

type AirlineInput struct {
	Name     string
	IataCode string
	IcaoCode string
}

// normalize trims the input and upper-cases the codes before validating it.
func (in AirlineInput) normalize() (AirlineInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.IataCode = strings.ToUpper(strings.TrimSpace(in.IataCode))
	in.IcaoCode = strings.ToUpper(strings.TrimSpace(in.IcaoCode))

	switch {
	case in.Name == "":
		return in, fmt.Errorf("%w: name is required", domain.ErrValidation)
	case len(in.IataCode) != 2:
		return in, fmt.Errorf("%w: iata_code must be 2 characters", domain.ErrValidation)
	case len(in.IcaoCode) < 3 || len(in.IcaoCode) > 4:
		return in, fmt.Errorf("%w: icao_code must be 3 to 4 characters", domain.ErrValidation)
	}
	return in, nil
}

func (s *AirlineService) List(ctx context.Context, filter domain.AirlineFilter, pager domain.Pager) ([]domain.Airline, error) {
	return s.repo.List(ctx, filter, pager)
}

func (s *AirlineService) GetByID(ctx context.Context, id int64) (*domain.Airline, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AirlineService) Create(ctx context.Context, input AirlineInput) (*domain.Airline, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}
	airline := &domain.Airline{Name: input.Name, IataCode: input.IataCode, IcaoCode: input.IcaoCode}
	if err := s.repo.Create(ctx, airline); err != nil {
		return nil, err
	}
	s.log.Info("airline created", "airline_id", airline.ID, "iata", airline.IataCode)
	return airline, nil
}

func (s *AirlineService) Update(ctx context.Context, id int64, input AirlineInput) (*domain.Airline, error) {
	input, err := input.normalize()
	if err != nil {
		return nil, err
	}
	airline := &domain.Airline{ID: id, Name: input.Name, IataCode: input.IataCode, IcaoCode: input.IcaoCode}
	if err := s.repo.Update(ctx, airline); err != nil {
		return nil, err
	}
	return airline, nil
}

func (s *AirlineService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

var _ AirlineUseCase = (*AirlineService)(nil)
