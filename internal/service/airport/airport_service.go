package airport

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/Domenick1991/aviasales/internal/repository"
	"github.com/Domenick1991/aviasales/pkg/logger"
)

const maxFacilitiesLength = 400

type AirportUseCase interface {
	List(ctx context.Context, filter domain.AirportFilter, pager domain.Pager) ([]domain.Airport, error)
	GetByID(ctx context.Context, id int64) (*domain.Airport, error)
	Create(ctx context.Context, input AirportInput) (*domain.Airport, error)
	Update(ctx context.Context, id int64, input AirportInput) (*domain.Airport, error)
	Delete(ctx context.Context, id int64) error
}

type AirportService struct {
	repo repository.AirportRepository
	log  logger.Logger
}

func NewAirportService(repo repository.AirportRepository, log logger.Logger) *AirportService {
	return &AirportService{repo: repo, log: log}
}

type AirportInput struct {
	Code     string
	TZ       string
	TimeZone string
	Type     domain.AirportType
	Label    string
	City     string
	Country  string
	Details  domain.AirportDetails
	Location domain.Location
}

func (in AirportInput) validate() error {
	switch {
	case strings.TrimSpace(in.Code) == "":
		return fmt.Errorf("%w: code is required", domain.ErrValidation)
	case !in.Type.Valid():
		return fmt.Errorf("%w: unknown airport type %q", domain.ErrValidation, in.Type)
	case len(in.Details.Facilities) > maxFacilitiesLength:
		return fmt.Errorf("%w: facilities must be at most %d characters", domain.ErrValidation, maxFacilitiesLength)
	case in.Location.Latitude < -90 || in.Location.Latitude > 90:
		return fmt.Errorf("%w: latitude out of range", domain.ErrValidation)
	case in.Location.Longitude < -180 || in.Location.Longitude > 180:
		return fmt.Errorf("%w: longitude out of range", domain.ErrValidation)
	}
	return nil
}

func (in AirportInput) toAirport(id int64) *domain.Airport {
	details := in.Details
	details.IataCode = strings.ToUpper(details.IataCode)
	details.IcaoCode = strings.ToUpper(details.IcaoCode)
	return &domain.Airport{
		ID:       id,
		Code:     strings.ToUpper(strings.TrimSpace(in.Code)),
		TZ:       in.TZ,
		TimeZone: in.TimeZone,
		Type:     in.Type,
		Label:    in.Label,
		City:     in.City,
		Country:  in.Country,
		Details:  details,
		Location: in.Location,
	}
}

func (s *AirportService) List(ctx context.Context, filter domain.AirportFilter, pager domain.Pager) ([]domain.Airport, error) {
	return s.repo.List(ctx, filter, pager)
}

func (s *AirportService) GetByID(ctx context.Context, id int64) (*domain.Airport, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AirportService) Create(ctx context.Context, input AirportInput) (*domain.Airport, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	airport := input.toAirport(0)
	if err := s.repo.Create(ctx, airport); err != nil {
		return nil, err
	}
	s.log.Info("airport created", "airport_id", airport.ID, "code", airport.Code)
	return airport, nil
}

func (s *AirportService) Update(ctx context.Context, id int64, input AirportInput) (*domain.Airport, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	airport := input.toAirport(id)
	if err := s.repo.Update(ctx, airport); err != nil {
		return nil, err
	}
	return airport, nil
}

func (s *AirportService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

var _ AirportUseCase = (*AirportService)(nil)
