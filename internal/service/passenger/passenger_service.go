package passenger

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/Domenick1991/aviasales/internal/repository"
	"github.com/Domenick1991/aviasales/pkg/logger"
	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^(\+\d{1,2}\s?)?(\(\d{1,4}\)|\d{1,4})[-.\s]?\d{1,10}$`)

type PassengerUseCase interface {
	List(ctx context.Context, pager domain.Pager) ([]domain.Passenger, error)
	GetByID(ctx context.Context, id int64) (*domain.Passenger, error)
	Create(ctx context.Context, input PassengerInput) (*domain.Passenger, error)
	Update(ctx context.Context, id int64, input PassengerInput) (*domain.Passenger, error)
	Delete(ctx context.Context, id int64) error
}

type PassengerService struct {
	repo     repository.PassengerRepository
	validate *validator.Validate
	log      logger.Logger
}

func NewPassengerService(repo repository.PassengerRepository, log logger.Logger) *PassengerService {
	return &PassengerService{repo: repo, validate: validator.New(), log: log}
}

type PassengerInput struct {
	UserID   *int64
	FlightID int64
	Email    string
	Phone    string
	FullName string
}

func (s *PassengerService) check(in PassengerInput) (PassengerInput, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.FullName = strings.TrimSpace(in.FullName)

	if in.FlightID <= 0 {
		return in, fmt.Errorf("%w: flight_id must be positive", domain.ErrValidation)
	}
	if in.FullName == "" {
		return in, fmt.Errorf("%w: full_name is required", domain.ErrValidation)
	}
	if err := s.validate.Var(in.Email, "required,email"); err != nil {
		return in, fmt.Errorf("%w: email is invalid", domain.ErrValidation)
	}
	if !phonePattern.MatchString(in.Phone) {
		return in, fmt.Errorf("%w: phone is invalid", domain.ErrValidation)
	}
	return in, nil
}

func (in PassengerInput) toPassenger(id int64) *domain.Passenger {
	return &domain.Passenger{
		ID:       id,
		UserID:   in.UserID,
		FlightID: in.FlightID,
		Email:    in.Email,
		Phone:    in.Phone,
		FullName: in.FullName,
	}
}

func (s *PassengerService) List(ctx context.Context, pager domain.Pager) ([]domain.Passenger, error) {
	return s.repo.List(ctx, pager)
}

func (s *PassengerService) GetByID(ctx context.Context, id int64) (*domain.Passenger, error) {
	return s.repo.GetByID(ctx, id)
}

// Create relies on the flight foreign key; a missing flight surfaces as domain.ErrInvalidReference.
func (s *PassengerService) Create(ctx context.Context, input PassengerInput) (*domain.Passenger, error) {
	input, err := s.check(input)
	if err != nil {
		return nil, err
	}
	passenger := input.toPassenger(0)
	if err := s.repo.Create(ctx, passenger); err != nil {
		return nil, err
	}
	s.log.Info("passenger created", "passenger_id", passenger.ID, "flight_id", passenger.FlightID)
	return passenger, nil
}

func (s *PassengerService) Update(ctx context.Context, id int64, input PassengerInput) (*domain.Passenger, error) {
	input, err := s.check(input)
	if err != nil {
		return nil, err
	}
	passenger := input.toPassenger(id)
	if err := s.repo.Update(ctx, passenger); err != nil {
		return nil, err
	}
	return passenger, nil
}

func (s *PassengerService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

var _ PassengerUseCase = (*PassengerService)(nil)
