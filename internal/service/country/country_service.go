package country

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/aviasales/internal/cache"
	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/Domenick1991/aviasales/internal/external"
	"github.com/Domenick1991/aviasales/internal/repository"
	"github.com/Domenick1991/aviasales/pkg/logger"
	"github.com/Domenick1991/aviasales/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

const unknown = "Unknown"

type CountryUseCase interface {
	List(ctx context.Context, filter domain.CountryFilter, pager *domain.Pager) ([]domain.Country, error)
	GetByID(ctx context.Context, id int64) (*domain.Country, error)
	Create(ctx context.Context, input CountryInput) (*domain.Country, error)
	Update(ctx context.Context, id int64, input CountryInput) (*domain.Country, error)
	Delete(ctx context.Context, id int64) error
}

type CountriesAPI interface {
	All(ctx context.Context) ([]external.RestCountry, error)
	ByName(ctx context.Context, name string) ([]external.RestCountry, error)
	ByCapital(ctx context.Context, capital string) ([]external.RestCountry, error)
	ByCode(ctx context.Context, code string) ([]external.RestCountry, error)
}

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Limiter interface {
	Wait(ctx context.Context, source string) error
}

type CountryService struct {
	repo     repository.CountryRepository
	api      CountriesAPI
	cache    Cache
	limiter  Limiter
	metrics  *metrics.Metrics
	log      logger.Logger
	cacheTTL time.Duration
}

type CountryServiceOption func(*CountryService)

func WithLimiter(l Limiter) CountryServiceOption {
	return func(s *CountryService) {
		s.limiter = l
	}
}

func WithMetrics(m *metrics.Metrics) CountryServiceOption {
	return func(s *CountryService) {
		s.metrics = m
	}
}

func WithCacheTTL(ttl time.Duration) CountryServiceOption {
	return func(s *CountryService) {
		s.cacheTTL = ttl
	}
}

// NewCountryService builds the aggregator. A nil api limits List to the database.
func NewCountryService(repo repository.CountryRepository, api CountriesAPI, cache Cache, log logger.Logger, opts ...CountryServiceOption) *CountryService {
	service := &CountryService{
		repo:     repo,
		api:      api,
		cache:    cache,
		log:      log,
		cacheTTL: 20 * time.Minute,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// List returns database countries followed by the ones known to the external API.
// Both lists are paged independently when pager is set. External failures are logged.
func (s *CountryService) List(ctx context.Context, filter domain.CountryFilter, pager *domain.Pager) ([]domain.Country, error) {
	var stored, remote []domain.Country

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		started := time.Now()
		countries, err := s.repo.List(gctx, filter, pager)
		s.metrics.ObserveSource("countries_db", started, err)
		if err != nil {
			return fmt.Errorf("list countries in db: %w", err)
		}
		stored = countries
		return nil
	})

	if s.api != nil {
		g.Go(func() error {
			started := time.Now()
			countries, err := s.fetchExternal(gctx, filter)
			s.metrics.ObserveSource(external.CountriesProvider, started, err)
			if err != nil {
				s.log.Warn("external countries lookup failed", "error", err)
				return nil
			}
			if pager != nil {
				countries = domain.Paginate(countries, *pager)
			}
			remote = countries
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]domain.Country, 0, len(stored)+len(remote))
	result = append(result, stored...)
	return append(result, remote...), nil
}

// lookup picks the API endpoint for filter: name, then capital, then code, else all.
func lookup(filter domain.CountryFilter) (kind, value string) {
	switch {
	case filter.Name != "":
		return "name", filter.Name
	case filter.Capital != "":
		return "capital", filter.Capital
	case filter.Code != "":
		return "code", filter.Code
	}
	return "all", ""
}

func (s *CountryService) fetchExternal(ctx context.Context, filter domain.CountryFilter) ([]domain.Country, error) {
	kind, value := lookup(filter)
	key := cache.CountriesKey(kind, value)

	var raw []external.RestCountry
	found, err := s.cache.GetJSON(ctx, key, &raw)
	if err != nil {
		s.log.Warn("countries cache read failed", "key", key, "error", err)
	}
	s.metrics.CacheLookup("countries", found)

	if !found {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx, external.CountriesProvider); err != nil {
				return nil, err
			}
		}
		switch kind {
		case "name":
			raw, err = s.api.ByName(ctx, value)
		case "capital":
			raw, err = s.api.ByCapital(ctx, value)
		case "code":
			raw, err = s.api.ByCode(ctx, value)
		default:
			raw, err = s.api.All(ctx)
		}
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetJSON(ctx, key, raw, s.cacheTTL); err != nil {
			s.log.Warn("countries cache write failed", "key", key, "error", err)
		}
	}

	countries := make([]domain.Country, 0, len(raw))
	for _, rc := range raw {
		countries = append(countries, fromRest(rc))
	}
	return countries, nil
}

func fromRest(rc external.RestCountry) domain.Country {
	capital := unknown
	if len(rc.Capital) > 0 && rc.Capital[0] != "" {
		capital = rc.Capital[0]
	}
	return domain.Country{
		Name:    orUnknown(rc.Name.Common),
		Capital: capital,
		Cioc:    orUnknown(rc.Cioc),
		Cca2:    orUnknown(rc.Cca2),
		Cca3:    orUnknown(rc.Cca3),
		Ccn3:    orUnknown(rc.Ccn3),
		Area:    rc.Area,
	}
}

func orUnknown(v string) string {
	if v == "" {
		return unknown
	}
	return v
}

type CountryInput struct {
	Name    string
	Capital string
	Cioc    string
	Cca2    string
	Cca3    string
	Ccn3    string
	Area    float64
}

func (in CountryInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	case len(in.Name) > 150 || len(in.Capital) > 150:
		return fmt.Errorf("%w: name and capital must be at most 150 characters", domain.ErrValidation)
	case in.Cca2 != "" && len(in.Cca2) != 2:
		return fmt.Errorf("%w: cca2 must be 2 characters", domain.ErrValidation)
	case in.Cca3 != "" && len(in.Cca3) != 3, in.Ccn3 != "" && len(in.Ccn3) != 3, in.Cioc != "" && len(in.Cioc) != 3:
		return fmt.Errorf("%w: cca3, ccn3 and cioc must be 3 characters", domain.ErrValidation)
	case in.Area < 0:
		return fmt.Errorf("%w: area must not be negative", domain.ErrValidation)
	}
	return nil
}

func (in CountryInput) toCountry(id int64) *domain.Country {
	return &domain.Country{
		ID:      id,
		Name:    strings.TrimSpace(in.Name),
		Capital: in.Capital,
		Cioc:    strings.ToUpper(in.Cioc),
		Cca2:    strings.ToUpper(in.Cca2),
		Cca3:    strings.ToUpper(in.Cca3),
		Ccn3:    in.Ccn3,
		Area:    in.Area,
	}
}

func (s *CountryService) GetByID(ctx context.Context, id int64) (*domain.Country, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CountryService) Create(ctx context.Context, input CountryInput) (*domain.Country, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	country := input.toCountry(0)
	if err := s.repo.Create(ctx, country); err != nil {
		return nil, err
	}
	s.log.Info("country created", "country_id", country.ID, "name", country.Name)
	return country, nil
}

func (s *CountryService) Update(ctx context.Context, id int64, input CountryInput) (*domain.Country, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	country := input.toCountry(id)
	if err := s.repo.Update(ctx, country); err != nil {
		return nil, err
	}
	return country, nil
}

func (s *CountryService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

var _ CountryUseCase = (*CountryService)(nil)
