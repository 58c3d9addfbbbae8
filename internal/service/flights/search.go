package flights

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Domenick1991/aviasales/internal/cache"
	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/Domenick1991/aviasales/internal/external"
	"golang.org/x/sync/errgroup"
)

// Search queries the database, the timetable provider and the fake source concurrently,
// merges the results and returns the requested page.
//
// Each source contributes at most pager.Window() flights, which is enough to fill the
// requested page after merging. The database is the only source whose failure fails the
// search; the other sources are reported in the result's Sources.
func (s *FlightService) Search(ctx context.Context, filter domain.FlightFilter, pager domain.Pager) (*domain.FlightSearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	pager = domain.NewPager(pager.Page, pager.PerPage)
	window := pager.Window()
	var dbFlights, timetableFlights, fakeFlights []domain.Flight
	dbStatus := domain.SourceStatus{Name: domain.SourceDB}
	timetableStatus := domain.SourceStatus{Name: domain.SourceTimeTable}
	fakeStatus := domain.SourceStatus{Name: domain.SourceFake}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		started := time.Now()
		flights, err := s.repo.Search(gctx, filter, domain.Pager{Page: 1, PerPage: window})
		s.metrics.ObserveSource(string(domain.SourceDB), started, err)
		if err != nil {
			return fmt.Errorf("search flights in db: %w", err)
		}
		dbFlights = flights
		dbStatus.Count = len(flights)
		return nil
	})

	if s.timetableApplies(filter) {
		g.Go(func() error {
			started := time.Now()
			flights, err := s.searchTimeTable(gctx, filter, window)
			s.metrics.ObserveSource(string(domain.SourceTimeTable), started, err)
			if err != nil {
				s.log.Warn("timetable source failed", "from", filter.From, "to", filter.To, "error", err)
				timetableStatus.Error = err.Error()
				return nil
			}
			timetableFlights = flights
			timetableStatus.Count = len(flights)
			return nil
		})
	} else {
		timetableStatus.Skipped = true
	}

	if s.fake != nil {
		g.Go(func() error {
			started := time.Now()
			flights, err := s.searchFake(gctx, filter, window)
			s.metrics.ObserveSource(string(domain.SourceFake), started, err)
			if err != nil {
				s.log.Warn("fake source failed", "error", err)
				fakeStatus.Error = err.Error()
				return nil
			}
			fakeFlights = flights
			fakeStatus.Count = len(flights)
			return nil
		})
	} else {
		fakeStatus.Skipped = true
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := mergeFlights(dbFlights, timetableFlights, fakeFlights)
	s.metrics.ObserveSearch(len(merged))

	return &domain.FlightSearchResult{
		Flights: domain.Paginate(merged, pager),
		Page:    pager.Page,
		PerPage: pager.PerPage,
		Sources: []domain.SourceStatus{dbStatus, timetableStatus, fakeStatus},
	}, nil
}

// timetableApplies reports whether the timetable can answer filter. It needs a route and a
// date, and carries no prices, so a price filter would discard all of its results.
func (s *FlightService) timetableApplies(filter domain.FlightFilter) bool {
	return s.timetable != nil &&
		filter.From != "" && filter.To != "" && filter.DateFrom != nil &&
		filter.PriceFrom == nil && filter.PriceTo == nil
}

func (s *FlightService) searchTimeTable(ctx context.Context, filter domain.FlightFilter, count int) ([]domain.Flight, error) {
	date := filter.DateFrom.Format(external.TimeTableDateLayout)
	key := cache.TimeTableKey(filter.From, filter.To, date, count)

	var flights []domain.Flight
	found, err := s.cache.GetJSON(ctx, key, &flights)
	if err != nil {
		s.log.Warn("timetable cache read failed", "key", key, "error", err)
	}
	s.metrics.CacheLookup("timetable", found)

	if !found {
		var doc *external.AirDetailsRS
		err := external.Retry(ctx, s.retryDelays, func(ctx context.Context) error {
			if s.limiter != nil {
				if err := s.limiter.Wait(ctx, external.TimeTableProvider); err != nil {
					return err
				}
			}
			var err error
			doc, err = s.timetable.Lookup(ctx, filter.From, filter.To, date, count)
			return err
		})
		if err != nil {
			return nil, err
		}

		flights = fromTimeTable(doc)
		if err := s.cache.SetJSON(ctx, key, flights, s.timetableTTL); err != nil {
			s.log.Warn("timetable cache write failed", "key", key, "error", err)
		}
	}

	sortFlights(flights)
	return filterFlights(flights, filter, count), nil
}

func (s *FlightService) searchFake(ctx context.Context, filter domain.FlightFilter, count int) ([]domain.Flight, error) {
	generated, err := s.fake.Flights(ctx)
	if err != nil {
		return nil, err
	}
	flights := make([]domain.Flight, 0, len(generated))
	for _, f := range generated {
		flights = append(flights, fromFake(f))
	}
	sortFlights(flights)
	return filterFlights(flights, filter, count), nil
}

// filterFlights keeps the first limit flights matching filter.
func filterFlights(flights []domain.Flight, filter domain.FlightFilter, limit int) []domain.Flight {
	if limit <= 0 {
		return []domain.Flight{}
	}
	out := make([]domain.Flight, 0, min(len(flights), limit))
	for _, f := range flights {
		if len(out) == limit {
			break
		}
		if filter.Matches(f) {
			out = append(out, f)
		}
	}
	return out
}

// mergeFlights concatenates sources in priority order, drops duplicates (the first
// occurrence wins) and orders the result by departure time, latest first.
func mergeFlights(sources ...[]domain.Flight) []domain.Flight {
	var total int
	for _, src := range sources {
		total += len(src)
	}

	seen := make(map[string]struct{}, total)
	merged := make([]domain.Flight, 0, total)
	for _, src := range sources {
		for _, f := range src {
			key := f.DedupKey()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, f)
		}
	}

	sortFlights(merged)
	return merged
}

func sortFlights(flights []domain.Flight) {
	slices.SortStableFunc(flights, func(a, b domain.Flight) int {
		if c := b.DepartureTime.Compare(a.DepartureTime); c != 0 {
			return c
		}
		return cmp.Compare(a.DedupKey(), b.DedupKey())
	})
}
