package external

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

const FakeProvider = "fake"

// FakeFlight is a generated flight offer.
type FakeFlight struct {
	ID                 int64
	ExternalID         string
	AirlineID          int64
	DepartureAirportID int64
	DepartureTime      time.Time
	ArrivalAirportID   int64
	ArrivalTime        time.Time
	PassengerCount     int
	Transactions       int
	PriceCents         int64
	HasFreeBaggage     bool
	IsAvailable        bool
}

// FakeService simulates an external booking provider. Generated flights are stable
// for one UTC day so that paging through a search sees the same data set.
type FakeService struct {
	count int
	now   func() time.Time
}

func NewFakeService(count int) *FakeService {
	return &FakeService{count: count, now: time.Now}
}

func (s *FakeService) Flights(ctx context.Context) ([]FakeFlight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	day := s.now().UTC().Truncate(24 * time.Hour)
	seed := uint64(day.Unix())
	rnd := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	flights := make([]FakeFlight, 0, s.count)
	for i := 1; i <= s.count; i++ {
		departure := day.Add(time.Duration(rnd.IntN(48*60)-24*60) * time.Minute)
		flights = append(flights, FakeFlight{
			ID:                 -int64(i),
			ExternalID:         fmt.Sprintf("ExtId-%d", i),
			AirlineID:          int64(1 + rnd.IntN(9)),
			DepartureAirportID: int64(100 + rnd.IntN(100)),
			DepartureTime:      departure,
			ArrivalAirportID:   int64(200 + rnd.IntN(100)),
			ArrivalTime:        departure.Add(time.Duration(24*60+rnd.IntN(24*60)) * time.Minute),
			PassengerCount:     50 + rnd.IntN(150),
			Transactions:       rnd.IntN(4),
			PriceCents:         int64(1 + rnd.IntN(100000)),
			HasFreeBaggage:     rnd.IntN(2) == 1,
			IsAvailable:        rnd.IntN(2) == 1,
		})
	}
	return flights, nil
}

func (s *FakeService) CheckFlight(ctx context.Context, flightID int64) (bool, error) {
	return true, ctx.Err()
}

func (s *FakeService) BookFlight(ctx context.Context, flightID, passengerID int64) (bool, error) {
	return true, ctx.Err()
}

func (s *FakeService) UpdateBooking(ctx context.Context, bookingID int64) (bool, error) {
	return true, ctx.Err()
}

func (s *FakeService) DeleteBooking(ctx context.Context, bookingID int64) (bool, error) {
	return true, ctx.Err()
}
