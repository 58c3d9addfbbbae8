package external

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeService_Flights(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	svc := NewFakeService(250)
	svc.now = func() time.Time { return day.Add(5 * time.Hour) }

	flights, err := svc.Flights(context.Background())
	require.NoError(t, err)
	require.Len(t, flights, 250)

	for i, f := range flights {
		assert.Equal(t, -int64(i+1), f.ID)
		assert.Equal(t, "ExtId-"+itoa(i+1), f.ExternalID)
		assert.True(t, f.AirlineID >= 1 && f.AirlineID <= 9)
		assert.True(t, f.DepartureAirportID >= 100 && f.DepartureAirportID <= 199)
		assert.True(t, f.ArrivalAirportID >= 200 && f.ArrivalAirportID <= 299)
		assert.True(t, f.PassengerCount >= 50 && f.PassengerCount <= 199)
		assert.True(t, f.PriceCents > 0 && f.PriceCents <= 100000)
		assert.True(t, f.ArrivalTime.After(f.DepartureTime))
		assert.WithinDuration(t, day, f.DepartureTime, 24*time.Hour)
	}

	again, err := svc.Flights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, flights, again, "same day yields the same data set")
}

func TestFakeService_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFakeService(10).Flights(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFakeService_BookingCalls(t *testing.T) {
	svc := NewFakeService(1)
	ctx := context.Background()

	for _, call := range []func() (bool, error){
		func() (bool, error) { return svc.CheckFlight(ctx, 1) },
		func() (bool, error) { return svc.BookFlight(ctx, 1, 2) },
		func() (bool, error) { return svc.UpdateBooking(ctx, 3) },
		func() (bool, error) { return svc.DeleteBooking(ctx, 3) },
	} {
		ok, err := call()
		assert.NoError(t, err)
		assert.True(t, ok)
	}
}

func itoa(i int) string {
	return fmt.Sprint(i)
}
