package external

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const airDetailsXML = `<?xml version="1.0" encoding="UTF-8"?>
<OTA_AirDetailsRS xmlns="http://www.opentravel.org/OTA/2003/05" Version="1.0">
  <FlightDetails TotalFlightTime="PT1H25M" TotalMiles="397" FLSDepartureCode="SVO" FLSDepartureDateTime="2024-03-15T06:00:00"
      FLSArrivalCode="LED" FLSArrivalDateTime="2024-03-15T07:25:00" FLSFlightLegs="1" FLSFlightType="NonStop">
    <FlightLegDetails DepartureDateTime="2024-03-15T06:00:00" ArrivalDateTime="2024-03-15T07:25:00" FlightNumber="6001">
      <DepartureAirport LocationCode="SVO" FLSLocationName="Sheremetyevo"/>
      <ArrivalAirport LocationCode="LED" FLSLocationName="Pulkovo"/>
      <MarketingAirline Code="SU" CompanyShortName="Aeroflot"/>
    </FlightLegDetails>
  </FlightDetails>
  <FlightDetails FLSDepartureCode="SVO" FLSDepartureDateTime="2024-03-15T09:00:00" FLSArrivalCode="LED" FLSArrivalDateTime="2024-03-15T13:10:00">
    <FlightLegDetails FlightNumber="120"><MarketingAirline Code="S7"/></FlightLegDetails>
    <FlightLegDetails FlightNumber="121"><MarketingAirline Code="S7"/></FlightLegDetails>
  </FlightDetails>
</OTA_AirDetailsRS>`

func TestTimeTableClient_Lookup(t *testing.T) {
	var gotPath, gotQuery, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("X-RapidAPI-Key")
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(airDetailsXML))
	}))
	defer srv.Close()

	client := NewTimeTableClient(srv.URL+"/", "secret", time.Second)
	doc, err := client.Lookup(context.Background(), "SVO", "LED", "20240315", 20)
	require.NoError(t, err)

	assert.Equal(t, "/TimeTable/SVO/LED/20240315/", gotPath)
	assert.Equal(t, "Results=20", gotQuery)
	assert.Equal(t, "secret", gotKey)

	require.Len(t, doc.FlightDetails, 2)
	first := doc.FlightDetails[0]
	assert.Equal(t, "SVO", first.DepartureCode)
	assert.Equal(t, 1, first.LegCount())
	require.Len(t, first.Legs, 1)
	assert.Equal(t, "6001", first.Legs[0].FlightNumber)
	assert.Equal(t, "SU", first.Legs[0].MarketingAirline.Code)
	assert.Equal(t, "LED", first.Legs[0].ArrivalAirport.LocationCode)
	assert.Equal(t, 2, doc.FlightDetails[1].LegCount())

	dep, err := ParseOTATime(first.DepartureDateTime)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC), dep)
}

func TestTimeTableClient_Lookup_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewTimeTableClient(srv.URL, "", time.Second).Lookup(context.Background(), "SVO", "LED", "20240315", 10)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, TimeTableProvider, perr.Provider)
	assert.Equal(t, http.StatusTooManyRequests, perr.StatusCode)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestTimeTableClient_Lookup_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<OTA_AirDetailsRS><FlightDetails"))
	}))
	defer srv.Close()

	_, err := NewTimeTableClient(srv.URL, "", time.Second).Lookup(context.Background(), "SVO", "LED", "20240315", 10)
	assert.ErrorContains(t, err, "decode response")
}
