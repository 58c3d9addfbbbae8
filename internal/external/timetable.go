package external

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const TimeTableProvider = "timetable"

// AirDetailsRS is the OTA_AirDetailsRS document returned by the timetable API.
type AirDetailsRS struct {
	XMLName       xml.Name        `xml:"OTA_AirDetailsRS"`
	FlightDetails []FlightDetails `xml:"FlightDetails"`
}

type FlightDetails struct {
	TotalFlightTime   string      `xml:"TotalFlightTime,attr"`
	TotalMiles        string      `xml:"TotalMiles,attr"`
	TotalTripTime     string      `xml:"TotalTripTime,attr"`
	DepartureCode     string      `xml:"FLSDepartureCode,attr"`
	DepartureName     string      `xml:"FLSDepartureName,attr"`
	DepartureDateTime string      `xml:"FLSDepartureDateTime,attr"`
	ArrivalCode       string      `xml:"FLSArrivalCode,attr"`
	ArrivalName       string      `xml:"FLSArrivalName,attr"`
	ArrivalDateTime   string      `xml:"FLSArrivalDateTime,attr"`
	FlightType        string      `xml:"FLSFlightType,attr"`
	FlightLegs        string      `xml:"FLSFlightLegs,attr"`
	FlightDays        string      `xml:"FLSFlightDays,attr"`
	Legs              []FlightLeg `xml:"FlightLegDetails"`
}

type FlightLeg struct {
	DepartureDateTime string      `xml:"DepartureDateTime,attr"`
	ArrivalDateTime   string      `xml:"ArrivalDateTime,attr"`
	FlightNumber      string      `xml:"FlightNumber,attr"`
	DepartureAirport  LegAirport  `xml:"DepartureAirport"`
	ArrivalAirport    LegAirport  `xml:"ArrivalAirport"`
	MarketingAirline  LegAirline  `xml:"MarketingAirline"`
	OperatingAirline  *LegAirline `xml:"OperatingAirline"`
}

type LegAirport struct {
	LocationCode string `xml:"LocationCode,attr"`
	LocationName string `xml:"FLSLocationName,attr"`
	Terminal     string `xml:"Terminal,attr"`
}

type LegAirline struct {
	Code             string `xml:"Code,attr"`
	CompanyShortName string `xml:"CompanyShortName,attr"`
	FlightNumber     string `xml:"FlightNumber,attr"`
}

// LegCount returns the number of legs, preferring the explicit FLSFlightLegs attribute.
func (d FlightDetails) LegCount() int {
	if n, err := strconv.Atoi(d.FlightLegs); err == nil && n > 0 {
		return n
	}
	return len(d.Legs)
}

// TimeTableDateLayout is the yyyyMMdd date format the timetable API expects.
const TimeTableDateLayout = "20060102"

// otaDateTimeLayout is the local date-time format used in OTA attributes.
const otaDateTimeLayout = "2006-01-02T15:04:05"

func ParseOTATime(v string) (time.Time, error) {
	return time.Parse(otaDateTimeLayout, v)
}

type TimeTableClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewTimeTableClient(baseURL, apiKey string, timeout time.Duration) *TimeTableClient {
	return &TimeTableClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Lookup fetches up to count scheduled flights between two airports on date (yyyyMMdd).
func (c *TimeTableClient) Lookup(ctx context.Context, from, to, date string, count int) (*AirDetailsRS, error) {
	endpoint := fmt.Sprintf("%s/TimeTable/%s/%s/%s/?Results=%d",
		c.baseURL, url.PathEscape(from), url.PathEscape(to), url.PathEscape(date), count)

	header := http.Header{}
	header.Set("Accept", "application/xml")
	if c.apiKey != "" {
		header.Set("X-RapidAPI-Key", c.apiKey)
	}

	resp, err := get(ctx, c.httpClient, endpoint, header)
	if err != nil {
		return nil, &ProviderError{Provider: TimeTableProvider, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Provider: TimeTableProvider, StatusCode: resp.StatusCode, Err: errors.New(readSnippet(resp.Body))}
	}

	var doc AirDetailsRS
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, &ProviderError{Provider: TimeTableProvider, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &doc, nil
}
