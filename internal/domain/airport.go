package domain

import "time"

type AirportType string

const (
	AirportTypeInternational AirportType = "International"
	AirportTypeDomestic      AirportType = "Domestic"
)

func (t AirportType) Valid() bool {
	return t == AirportTypeInternational || t == AirportTypeDomestic
}

type AirportDetails struct {
	IataCode   string `json:"iata_code"`
	IcaoCode   string `json:"icao_code"`
	Facilities string `json:"facilities"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
}

type Airport struct {
	ID        int64          `json:"id"`
	Code      string         `json:"code"`
	TZ        string         `json:"tz"`
	TimeZone  string         `json:"time_zone"`
	Type      AirportType    `json:"type"`
	Label     string         `json:"label"`
	City      string         `json:"city"`
	Country   string         `json:"country"`
	Details   AirportDetails `json:"details"`
	Location  Location       `json:"location"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type AirportFilter struct {
	Code       string
	City       string
	Country    string
	Label      string
	IataCode   string
	IcaoCode   string
	Facilities string
}
