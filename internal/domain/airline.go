package domain

import "time"

type Airline struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IataCode  string    `json:"iata_code"`
	IcaoCode  string    `json:"icao_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AirlineFilter struct {
	Name     string
	IataCode string
	IcaoCode string
}
