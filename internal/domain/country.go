package domain

import "time"

type Country struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Capital   string    `json:"capital"`
	Cioc      string    `json:"cioc"`
	Cca2      string    `json:"cca2"`
	Cca3      string    `json:"cca3"`
	Ccn3      string    `json:"ccn3"`
	Area      float64   `json:"area"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CountryFilter struct {
	Name    string
	Capital string
	Code    string
}
