package domain

import "time"

type PriceType string

const (
	PriceTypeMain     PriceType = "Main"
	PriceTypeDiscount PriceType = "Discount"
	PriceTypeVat      PriceType = "Vat"
)

func (t PriceType) Valid() bool {
	switch t {
	case PriceTypeMain, PriceTypeDiscount, PriceTypeVat:
		return true
	}
	return false
}

// FlightSource tells where a search result came from.
type FlightSource string

const (
	SourceDB        FlightSource = "db"
	SourceTimeTable FlightSource = "timetable"
	SourceFake      FlightSource = "fake"
)

type Price struct {
	AmountCents int64     `json:"amount_cents"`
	Type        PriceType `json:"type"`
}

type FlightDetails struct {
	PassengerCount   int  `json:"passenger_count"`
	IsAvailable      bool `json:"is_available"`
	HasFreeBaggage   bool `json:"has_free_baggage"`
	TransactionCount int  `json:"transaction_count"`
	HasTransaction   bool `json:"has_transaction"`
}

type Flight struct {
	ID                 int64         `json:"id"`
	ExternalID         string        `json:"external_id,omitempty"`
	Source             FlightSource  `json:"source,omitempty"`
	AirlineID          int64         `json:"airline_id"`
	AirlineCode        string        `json:"airline_code,omitempty"`
	DepartureAirportID int64         `json:"departure_airport_id"`
	DepartureCode      string        `json:"departure_code,omitempty"`
	DepartureTime      time.Time     `json:"departure_time"`
	ArrivalAirportID   int64         `json:"arrival_airport_id"`
	ArrivalCode        string        `json:"arrival_code,omitempty"`
	ArrivalTime        time.Time     `json:"arrival_time"`
	Details            FlightDetails `json:"details"`
	Prices             []Price       `json:"prices"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// MainPrice returns the amount of the Main price, if the flight has one.
func (f Flight) MainPrice() (int64, bool) {
	for _, p := range f.Prices {
		if p.Type == PriceTypeMain {
			return p.AmountCents, true
		}
	}
	return 0, false
}

// DedupKey identifies a flight across sources.
func (f Flight) DedupKey() string {
	if f.ExternalID != "" {
		return "ext:" + f.ExternalID
	}
	return "db:" + itoa(f.ID)
}

// FlightFilter narrows flight searches. Zero values mean "no constraint".
type FlightFilter struct {
	DateFrom     *time.Time
	From         string
	To           string
	AirlineIcao  string
	Transactions *int
	PriceFrom    *int64
	PriceTo      *int64
}

// Matches reports whether an in-memory flight satisfies the price, transactions and date filters.
func (f FlightFilter) Matches(fl Flight) bool {
	if f.PriceFrom != nil || f.PriceTo != nil {
		price, ok := fl.MainPrice()
		if !ok {
			return false
		}
		if f.PriceFrom != nil && price < *f.PriceFrom {
			return false
		}
		if f.PriceTo != nil && price > *f.PriceTo {
			return false
		}
	}
	if f.Transactions != nil && fl.Details.TransactionCount != *f.Transactions {
		return false
	}
	if f.DateFrom != nil && fl.DepartureTime.Before(*f.DateFrom) {
		return false
	}
	return true
}

// SourceStatus reports how one aggregator source behaved during a search.
type SourceStatus struct {
	Name    FlightSource `json:"name"`
	Count   int          `json:"count"`
	Skipped bool         `json:"skipped,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type FlightSearchResult struct {
	Flights []Flight       `json:"flights"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
	Sources []SourceStatus `json:"sources"`
}
