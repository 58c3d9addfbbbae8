package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed  BookingStatus = "Confirmed"
	BookingStatusPending    BookingStatus = "Pending"
	BookingStatusCancelled  BookingStatus = "Cancelled"
	BookingStatusInProgress BookingStatus = "InProgress"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusPending, BookingStatusCancelled, BookingStatusInProgress:
		return true
	}
	return false
}

type Booking struct {
	ID              int64         `json:"id"`
	FlightID        int64         `json:"flight_id"`
	PassengerID     int64         `json:"passenger_id"`
	TotalPriceCents int64         `json:"total_price_cents"`
	Status          BookingStatus `json:"status"`
	BookingDateTime time.Time     `json:"booking_date_time"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type BookingFilter struct {
	FlightID    int64
	PassengerID int64
}
