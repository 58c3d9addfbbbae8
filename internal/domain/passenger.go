package domain

import "time"

type Passenger struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"`
	FlightID  int64     `json:"flight_id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
