package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/aviasales/internal/kafka"
	"github.com/Domenick1991/aviasales/pkg/logger"
)

// Sender delivers booking notifications. Delivery is a structured log line; no mail relay is configured.
type Sender struct {
	log logger.Logger
}

func NewSender(log logger.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, to string, event kafka.BookingEvent) error {
	if to == "" {
		return fmt.Errorf("no recipient for booking %d", event.BookingID)
	}
	s.log.Info("booking notification sent",
		"to", to,
		"subject", Subject(event),
		"booking_id", event.BookingID,
		"flight_id", event.FlightID,
		"status", event.Status,
		"correlation_id", event.CorrelationID,
	)
	return nil
}

func Subject(event kafka.BookingEvent) string {
	switch event.Type {
	case kafka.EventBookingCreated:
		return fmt.Sprintf("Booking #%d received (%s)", event.BookingID, event.Status)
	case kafka.EventBookingUpdated:
		return fmt.Sprintf("Booking #%d is now %s", event.BookingID, event.Status)
	case kafka.EventBookingDeleted:
		return fmt.Sprintf("Booking #%d was cancelled", event.BookingID)
	default:
		return fmt.Sprintf("Booking #%d update", event.BookingID)
	}
}
