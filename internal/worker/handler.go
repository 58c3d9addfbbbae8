package worker

import (
	"context"
	"errors"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/Domenick1991/aviasales/internal/kafka"
	"github.com/Domenick1991/aviasales/pkg/logger"
)

type Journal interface {
	Record(ctx context.Context, event kafka.BookingEvent) error
}

type PassengerLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.Passenger, error)
}

type Notifier interface {
	Send(ctx context.Context, to string, event kafka.BookingEvent) error
}

// EventHandler journals every booking event and notifies the passenger.
type EventHandler struct {
	journal    Journal
	passengers PassengerLookup
	notifier   Notifier
	log        logger.Logger
}

func NewEventHandler(journal Journal, passengers PassengerLookup, notifier Notifier, log logger.Logger) *EventHandler {
	return &EventHandler{journal: journal, passengers: passengers, notifier: notifier, log: log}
}

// Handle fails only when the journal write fails; notification problems are logged.
func (h *EventHandler) Handle(ctx context.Context, event kafka.BookingEvent) error {
	log := h.log.With("event_id", event.ID, "type", event.Type, "booking_id", event.BookingID, "correlation_id", event.CorrelationID)

	if err := h.journal.Record(ctx, event); err != nil {
		return err
	}

	passenger, err := h.passengers.GetByID(ctx, event.PassengerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn("passenger gone, notification skipped", "passenger_id", event.PassengerID)
			return nil
		}
		log.Error("passenger lookup failed", "passenger_id", event.PassengerID, "error", err)
		return nil
	}

	if err := h.notifier.Send(ctx, passenger.Email, event); err != nil {
		log.Error("notification failed", "error", err)
	}
	return nil
}
