package journal

import (
	"testing"
	"time"

	"github.com/Domenick1991/aviasales/internal/kafka"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEntryFromEvent(t *testing.T) {
	occurred := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	now := occurred.Add(time.Second)

	entry := entryFromEvent(kafka.BookingEvent{
		ID:              "evt-1",
		Type:            kafka.EventBookingCreated,
		BookingID:       3,
		FlightID:        4,
		PassengerID:     5,
		TotalPriceCents: 12000,
		Status:          "Pending",
		CorrelationID:   "corr",
		OccurredAt:      occurred,
	}, now)

	assert.Equal(t, "evt-1", entry.EventID)
	assert.Equal(t, int64(12000), entry.TotalPrice)
	assert.Equal(t, now, entry.RecordedAt)
}

func TestEntry_BSONFieldNames(t *testing.T) {
	data, err := bson.Marshal(Entry{EventID: "evt-1", BookingID: 3})
	assert.NoError(t, err)

	var doc bson.M
	assert.NoError(t, bson.Unmarshal(data, &doc))
	assert.Equal(t, "evt-1", doc["eventId"])
	assert.Equal(t, int64(3), doc["bookingId"])
	assert.NotContains(t, doc, "correlationId")
}
