package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/aviasales/internal/kafka"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongoClient connects and pings within a 10 second budget.
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// Entry is one journaled booking event.
type Entry struct {
	EventID       string    `bson:"eventId"`
	Type          string    `bson:"type"`
	BookingID     int64     `bson:"bookingId"`
	FlightID      int64     `bson:"flightId"`
	PassengerID   int64     `bson:"passengerId"`
	TotalPrice    int64     `bson:"totalPriceCents"`
	Status        string    `bson:"status"`
	CorrelationID string    `bson:"correlationId,omitempty"`
	OccurredAt    time.Time `bson:"occurredAt"`
	RecordedAt    time.Time `bson:"recordedAt"`
}

func entryFromEvent(event kafka.BookingEvent, now time.Time) Entry {
	return Entry{
		EventID:       event.ID,
		Type:          event.Type,
		BookingID:     event.BookingID,
		FlightID:      event.FlightID,
		PassengerID:   event.PassengerID,
		TotalPrice:    event.TotalPriceCents,
		Status:        event.Status,
		CorrelationID: event.CorrelationID,
		OccurredAt:    event.OccurredAt,
		RecordedAt:    now,
	}
}

// MongoJournal stores booking events, one document per event id.
type MongoJournal struct {
	collection *mongo.Collection
}

func NewMongoJournal(ctx context.Context, db *mongo.Database, collection string) (*MongoJournal, error) {
	coll := db.Collection(collection)

	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "eventId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "bookingId", Value: 1}, {Key: "occurredAt", Value: 1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("create journal indexes: %w", err)
	}
	return &MongoJournal{collection: coll}, nil
}

// Record upserts the event so redelivered messages do not create duplicates.
func (j *MongoJournal) Record(ctx context.Context, event kafka.BookingEvent) error {
	entry := entryFromEvent(event, time.Now().UTC())
	_, err := j.collection.UpdateOne(ctx,
		bson.M{"eventId": entry.EventID},
		bson.M{"$setOnInsert": entry},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("journal event %s: %w", event.ID, err)
	}
	return nil
}

// History returns the journaled events of one booking, oldest first.
func (j *MongoJournal) History(ctx context.Context, bookingID int64) ([]Entry, error) {
	cur, err := j.collection.Find(ctx,
		bson.M{"bookingId": bookingID},
		options.Find().SetSort(bson.D{{Key: "occurredAt", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	entries := []Entry{}
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
