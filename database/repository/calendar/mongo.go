// File: database/repository/calendar/mongo.go
package calendarRepo

import (
	"context"
	"errors"
	"time"

	"dulai/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoSlotStore struct {
	coll *mongo.Collection
}

// NewMongoSlotStore constructs a MongoDB-backed SlotStore.
func NewMongoSlotStore() SlotStore {
	db := database.MongoClient.Database("dulai")
	return &mongoSlotStore{
		coll: db.Collection("calendar"),
	}
}

type slotDoc struct {
	ID         string         `bson:"_id"`
	Date       string         `bson:"date"`
	Hour       int            `bson:"hour"`
	Payload    map[string]any `bson:"payload"`
	ReservedAt time.Time      `bson:"reservedAt"`
}

func (s *mongoSlotStore) IsFree(ctx context.Context, date string, hour int) (bool, error) {
	err := s.coll.FindOne(ctx, bson.M{"_id": SlotKey(date, hour)}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

func (s *mongoSlotStore) Reserve(ctx context.Context, date string, hour int, payload map[string]any) (string, error) {
	key := SlotKey(date, hour)
	doc := slotDoc{
		ID:         key,
		Date:       date,
		Hour:       hour,
		Payload:    payload,
		ReservedAt: time.Now().UTC(),
	}
	// Upsert keeps the last-writer-wins semantics of the in-memory store.
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts); err != nil {
		return "", err
	}
	return key, nil
}
