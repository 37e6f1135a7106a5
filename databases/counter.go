package databases

// go generate: mockery --name CounterDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const counterName = "counters"

type counter struct {
	Key string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// CounterDatabase hands out atomically incremented sequence numbers per key
type CounterDatabase interface {
	// Next increments the counter for key, creating it at 1, and returns the new value
	Next(ctx context.Context, key string) (int64, error)
	// Raise lifts the counter for key to at least floor
	Raise(ctx context.Context, key string, floor int64) error
}

type counterDatabase struct {
	db DatabaseHelper
}

// NewCounterDatabase initializes a new instance of counter database with the provided db connection
func NewCounterDatabase(db DatabaseHelper) CounterDatabase {
	return &counterDatabase{
		db: db,
	}
}

func (c *counterDatabase) Next(ctx context.Context, key string) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc counter
	err := c.db.Collection(counterName).FindOneAndUpdate(ctx, bson.M{"_id": key}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

func (c *counterDatabase) Raise(ctx context.Context, key string, floor int64) error {
	_, err := c.db.Collection(counterName).UpdateOne(ctx, bson.M{"_id": key}, bson.M{"$max": bson.M{"seq": floor}}, options.Update().SetUpsert(true))
	return err
}
