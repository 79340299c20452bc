package report

import (
	"context"
	"fmt"

	"github.com/ukane-philemon/srecords/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const createdAtKey = "created_at"

// BatchRepository implements Repository.
type BatchRepository struct {
	guard           *db.Guard
	batchCollection *mongo.Collection
}

// NewRepository creates a new instance of *BatchRepository storing batches in
// collection of database dbName. An empty dbName uses the guard's default
// database.
func NewRepository(guard *db.Guard, dbName, collection string) *BatchRepository {
	br := &BatchRepository{guard: guard}
	if database := guard.Database(dbName); database != nil {
		br.batchCollection = database.Collection(collection)
	}
	return br
}

// EnsureIndexes creates a descending index on the batch creation time.
func (br *BatchRepository) EnsureIndexes(ctx context.Context) error {
	if err := br.guard.Ready(); err != nil {
		return err
	}

	_, err := br.batchCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{
			Key:   createdAtKey,
			Value: -1,
		}},
	})
	if err != nil {
		return fmt.Errorf("batchCollection.Indexes().CreateOne error: %w", err)
	}

	return nil
}

// Save persists a new batch.
// Implements Repository.
func (br *BatchRepository) Save(ctx context.Context, batch *Batch) error {
	if err := br.guard.Ready(); err != nil {
		return err
	}

	if batch == nil || len(batch.Students) == 0 {
		return fmt.Errorf("%w: cannot save an empty batch", db.ErrInvalidRequest)
	}

	_, err := br.batchCollection.InsertOne(ctx, batch)
	if err != nil {
		return fmt.Errorf("batchCollection.InsertOne error: %w", err)
	}

	return nil
}

// Batches returns all saved batches, most recent first. Batches without a
// creation time sort last.
// Implements Repository.
func (br *BatchRepository) Batches(ctx context.Context) ([]*Batch, error) {
	if err := br.guard.Ready(); err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{
		Key:   createdAtKey,
		Value: -1,
	}})
	cur, err := br.batchCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("batchCollection.Find error: %w", err)
	}

	batches := make([]*Batch, 0)
	err = cur.All(ctx, &batches)
	if err != nil {
		return nil, fmt.Errorf("failed to decode batches: %w", err)
	}

	return batches, nil
}
