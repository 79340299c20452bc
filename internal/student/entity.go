package student

import (
	"context"
	"fmt"

	"github.com/ukane-philemon/srecords/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// CollectionName is the name of the students collection.
	CollectionName = "students"

	nameKey = "name"
	markKey = "mark"
)

// Student is a student record. It has no identifier field, documents are
// addressed by name.
type Student struct {
	Name string  `json:"name" bson:"name"`
	Mark float64 `json:"mark" bson:"mark"`
}

// StudentRepository implements Repository.
type StudentRepository struct {
	guard             *db.Guard
	studentCollection *mongo.Collection
}

// NewRepository creates a new instance of *StudentRepository. The returned
// repository fails every call with db.ErrServiceUnavailable if guard is not
// connected.
func NewRepository(guard *db.Guard) *StudentRepository {
	return &StudentRepository{
		guard:             guard,
		studentCollection: guard.Collection(CollectionName),
	}
}

// EnsureIndexes creates a non-unique index on the student name used by
// update and delete lookups.
func (sr *StudentRepository) EnsureIndexes(ctx context.Context) error {
	if err := sr.guard.Ready(); err != nil {
		return err
	}

	_, err := sr.studentCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{
			Key:   nameKey,
			Value: 1,
		}},
	})
	if err != nil {
		return fmt.Errorf("studentCollection.Indexes().CreateOne error: %w", err)
	}

	return nil
}

// Students returns every student record in store order.
// Implements Repository.
func (sr *StudentRepository) Students(ctx context.Context) ([]*Student, error) {
	if err := sr.guard.Ready(); err != nil {
		return nil, err
	}

	cur, err := sr.studentCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("studentCollection.Find error: %w", err)
	}

	students := make([]*Student, 0)
	err = cur.All(ctx, &students)
	if err != nil {
		return nil, fmt.Errorf("failed to decode students: %w", err)
	}

	return students, nil
}

// Create inserts a new student record.
// Implements Repository.
func (sr *StudentRepository) Create(ctx context.Context, student *Student) error {
	if err := sr.guard.Ready(); err != nil {
		return err
	}

	if student == nil {
		return fmt.Errorf("%w: missing student", db.ErrInvalidRequest)
	}

	_, err := sr.studentCollection.InsertOne(ctx, student)
	if err != nil {
		return fmt.Errorf("studentCollection.InsertOne error: %w", err)
	}

	return nil
}

// Update sets the mark of the first student that matches name.
// Implements Repository.
func (sr *StudentRepository) Update(ctx context.Context, name string, mark float64) error {
	if err := sr.guard.Ready(); err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{markKey: mark}}
	res, err := sr.studentCollection.UpdateOne(ctx, bson.M{nameKey: name}, update, options.Update().SetUpsert(false))
	if err != nil {
		return fmt.Errorf("studentCollection.UpdateOne error: %w", err)
	}

	// MatchedCount, not ModifiedCount: setting the same mark is still a match.
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: no student named %q", db.ErrNotFound, name)
	}

	return nil
}

// Delete removes the first student that matches name.
// Implements Repository.
func (sr *StudentRepository) Delete(ctx context.Context, name string) error {
	if err := sr.guard.Ready(); err != nil {
		return err
	}

	res, err := sr.studentCollection.DeleteOne(ctx, bson.M{nameKey: name})
	if err != nil {
		return fmt.Errorf("studentCollection.DeleteOne error: %w", err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: no student named %q", db.ErrNotFound, name)
	}

	return nil
}
