package report

import "context"

type Repository interface {
	// Save persists a new batch. Batches are never updated or deleted.
	Save(ctx context.Context, batch *Batch) error
	// Batches returns all saved batches, most recent first.
	Batches(ctx context.Context) ([]*Batch, error)
}
