package report

import (
	"context"
	"time"
)

// Reporter validates, analyses and saves batches of student marks.
type Reporter struct {
	repo Repository
	now  func() time.Time
}

// NewReporter creates a new *Reporter that saves batches to repo.
func NewReporter(repo Repository) *Reporter {
	return &Reporter{
		repo: repo,
		now:  time.Now,
	}
}

// Submit normalizes entries, analyses them and saves the batch with the
// current UTC time. Nothing is saved if entries are invalid.
func (r *Reporter) Submit(ctx context.Context, entries []Entry) (*Analysis, error) {
	normalized, err := Normalize(entries)
	if err != nil {
		return nil, err
	}

	analysis, err := Analyze(normalized)
	if err != nil {
		return nil, err
	}

	// Mongo stores times with millisecond precision.
	createdAt := r.now().UTC().Truncate(time.Millisecond)
	err = r.repo.Save(ctx, &Batch{
		Students:  normalized,
		Average:   analysis.Average,
		CreatedAt: &createdAt,
	})
	if err != nil {
		return nil, err
	}

	return analysis, nil
}

// History returns all saved batches, most recent first.
func (r *Reporter) History(ctx context.Context) ([]*Batch, error) {
	return r.repo.Batches(ctx)
}
