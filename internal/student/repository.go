package student

import "context"

type Repository interface {
	// Students returns every student record in store order.
	Students(ctx context.Context) ([]*Student, error)
	// Create inserts a new student record. Names are not unique, creating the
	// same name twice stores two records.
	Create(ctx context.Context, student *Student) error
	// Update sets the mark of the first student that matches name. Returns
	// db.ErrNotFound if no student matches.
	Update(ctx context.Context, name string, mark float64) error
	// Delete removes the first student that matches name. Returns
	// db.ErrNotFound if no student matches.
	Delete(ctx context.Context, name string) error
}
