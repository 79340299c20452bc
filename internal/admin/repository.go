package admin

import "context"

type Repository interface {
	// CreateAccount creates a new admin and returns their id. Returns
	// db.ErrInvalidRequest if the username is taken.
	CreateAccount(ctx context.Context, username, password string) (string, error)
	// LoginAccount authenticates an admin and returns their id.
	LoginAccount(ctx context.Context, username, password string) (string, error)
}
