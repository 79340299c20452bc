package db

import (
	"errors"
)

var (
	// ErrInvalidRequest is a user facing error returned when a request does
	// not satisfy validation rules.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound is returned when an update or delete matches no record.
	ErrNotFound = errors.New("not found")
	// ErrServiceUnavailable is returned by every repository method when the
	// database was not reachable at startup.
	ErrServiceUnavailable = errors.New("MongoDB not connected")
)
