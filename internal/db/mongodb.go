package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultConnectTimeout is the server selection timeout used when none is
// configured.
const DefaultConnectTimeout = 3000 * time.Millisecond

// Guard records whether the database was reachable when the process started.
// A Guard is created once and never changes afterwards; every repository
// checks it before issuing a store call.
type Guard struct {
	client    *mongo.Client
	db        *mongo.Database
	connected bool
}

// NewGuard returns a connected *Guard for db.
func NewGuard(db *mongo.Database) *Guard {
	return &Guard{
		client:    db.Client(),
		db:        db,
		connected: true,
	}
}

// Unavailable returns a *Guard that reports the database as unreachable.
func Unavailable() *Guard {
	return &Guard{}
}

// Connect connects to a mongo database and pings it within timeout. A failed
// connection is not returned as an error: the returned *Guard is marked as
// disconnected for the lifetime of the process and no reconnection is
// attempted.
func Connect(ctx context.Context, dbName string, connectionURL string, timeout time.Duration) *Guard {
	database, err := connect(ctx, dbName, connectionURL, timeout)
	if err != nil {
		slog.Error("database is not reachable, data operations are disabled", "error", err)
		return Unavailable()
	}

	slog.Info("database has been connected and pinged successfully", "db", dbName)
	return NewGuard(database)
}

func connect(ctx context.Context, dbName string, connectionURL string, timeout time.Duration) (*mongo.Database, error) {
	if connectionURL == "" {
		return nil, errors.New("missing mongodb database connection URL")
	}

	if dbName == "" {
		return nil, errors.New("database name is required")
	}

	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	// Set server API version for the client.
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().
		ApplyURI(connectionURL).
		SetServerAPIOptions(serverAPI).
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err = client.Ping(pingCtx, readpref.Primary())
	if err != nil {
		// The client is useless from here on, release its resources.
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("client.Ping error: %w", err)
	}

	return client.Database(dbName), nil
}

// Connected reports whether the database was reachable at startup.
func (g *Guard) Connected() bool {
	return g != nil && g.connected
}

// Ready returns ErrServiceUnavailable if the database is not connected.
func (g *Guard) Ready() error {
	if !g.Connected() {
		return ErrServiceUnavailable
	}
	return nil
}

// Collection returns the named collection of the default database or nil if
// the database is not connected.
func (g *Guard) Collection(name string) *mongo.Collection {
	if !g.Connected() {
		return nil
	}
	return g.db.Collection(name)
}

// Database returns the named database on the same client or nil if the
// database is not connected. An empty name returns the default database.
func (g *Guard) Database(name string) *mongo.Database {
	if !g.Connected() {
		return nil
	}
	if name == "" || name == g.db.Name() {
		return g.db
	}
	return g.client.Database(name)
}

// Shutdown attempts to disconnect the database client.
func (g *Guard) Shutdown(ctx context.Context) error {
	if !g.Connected() {
		return nil
	}

	err := g.client.Disconnect(ctx)
	if err != nil {
		return fmt.Errorf("client.Disconnect error: %w", err)
	}

	slog.Info("database has been shutdown successfully")

	return nil
}
