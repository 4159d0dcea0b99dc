package repository

import (
	"context"

	"person-registry/internal/domains/person/model"
	"person-registry/internal/infrastructure/database"
)

// RepositoryInterface is the durable side of the registry. The database is the
// system of record; the in-process index only mirrors it.
type RepositoryInterface interface {
	// Create inserts a new person together with its precomputed search blob.
	// Errors: model.ErrConflict (unique nickname or any rejected write),
	// model.ErrResourceExhausted (no pooled connection within the acquire timeout)
	Create(ctx context.Context, p model.Person, search string) error

	// GetByID point-reads a person.
	// Errors: model.ErrNotFound, model.ErrResourceExhausted
	GetByID(ctx context.Context, id string) (model.Person, error)

	// Count returns the number of stored people.
	Count(ctx context.Context) (int64, error)

	// Ping checks database reachability.
	Ping(ctx context.Context) error
}

// DB is what the repository needs from the connection pool wrapper.
type DB interface {
	WithConn(ctx context.Context, fn func(q database.Querier) error) error
	Ping(ctx context.Context) error
}
