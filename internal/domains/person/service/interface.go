package service

import (
	"context"

	"person-registry/internal/domains/person/model"
)

// ServiceInterface is the query service behind the HTTP surface.
type ServiceInterface interface {
	// Create validates, persists, indexes and replicates a new person.
	// Errors: model.ErrInvalidInput, model.ErrConflict, model.ErrResourceExhausted
	Create(ctx context.Context, req model.CreatePersonRequest) (model.Person, error)

	// GetByID answers from the index, falling back to the database.
	// Errors: model.ErrNotFound, model.ErrResourceExhausted
	GetByID(ctx context.Context, id string) (model.Person, error)

	// Search scans the local index only; at most index.DefaultSearchLimit results.
	// Errors: model.ErrInvalidInput for a blank term
	Search(ctx context.Context, term string) ([]model.Person, error)

	// Count returns the number of people in the database.
	Count(ctx context.Context) (int64, error)

	// Intake stores a person replicated by the sibling. No validation, no database write.
	Intake(ctx context.Context, p model.Person) error

	// Health checks the database.
	Health(ctx context.Context) error
}

// Replicator forwards a newly created person to the sibling instance.
// Implementations never report failure to the caller.
type Replicator interface {
	Replicate(ctx context.Context, p model.Person)
}
