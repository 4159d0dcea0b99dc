package replication

import (
	"context"

	"person-registry/internal/domains/person/model"
)

// Noop is used when no sibling is configured.
type Noop struct{}

func (Noop) Replicate(context.Context, model.Person) {}
