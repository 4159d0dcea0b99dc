package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"person-registry/internal/domains/person/index"
	"person-registry/internal/domains/person/model"
	"person-registry/internal/domains/person/repository"
)

// personService implements ServiceInterface
type personService struct {
	index      *index.PersonIndex
	repo       repository.RepositoryInterface
	replicator Replicator
}

// NewPersonService creates a new person service instance.
// A nil replicator means no sibling.
func NewPersonService(idx *index.PersonIndex, repo repository.RepositoryInterface, replicator Replicator) ServiceInterface {
	if replicator == nil {
		replicator = noopReplicator{}
	}
	return &personService{
		index:      idx,
		repo:       repo,
		replicator: replicator,
	}
}

type noopReplicator struct{}

func (noopReplicator) Replicate(context.Context, model.Person) {}

// Create: validate -> local nickname check -> persist -> index -> replicate
func (s *personService) Create(ctx context.Context, req model.CreatePersonRequest) (model.Person, error) {
	fields, err := model.Validate(req)
	if err != nil {
		return model.Person{}, err
	}

	// Fast path only; the unique constraint in the database is authoritative
	if s.index.NicknameTaken(req.Nickname) {
		return model.Person{}, fmt.Errorf("%w: nickname %q already exists", model.ErrConflict, req.Nickname)
	}

	p := req.ToEntity(uuid.NewString())
	if err := s.repo.Create(ctx, p, fields.Search); err != nil {
		if errors.Is(err, model.ErrResourceExhausted) {
			log.Error().Err(err).Str("nickname", p.Nickname).Msg("[PERSON] Create failed: connection pool exhausted")
		} else {
			log.Debug().Err(err).Str("nickname", p.Nickname).Msg("[PERSON] Create rejected by database")
		}
		return model.Person{}, err
	}

	s.index.Insert(p)
	s.replicator.Replicate(ctx, p)

	return p, nil
}

// GetByID: index first, database on miss, backfilling the index on a database hit
func (s *personService) GetByID(ctx context.Context, id string) (model.Person, error) {
	if p, ok := s.index.Lookup(id); ok {
		return p, nil
	}

	// Ids are always UUIDs; anything else cannot exist in the database
	if _, err := uuid.Parse(id); err != nil {
		return model.Person{}, model.ErrNotFound
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Person{}, err
	}

	s.index.Insert(p)
	return p, nil
}

// Search never consults the database
func (s *personService) Search(_ context.Context, term string) ([]model.Person, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("%w: search term must not be empty", model.ErrInvalidInput)
	}
	return s.index.Search(term, index.DefaultSearchLimit), nil
}

func (s *personService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Intake trusts the sibling's validation and persistence
func (s *personService) Intake(_ context.Context, p model.Person) error {
	if p.ID == "" {
		return fmt.Errorf("%w: replicated person has no id", model.ErrInvalidInput)
	}
	s.index.Insert(p)
	log.Debug().Str("person_id", p.ID).Msg("[PERSON] Replicated person indexed")
	return nil
}

func (s *personService) Health(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
