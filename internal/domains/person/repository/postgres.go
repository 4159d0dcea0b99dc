package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"person-registry/internal/domains/person/model"
	"person-registry/internal/infrastructure/database"
	"person-registry/pkg/cache"
)

const (
	personCacheKeyPrefix = "person:"

	uniqueViolation = "23505"
)

const (
	insertPersonQuery = `
        INSERT INTO people (id, nickname, name, birth_date, stack, search)
        VALUES ($1, $2, $3, $4::date, $5, $6)
    `

	selectPersonQuery = `
        SELECT id::text, nickname, name, to_char(birth_date, 'YYYY-MM-DD'), stack
        FROM people
        WHERE id = $1
    `

	countPeopleQuery = `SELECT COUNT(*) FROM people`
)

// postgresRepository implements RepositoryInterface with pgx and an optional read-through cache
type postgresRepository struct {
	db       DB
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewPostgresRepository creates a new person repository instance.
// A nil cache disables caching.
func NewPostgresRepository(db DB, c cache.Cache, cacheTTL time.Duration) RepositoryInterface {
	if c == nil {
		c = cache.Noop{}
	}
	return &postgresRepository{
		db:       db,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

// Create inserts the person; stack nil is stored as NULL, an empty stack as '{}'
func (r *postgresRepository) Create(ctx context.Context, p model.Person, search string) error {
	err := r.db.WithConn(ctx, func(q database.Querier) error {
		_, err := q.Exec(ctx, insertPersonQuery,
			p.ID,
			p.Nickname,
			p.Name,
			p.BirthDate,
			pq.Array(p.Stack),
			search,
		)
		return err
	})
	if err != nil {
		return classifyWriteError(err, p.Nickname)
	}
	return nil
}

// GetByID retrieves a person by id, cache first
func (r *postgresRepository) GetByID(ctx context.Context, id string) (model.Person, error) {
	cacheKey := personCacheKeyPrefix + id

	var p model.Person
	found, err := r.cache.Get(ctx, cacheKey, &p)
	if err != nil {
		log.Debug().Err(err).Str("key", cacheKey).Msg("cache read failed")
	}
	if err == nil && found {
		return p, nil
	}

	// Cache miss - query database
	err = r.db.WithConn(ctx, func(q database.Querier) error {
		var stack []string
		if err := q.QueryRow(ctx, selectPersonQuery, id).Scan(
			&p.ID,
			&p.Nickname,
			&p.Name,
			&p.BirthDate,
			&stack,
		); err != nil {
			return err
		}
		p.Stack = stack
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Person{}, model.ErrNotFound
		}
		if errors.Is(err, database.ErrPoolExhausted) {
			return model.Person{}, fmt.Errorf("%w: %v", model.ErrResourceExhausted, err)
		}
		return model.Person{}, fmt.Errorf("failed to get person by id: %w", err)
	}

	// Store in cache for next time
	if err := r.cache.Set(ctx, cacheKey, p, r.cacheTTL); err != nil {
		log.Debug().Err(err).Str("key", cacheKey).Msg("cache write failed")
	}

	return p, nil
}

func (r *postgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithConn(ctx, func(q database.Querier) error {
		return q.QueryRow(ctx, countPeopleQuery).Scan(&count)
	})
	if err != nil {
		if errors.Is(err, database.ErrPoolExhausted) {
			return 0, fmt.Errorf("%w: %v", model.ErrResourceExhausted, err)
		}
		return 0, fmt.Errorf("failed to count people: %w", err)
	}
	return count, nil
}

// Ping checks the database; an unreachable cache is only logged
func (r *postgresRepository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return err
	}
	if err := r.cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("cache ping failed")
	}
	return nil
}

// classifyWriteError maps an insert failure onto the error taxonomy.
// Pool exhaustion stays distinct; every other rejected write is a conflict.
func classifyWriteError(err error, nickname string) error {
	if errors.Is(err, database.ErrPoolExhausted) {
		return fmt.Errorf("%w: %v", model.ErrResourceExhausted, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: nickname %q already exists", model.ErrConflict, nickname)
	}

	return fmt.Errorf("%w: failed to create person: %v", model.ErrConflict, err)
}
