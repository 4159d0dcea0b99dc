package container

import (
	"context"
	"fmt"
	"time"

	"person-registry/internal/config"
	"person-registry/internal/domains/person/handler"
	"person-registry/internal/domains/person/index"
	"person-registry/internal/domains/person/repository"
	"person-registry/internal/domains/person/service"
	infraCache "person-registry/internal/infrastructure/cache"
	"person-registry/internal/infrastructure/database"
	"person-registry/internal/infrastructure/replication"
	"person-registry/pkg/cache"
	"person-registry/pkg/logger"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application.
// Built once at startup; Cleanup releases everything it opened.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config *config.Config
	DB     *database.PostgresDB
	Cache  cache.Cache // cache.Noop when REDIS_ADDR is empty

	// ========================================
	// PERSON DOMAIN
	// ========================================

	Index         *index.PersonIndex
	Replicator    service.Replicator
	PersonRepo    repository.RepositoryInterface
	PersonService service.ServiceInterface
	PersonHandler *handler.PersonHandler

	dispatcher  *replication.Dispatcher
	stopMonitor context.CancelFunc
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the dependency graph in order:
// infrastructure (DB, cache) -> index + replicator -> repository -> service -> handler
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger.Info("Initializing DI Container", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: INITIALIZE DATABASE
	// ========================================
	if err := c.initDatabase(ctx); err != nil {
		c.Cleanup(ctx)
		return nil, err
	}

	// ========================================
	// STEP 2: INITIALIZE CACHE
	// ========================================
	c.initCache(ctx)

	// ========================================
	// STEP 3: INDEX + REPLICATION
	// ========================================
	c.Index = index.New()
	c.initReplicator()

	// ========================================
	// STEP 4: REPOSITORY -> SERVICE -> HANDLER
	// ========================================
	c.PersonRepo = repository.NewPostgresRepository(c.DB, c.Cache, cfg.Redis.TTL)
	c.PersonService = service.NewPersonService(c.Index, c.PersonRepo, c.Replicator)
	c.PersonHandler = handler.NewPersonHandler(c.PersonService)

	logger.Debug("DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initDatabase(ctx context.Context) error {
	dbCfg := c.Config.Database
	db := database.NewPostgresDB(&database.DBConfig{
		URL:            dbCfg.URL,
		MaxConns:       dbCfg.MaxConns,
		MinConns:       dbCfg.MinConns,
		AcquireTimeout: dbCfg.AcquireTimeout,
		MaxRetries:     dbCfg.MaxRetries,
		RetryDelay:     dbCfg.RetryDelay,
		ConnectTimeout: dbCfg.ConnectTimeout,
	})

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	if dbCfg.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	if dbCfg.MonitorInterval > 0 {
		monitorCtx, cancel := context.WithCancel(context.Background())
		c.stopMonitor = cancel
		go db.MonitorPoolHealth(monitorCtx, dbCfg.MonitorInterval)
	}

	return nil
}

// initCache connects Redis when configured. Redis failure không critical:
// the repository falls back to the database.
func (c *Container) initCache(ctx context.Context) {
	c.Cache = cache.Noop{}

	if c.Config.Redis.Addr == "" {
		logger.Debug("Redis not configured, point-read cache disabled")
		return
	}

	rc := infraCache.NewRedisCache(c.Config.Redis.Addr, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := rc.Connect(ctx); err != nil {
		logger.Error("Redis connection failed (non-critical)", err)
		_ = rc.Close()
		return
	}
	c.Cache = rc
}

func (c *Container) initReplicator() {
	rc := c.Config.Replication

	if !rc.Enabled() {
		logger.Info("Replication disabled: no sibling configured", nil)
		c.Replicator = replication.Noop{}
		return
	}

	pusher := replication.NewHTTPReplicator(rc.SiblingURL, rc.Timeout)
	logger.Info("Replication enabled", map[string]interface{}{
		"endpoint": pusher.Endpoint(),
		"mode":     rc.Mode,
		"timeout":  rc.Timeout.String(),
	})

	if rc.Mode == config.ReplicationSync {
		c.Replicator = pusher
		return
	}

	c.dispatcher = replication.NewDispatcher(pusher, rc.QueueSize)
	c.Replicator = c.dispatcher
}

// ========================================
// CLEANUP
// ========================================

// Cleanup drains pending replication, then closes cache and database.
// Gọi sau khi HTTP server đã shutdown.
func (c *Container) Cleanup(ctx context.Context) {
	logger.Debug("Cleaning up container resources")

	if c.dispatcher != nil {
		drainCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := c.dispatcher.Close(drainCtx); err != nil {
			logger.Error("Replication queue not fully drained", err)
		}
		cancel()
	}

	if c.stopMonitor != nil {
		c.stopMonitor()
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Error("Failed to close Redis", err)
		}
	}

	if c.DB != nil {
		_ = c.DB.Close()
	}

	logger.Debug("Container cleanup completed")
}
