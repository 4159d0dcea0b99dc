package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

// ErrPoolExhausted is returned when no connection could be acquired within AcquireTimeout.
var ErrPoolExhausted = errors.New("database connection pool exhausted")

// Querier is the subset of a pooled connection the repositories use.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// WithConn acquires a connection with the configured acquire timeout, runs fn on it
// and releases it. Only the acquire step is bounded by AcquireTimeout; fn runs under ctx.
func (db *PostgresDB) WithConn(ctx context.Context, fn func(q Querier) error) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	acquireCtx, cancel := context.WithTimeout(ctx, db.Config.AcquireTimeout)
	conn, err := db.Pool.Acquire(acquireCtx)
	if err != nil {
		err = acquireError(ctx, acquireCtx, err)
		cancel()
		return err
	}
	cancel()
	defer conn.Release()

	return fn(conn)
}

// acquireError tells pool exhaustion (our own deadline fired) apart from
// the caller giving up or the database refusing connections.
func acquireError(parent, acquire context.Context, err error) error {
	if parent.Err() == nil && errors.Is(acquire.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrPoolExhausted, err)
	}
	return fmt.Errorf("failed to acquire connection: %w", err)
}

// Ping kiểm tra database connection có còn sống và responsive không
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close đóng tất cả connections trong pool. Safe to call multiple times.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		log.Debug().Msg("[DATABASE] Pool is already closed or was never initialized")
		return nil
	}

	log.Info().Msg("[DATABASE] Closing database connection pool...")
	db.Pool.Close()
	db.Pool = nil
	log.Info().Msg("[DATABASE] Connection pool closed successfully")

	return nil
}

// PoolStats chứa thống kê chi tiết về connection pool
type PoolStats struct {
	AcquireCount         int64
	AcquireDuration      time.Duration
	AcquiredConns        int32
	CanceledAcquireCount int64
	EmptyAcquireCount    int64
	IdleConns            int32
	MaxConns             int32
	TotalConns           int32
}

// Stats trả về snapshot của connection pool statistics
func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		AcquireCount:         raw.AcquireCount(),
		AcquireDuration:      raw.AcquireDuration(),
		AcquiredConns:        raw.AcquiredConns(),
		CanceledAcquireCount: raw.CanceledAcquireCount(),
		EmptyAcquireCount:    raw.EmptyAcquireCount(),
		IdleConns:            raw.IdleConns(),
		MaxConns:             raw.MaxConns(),
		TotalConns:           raw.TotalConns(),
	}, nil
}

// calculateAvgDuration là helper để tính average acquire duration
func calculateAvgDuration(totalDuration time.Duration, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return totalDuration / time.Duration(count)
}

// poolWarnings lists the alert conditions of a stats snapshot.
func poolWarnings(stats *PoolStats) []string {
	var warnings []string

	if stats.MaxConns > 0 {
		utilization := float64(stats.AcquiredConns) / float64(stats.MaxConns) * 100
		if utilization > 80 {
			warnings = append(warnings, fmt.Sprintf("high pool utilization: %.1f%% (%d/%d)",
				utilization, stats.AcquiredConns, stats.MaxConns))
		}
	}

	if avg := calculateAvgDuration(stats.AcquireDuration, stats.AcquireCount); avg > 100*time.Millisecond {
		warnings = append(warnings, fmt.Sprintf("high acquire latency: %v", avg))
	}

	if stats.CanceledAcquireCount > 0 && stats.AcquireCount > 0 {
		cancelRate := float64(stats.CanceledAcquireCount) / float64(stats.AcquireCount) * 100
		if cancelRate > 5 {
			warnings = append(warnings, fmt.Sprintf("high acquire cancel rate: %.1f%%", cancelRate))
		}
	}

	return warnings
}

// MonitorPoolHealth periodically logs pool pressure until ctx is done.
// Run it in its own goroutine.
func (db *PostgresDB) MonitorPoolHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats, err := db.Stats()
			if err != nil {
				log.Warn().Err(err).Msg("[MONITOR] Failed to get stats")
				continue
			}
			for _, w := range poolWarnings(stats) {
				log.Warn().Msg("[MONITOR] " + w)
			}

		case <-ctx.Done():
			log.Info().Msg("[MONITOR] Stopping pool health monitoring")
			return
		}
	}
}
