package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireError_DeadlineIsExhaustion(t *testing.T) {
	parent := context.Background()
	acquire, cancel := context.WithTimeout(parent, time.Nanosecond)
	defer cancel()
	<-acquire.Done()

	err := acquireError(parent, acquire, context.DeadlineExceeded)
	assert.True(t, errors.Is(err, ErrPoolExhausted))
}

func TestAcquireError_CallerCancelIsNotExhaustion(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	acquire, cancel := context.WithTimeout(parent, time.Hour)
	defer cancel()
	cancelParent()

	err := acquireError(parent, acquire, context.Canceled)
	assert.False(t, errors.Is(err, ErrPoolExhausted))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestAcquireError_OtherFailure(t *testing.T) {
	parent := context.Background()
	acquire, cancel := context.WithTimeout(parent, time.Hour)
	defer cancel()

	boom := errors.New("connection refused")
	err := acquireError(parent, acquire, boom)
	assert.False(t, errors.Is(err, ErrPoolExhausted))
	assert.True(t, errors.Is(err, boom))
}

func TestPoolWarnings(t *testing.T) {
	assert.Empty(t, poolWarnings(&PoolStats{MaxConns: 5, AcquiredConns: 1, AcquireCount: 10, AcquireDuration: time.Millisecond}))

	warnings := poolWarnings(&PoolStats{
		MaxConns:             5,
		AcquiredConns:        5,
		AcquireCount:         10,
		AcquireDuration:      10 * time.Second,
		CanceledAcquireCount: 3,
	})
	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], "utilization")
	assert.Contains(t, warnings[1], "latency")
	assert.Contains(t, warnings[2], "cancel rate")
}

func TestUninitializedPool(t *testing.T) {
	db := NewPostgresDB(&DBConfig{AcquireTimeout: time.Second})
	ctx := context.Background()

	assert.Error(t, db.Ping(ctx))
	assert.Error(t, db.HealthCheck(ctx))
	assert.Error(t, db.Migrate(ctx))
	assert.Error(t, db.WithConn(ctx, func(Querier) error { return nil }))
	_, err := db.Stats()
	assert.Error(t, err)
	assert.NoError(t, db.Close())
}
