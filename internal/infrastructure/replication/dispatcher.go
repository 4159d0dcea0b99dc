package replication

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"person-registry/internal/domains/person/model"
)

// Pusher delivers one person to the sibling.
type Pusher interface {
	Push(ctx context.Context, p model.Person) error
}

// Dispatcher hands people to a single background worker over a bounded queue,
// so the create path never waits on the sibling. A full queue drops the person.
type Dispatcher struct {
	pusher Pusher
	queue  chan model.Person
	done   chan struct{}

	mu     sync.RWMutex
	closed bool

	dropped atomic.Int64
	failed  atomic.Int64
}

// NewDispatcher starts the worker. Call Close to drain and stop it.
func NewDispatcher(pusher Pusher, size int) *Dispatcher {
	if size < 1 {
		size = 1
	}
	d := &Dispatcher{
		pusher: pusher,
		queue:  make(chan model.Person, size),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Replicate enqueues p without blocking.
func (d *Dispatcher) Replicate(_ context.Context, p model.Person) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.dropped.Add(1)
		log.Warn().Str("person_id", p.ID).Msg("[REPLICATION] Dispatcher closed, dropping person")
		return
	}

	select {
	case d.queue <- p.Clone():
	default:
		d.dropped.Add(1)
		log.Warn().Str("person_id", p.ID).Int("queue_size", cap(d.queue)).Msg("[REPLICATION] Queue full, dropping person")
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for p := range d.queue {
		if err := d.pusher.Push(context.Background(), p); err != nil {
			d.failed.Add(1)
			log.Warn().Err(err).Str("person_id", p.ID).Msg("[REPLICATION] Push failed")
			continue
		}
		log.Debug().Str("person_id", p.ID).Msg("[REPLICATION] Pushed to sibling")
	}
}

// Close stops accepting work and waits until the queue is drained or ctx is done.
// Safe to call more than once.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		log.Info().Int64("dropped", d.dropped.Load()).Int64("failed", d.failed.Load()).Msg("[REPLICATION] Dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped is the number of people never handed to the worker.
func (d *Dispatcher) Dropped() int64 { return d.dropped.Load() }

// Failed is the number of pushes the sibling did not accept.
func (d *Dispatcher) Failed() int64 { return d.failed.Load() }
