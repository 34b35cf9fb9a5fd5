package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hrportal/leave-backend-go/internal/domain/audit"
)

// Config holds audit emitter configuration
type Config struct {
	QueueSize    int           // default: 1000
	WriteTimeout time.Duration // default: 10 seconds
}

// Emitter writes audit events from a background worker. Emit never
// blocks and never fails the mutation that produced the event; a full
// queue or a failed write is logged and the event is dropped.
type Emitter struct {
	repo   audit.Repository
	config Config

	queue  chan audit.Event
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewEmitter creates an audit emitter with one background worker.
func NewEmitter(repo audit.Repository, cfg Config) *Emitter {
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}

	e := &Emitter{
		repo:   repo,
		config: cfg,
		queue:  make(chan audit.Event, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	e.wg.Add(1)
	go e.worker()

	return e
}

func (e *Emitter) worker() {
	defer e.wg.Done()

	for {
		select {
		case event := <-e.queue:
			e.write(event)
		case <-e.stopCh:
			// Drain what is already queued before returning.
			for {
				select {
				case event := <-e.queue:
					e.write(event)
				default:
					return
				}
			}
		}
	}
}

func (e *Emitter) write(event audit.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), e.config.WriteTimeout)
	defer cancel()

	if err := e.repo.Append(ctx, event); err != nil {
		slog.Error("failed to append audit event",
			"action", string(event.Action),
			"entity_id", event.EntityID,
			"error", err,
		)
	}
}

func (e *Emitter) Emit(event audit.Event) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	select {
	case e.queue <- event:
	default:
		slog.Warn("audit queue full, event dropped",
			"action", string(event.Action),
			"entity_id", event.EntityID,
		)
	}
}

// Stop drains the queue and stops the worker.
func (e *Emitter) Stop() {
	close(e.stopCh)
	e.wg.Wait()
}
