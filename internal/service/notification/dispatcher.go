package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hrportal/leave-backend-go/internal/domain/notification"
)

// Config holds notification dispatcher configuration
type Config struct {
	QueueSize    int           // default: 1000
	WriteTimeout time.Duration // default: 10 seconds
}

// Dispatcher delivers notifications from a background worker.
// Dispatch never blocks the approval or rejection that triggered it;
// delivery failures are logged, not propagated.
type Dispatcher struct {
	repo   notification.Repository
	config Config

	queue  chan *notification.Notification
	wg     sync.WaitGroup
	stopCh chan struct{}
}

func NewDispatcher(repo notification.Repository, cfg Config) *Dispatcher {
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}

	d := &Dispatcher{
		repo:   repo,
		config: cfg,
		queue:  make(chan *notification.Notification, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	d.wg.Add(1)
	go d.worker()

	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for {
		select {
		case n := <-d.queue:
			d.deliver(n)
		case <-d.stopCh:
			for {
				select {
				case n := <-d.queue:
					d.deliver(n)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(n *notification.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.WriteTimeout)
	defer cancel()

	if err := d.repo.Create(ctx, n); err != nil {
		slog.Error("failed to deliver notification",
			"recipient_id", n.RecipientID,
			"type", string(n.Type),
			"error", err,
		)
	}
}

func (d *Dispatcher) Dispatch(recipientID string, typ notification.NotificationType, title, message string, requestID *string) {
	n := &notification.Notification{
		RecipientID: recipientID,
		Type:        typ,
		Title:       title,
		Message:     message,
		RequestID:   requestID,
	}

	select {
	case d.queue <- n:
	default:
		slog.Warn("notification queue full, delivery dropped",
			"recipient_id", recipientID,
			"type", string(typ),
		)
	}
}

// Stop drains the queue and stops the worker.
func (d *Dispatcher) Stop() {
	close(d.stopCh)
	d.wg.Wait()
}
