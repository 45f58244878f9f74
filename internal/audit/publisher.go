package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sink receives events. Implementations: in-memory (tests), Kafka
// (production).
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher forwards events to a sink, optionally through an async buffer so
// workflow writes never block on the sink.
type Publisher struct {
	sink   Sink
	logger *slog.Logger

	inbox chan Event
	done  chan struct{}
	once  sync.Once
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithAsyncBuffer drains events through a buffered channel on a background
// goroutine. Events that do not fit in a full buffer are dropped with a log
// line; transition events are observational, the ledger stays authoritative.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan Event, size)
	}
}

// WithLogger sets a logger for drop/error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher wraps a sink. Without options, Emit is synchronous.
func NewPublisher(sink Sink, opts ...Option) *Publisher {
	p := &Publisher{sink: sink, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.done = make(chan struct{})
		go p.drain()
	}
	return p
}

// Emit records an event. A zero timestamp is filled with now.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if p.inbox == nil {
		return p.sink.Append(ctx, event)
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("audit buffer full, dropping event",
			"kind", event.Kind, "entity_id", event.EntityID, "to_status", event.ToStatus)
	}
	return nil
}

// Close stops the async drain, flushing buffered events first. Safe to call
// on a synchronous publisher and safe to call twice.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.inbox != nil {
			close(p.inbox)
			<-p.done
		}
	})
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.inbox {
		if err := p.sink.Append(context.Background(), event); err != nil {
			p.logger.Error("audit sink append failed",
				"kind", event.Kind, "entity_id", event.EntityID, "error", err)
		}
	}
}
