package audit

import (
	"context"
	"log/slog"

	"laurelid/internal/verification"
)

// DefaultQueueSize bounds events waiting for the worker.
const DefaultQueueSize = 256

// Sink is where audit events end up.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher turns decisions into audit events and queues them for a Worker.
// It never blocks the verification cycle: when the queue is full the event is
// dropped and logged.
type Publisher struct {
	kioskID string
	queue   chan Event
	logger  *slog.Logger
}

func NewPublisher(kioskID string, queueSize int, logger *slog.Logger) *Publisher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Publisher{
		kioskID: kioskID,
		queue:   make(chan Event, queueSize),
		logger:  logger,
	}
}

// Record queues the event for d.
func (p *Publisher) Record(ctx context.Context, d verification.Decision) error {
	return p.Emit(ctx, FromDecision(p.kioskID, d))
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	select {
	case p.queue <- event:
	default:
		p.logger.WarnContext(ctx, "audit queue full, dropping event",
			"event_id", event.ID.String(),
			"decision_id", event.DecisionID.String(),
		)
	}
	return nil
}

// Inbox is the queue consumed by the worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.queue
}
