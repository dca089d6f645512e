package event

import (
	"context"

	"github.com/colloquyhq/colloquy/internal/clock"
	"github.com/colloquyhq/colloquy/service/messaging"
)

// Publisher writes events of one payload type to a queue and reads them
// back, acknowledging on consume.
type Publisher[T any] struct {
	queue messaging.Queue[Event[T]]
}

// NewPublisher wraps a queue.
func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{queue: queue}
}

// Publish stamps and enqueues the event.
func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	event.CreatedAt = clock.Now()
	return p.queue.Publish(ctx, event)
}

// Consume returns the next event, acknowledging it immediately; lifecycle
// events are informational so redelivery has no value.
func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}
