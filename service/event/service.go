package event

import (
	"context"

	"github.com/colloquyhq/colloquy/model"
	"github.com/colloquyhq/colloquy/service/messaging/memory"
)

// Service is the conversation event bus: a single publisher of turn payloads
// with optional listeners.
type Service struct {
	publisher *Publisher[model.Turn]
	listener  *Listener[model.Turn]
}

// New creates an event service over an in-memory queue.
func New(config memory.Config) *Service {
	queue := memory.NewQueue[Event[model.Turn]](config)
	return &Service{publisher: NewPublisher[model.Turn](queue)}
}

// Publish emits a conversation lifecycle event.
func (s *Service) Publish(ctx context.Context, eventContext *Context, turn model.Turn) error {
	return s.publisher.Publish(ctx, NewEvent(eventContext, turn))
}

// Publisher exposes the underlying publisher for direct consumption.
func (s *Service) Publisher() *Publisher[model.Turn] {
	return s.publisher
}

// SetListener replaces the active listener; a previous one is stopped first.
func (s *Service) SetListener(handler func(*Event[model.Turn])) {
	if s.listener != nil {
		s.listener.Stop()
	}
	s.listener = NewListener[model.Turn](s.publisher, handler)
	s.listener.Start()
}

// Shutdown stops the active listener, if any.
func (s *Service) Shutdown() {
	if s.listener != nil {
		s.listener.Stop()
		s.listener = nil
	}
}
