// Package event carries conversation lifecycle notifications over the
// messaging layer so observers (UIs, recorders) can follow a run without
// touching engine internals.
package event

import (
	"time"

	"github.com/colloquyhq/colloquy/internal/clock"
)

// Event types emitted by the conversation runtime.
const (
	TypeConversationStarted = "conversation.started"
	TypeTurnTaken           = "turn.taken"
	TypeConversationEnded   = "conversation.ended"
)

// Context identifies where in a conversation an event happened.
type Context struct {
	ConversationID string `json:"conversationId"`
	Speaker        string `json:"speaker,omitempty"`
	EventType      string `json:"eventType"`
	RoundIndex     int    `json:"roundIndex"`
}

// Event is the generic envelope published on the event queue.
type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

// NewEvent builds an envelope stamped with the engine clock.
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
