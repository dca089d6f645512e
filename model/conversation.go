package model

import (
	"time"

	"github.com/colloquyhq/colloquy/internal/clock"
)

// Conversation is the mutable record of a single multi-party exchange. It is
// owned by the runtime driving the conversation; that loop is strictly
// sequential per conversation, so the struct carries no locking of its own.
type Conversation struct {
	ID           string            `json:"id"`
	Task         string            `json:"task"`
	Participants map[string]string `json:"participants"`
	Messages     []Message         `json:"messages"`
	Turns        []Turn            `json:"turns"`
	StartedAt    time.Time         `json:"startedAt"`
	EndedAt      *time.Time        `json:"endedAt,omitempty"`
}

// NewConversation creates a conversation seeded with the opening task
// message attributed to the synthetic user role.
func NewConversation(id, task string, participants map[string]string) *Conversation {
	copied := make(map[string]string, len(participants))
	for k, v := range participants {
		copied[k] = v
	}
	now := clock.Now()
	return &Conversation{
		ID:           id,
		Task:         task,
		Participants: copied,
		Messages:     []Message{{Speaker: UserSpeaker, Text: task, CreatedAt: now}},
		StartedAt:    now,
	}
}

// Append records a completed turn: the turn itself and its raw message are
// added in one step so that the round index stays consistent.
func (c *Conversation) Append(turn Turn) {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = clock.Now()
	}
	c.Turns = append(c.Turns, turn)
	c.Messages = append(c.Messages, Message{Speaker: turn.Speaker, Text: turn.Text, CreatedAt: turn.CreatedAt})
}

// RoundIndex returns the number of completed turns.
func (c *Conversation) RoundIndex() int { return len(c.Turns) }

// End marks the conversation finished. Calling it twice keeps the first
// timestamp.
func (c *Conversation) End() {
	if c.EndedAt != nil {
		return
	}
	now := clock.Now()
	c.EndedAt = &now
}

// Snapshot produces an immutable view for the next selection decision. The
// slices are copied so a selector can never observe a later append.
func (c *Conversation) Snapshot() *Snapshot {
	return &Snapshot{
		Task:         c.Task,
		Participants: c.Participants,
		Conversation: append([]Message(nil), c.Messages...),
		History:      append([]Turn(nil), c.Turns...),
		RoundIndex:   len(c.Turns),
	}
}
