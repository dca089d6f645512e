package model

import (
	"fmt"
	"strings"
)

// Snapshot is a read-only view of a conversation at the moment a speaker
// selection decision is made. It is constructed fresh before every decision;
// selectors must not retain or mutate it.
type Snapshot struct {
	// Task is the original request that started the conversation.
	Task string

	// Participants maps participant identifier to a human-readable role
	// description. Key order carries no meaning.
	Participants map[string]string

	// Conversation holds all raw messages exchanged so far, including the
	// opening task message, in chronological order.
	Conversation []Message

	// History holds one entry per completed participant turn, in
	// chronological order.
	History []Turn

	// RoundIndex is the count of turns already completed. It always equals
	// len(History) when a selector is invoked.
	RoundIndex int
}

// LastSpeaker returns the identifier of the most recent turn's speaker, or
// the empty string when no turn has completed yet.
func (s *Snapshot) LastSpeaker() string {
	if len(s.History) == 0 {
		return ""
	}
	return s.History[len(s.History)-1].Speaker
}

// CountTurns returns how many completed turns were produced by speaker.
func (s *Snapshot) CountTurns(speaker string) int {
	count := 0
	for _, turn := range s.History {
		if turn.Speaker == speaker {
			count++
		}
	}
	return count
}

// RecentText returns the lower-cased concatenation of the last n raw
// messages. Selectors use it for lightweight keyword inspection.
func (s *Snapshot) RecentText(n int) string {
	if n <= 0 || len(s.Conversation) == 0 {
		return ""
	}
	from := len(s.Conversation) - n
	if from < 0 {
		from = 0
	}
	var b strings.Builder
	for i := from; i < len(s.Conversation); i++ {
		if text := s.Conversation[i].Text; text != "" {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(text)
		}
	}
	return strings.ToLower(b.String())
}

// Validate checks the snapshot invariants: the round index matches the number
// of completed turns and every turn speaker is either a registered
// participant or the synthetic user role.
func (s *Snapshot) Validate() error {
	if len(s.History) != s.RoundIndex {
		return fmt.Errorf("snapshot: round index %d does not match %d completed turns", s.RoundIndex, len(s.History))
	}
	for i, turn := range s.History {
		if turn.Speaker == UserSpeaker {
			continue
		}
		if _, ok := s.Participants[turn.Speaker]; !ok {
			return fmt.Errorf("snapshot: turn %d has unknown speaker %q", i, turn.Speaker)
		}
	}
	return nil
}
