package selector

import (
	"errors"

	"github.com/colloquyhq/colloquy/model"
)

// ErrUnexpectedState is returned together with an empty speaker when a
// selector encounters a history it does not recognise. The conversation
// terminates (fail safe); the caller is expected to surface a warning.
var ErrUnexpectedState = errors.New("selector: unexpected conversation state")

// Selector decides who speaks next. Next returns the identifier of the next
// participant, or an empty string to signal orderly completion. Selectors
// must never be called concurrently for the same conversation.
type Selector interface {
	// Name identifies the selection policy, e.g. for tracing.
	Name() string

	// Participants lists every participant identifier the policy can ever
	// return, so callers can validate the configuration against a roster
	// before the first turn.
	Participants() []string

	// Next picks the next speaker from the snapshot.
	Next(snapshot *model.Snapshot) (string, error)
}

func uniqueNonEmpty(ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			return errors.New("participant identifier cannot be empty")
		}
		if seen[id] {
			return errors.New("duplicate participant identifier: " + id)
		}
		seen[id] = true
	}
	return nil
}

func indexOf(ids []string, id string) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}
	return -1
}
