package selector

import (
	"fmt"

	"github.com/colloquyhq/colloquy/model"
)

// Debate enforces a two-sided debate protocol: the proponent and opponent
// alternate until each has spoken turnCap times, then the moderator closes
// with exactly one synthesis turn and the conversation terminates. The phase
// is re-derived from the history on every call; nothing is stored between
// turns. Total turns are bounded by 2*turnCap+1.
type Debate struct {
	proponent string
	opponent  string
	moderator string
	turnCap   int
}

// NewDebate creates a debate selector. The three participant identifiers
// must be distinct and non-empty; turnCap is the per-debater turn budget.
func NewDebate(proponent, opponent, moderator string, turnCap int) (*Debate, error) {
	if err := uniqueNonEmpty([]string{proponent, opponent, moderator}); err != nil {
		return nil, fmt.Errorf("debate: %w", err)
	}
	if turnCap <= 0 {
		return nil, fmt.Errorf("debate: turnCap must be positive, had %d", turnCap)
	}
	return &Debate{proponent: proponent, opponent: opponent, moderator: moderator, turnCap: turnCap}, nil
}

// Name implements Selector.
func (d *Debate) Name() string { return "debate" }

// Participants implements Selector.
func (d *Debate) Participants() []string {
	return []string{d.proponent, d.opponent, d.moderator}
}

// Next implements the debate state machine: debating while either side has
// budget left, one concluding moderator turn, then done.
func (d *Debate) Next(snapshot *model.Snapshot) (string, error) {
	proponentCount := snapshot.CountTurns(d.proponent)
	opponentCount := snapshot.CountTurns(d.opponent)

	if proponentCount < d.turnCap || opponentCount < d.turnCap {
		switch snapshot.LastSpeaker() {
		case d.proponent:
			if opponentCount < d.turnCap {
				return d.opponent, nil
			}
		case d.opponent:
			if proponentCount < d.turnCap {
				return d.proponent, nil
			}
		}
		// First turn, or the exchange got out of step: the proponent opens.
		return d.proponent, nil
	}

	if snapshot.CountTurns(d.moderator) == 0 {
		return d.moderator, nil
	}
	return "", nil
}
