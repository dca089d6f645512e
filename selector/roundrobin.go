package selector

import (
	"fmt"

	"github.com/colloquyhq/colloquy/model"
)

// RoundRobin rotates speaking rights across a fixed ordered list of
// participants, independent of message content. The rotation is strictly
// cyclic, no participant is skipped and the conversation always terminates
// within the configured round cap.
type RoundRobin struct {
	rotation  []string
	maxRounds int
}

// NewRoundRobin creates a round-robin selector. The rotation must contain at
// least one entry and entries must be unique – behaviour with duplicates
// would be undefined, so they are rejected here rather than at call time.
func NewRoundRobin(rotation []string, maxRounds int) (*RoundRobin, error) {
	if len(rotation) == 0 {
		return nil, fmt.Errorf("roundrobin: empty rotation")
	}
	if err := uniqueNonEmpty(rotation); err != nil {
		return nil, fmt.Errorf("roundrobin: %w", err)
	}
	if maxRounds <= 0 {
		return nil, fmt.Errorf("roundrobin: maxRounds must be positive, had %d", maxRounds)
	}
	return &RoundRobin{rotation: append([]string(nil), rotation...), maxRounds: maxRounds}, nil
}

// Name implements Selector.
func (r *RoundRobin) Name() string { return "roundRobin" }

// Participants implements Selector.
func (r *RoundRobin) Participants() []string { return append([]string(nil), r.rotation...) }

// Next returns the participant immediately following the last speaker in
// rotation order. A last speaker outside the rotation (or no speaker at all)
// restarts the cycle at the first entry.
func (r *RoundRobin) Next(snapshot *model.Snapshot) (string, error) {
	if snapshot.RoundIndex >= r.maxRounds {
		return "", nil
	}
	last := snapshot.LastSpeaker()
	idx := indexOf(r.rotation, last)
	if last == "" || idx < 0 {
		return r.rotation[0], nil
	}
	return r.rotation[(idx+1)%len(r.rotation)], nil
}
