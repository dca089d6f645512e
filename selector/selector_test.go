package selector

import (
	"errors"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"

	"github.com/colloquyhq/colloquy/model"
)

// simulate drives a selector over a synthetic conversation until it signals
// completion, returning the produced speaker sequence. Each selected speaker
// contributes the supplied scripted text (empty script means the speaker id
// itself), so content-sensitive policies can be steered.
func simulate(t *testing.T, sel Selector, script map[string]string, limit int) []string {
	t.Helper()
	conversation := model.NewConversation("test", "the task", nil)
	var sequence []string
	for i := 0; i < limit; i++ {
		next, err := sel.Next(conversation.Snapshot())
		if err != nil {
			t.Fatalf("unexpected selection error after %v: %v", sequence, err)
		}
		if next == "" {
			return sequence
		}
		text := script[next]
		if text == "" {
			text = next + " speaking"
		}
		conversation.Append(model.Turn{Speaker: next, Text: text})
		sequence = append(sequence, next)
	}
	t.Fatalf("selector did not terminate within %d turns: %v", limit, sequence)
	return nil
}

// assertSequence compares speaker sequences, printing a unified diff on
// mismatch so protocol drift is easy to spot.
func assertSequence(t *testing.T, expected, actual []string) {
	t.Helper()
	if assert.ObjectsAreEqual(expected, actual) {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        expected,
		B:        actual,
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	t.Errorf("speaker sequence mismatch:\n%s", diff)
}

func TestRoundRobin(t *testing.T) {
	type testCase struct {
		name      string
		rotation  []string
		maxRounds int
		expected  []string
	}

	tests := []testCase{{
		name:      "three participants three cycles",
		rotation:  []string{"researcher", "analyst", "writer"},
		maxRounds: 9,
		expected: []string{
			"researcher", "analyst", "writer",
			"researcher", "analyst", "writer",
			"researcher", "analyst", "writer",
		},
	}, {
		name:      "cap not aligned with rotation",
		rotation:  []string{"a", "b"},
		maxRounds: 3,
		expected:  []string{"a", "b", "a"},
	}, {
		name:      "single participant",
		rotation:  []string{"solo"},
		maxRounds: 2,
		expected:  []string{"solo", "solo"},
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sel, err := NewRoundRobin(tc.rotation, tc.maxRounds)
			assert.NoError(t, err)
			assertSequence(t, tc.expected, simulate(t, sel, nil, 50))
		})
	}
}

func TestRoundRobinValidation(t *testing.T) {
	_, err := NewRoundRobin(nil, 9)
	assert.Error(t, err)
	_, err = NewRoundRobin([]string{"a", "a"}, 9)
	assert.Error(t, err)
	_, err = NewRoundRobin([]string{"a", ""}, 9)
	assert.Error(t, err)
	_, err = NewRoundRobin([]string{"a"}, 0)
	assert.Error(t, err)
}

func TestRoundRobinRecoversFromForeignSpeaker(t *testing.T) {
	sel, err := NewRoundRobin([]string{"a", "b"}, 10)
	assert.NoError(t, err)

	conversation := model.NewConversation("test", "task", nil)
	conversation.Append(model.Turn{Speaker: "intruder", Text: "out of band"})

	next, err := sel.Next(conversation.Snapshot())
	assert.NoError(t, err)
	assert.Equal(t, "a", next)
}

func TestDebate(t *testing.T) {
	sel, err := NewDebate("optimist", "pessimist", "moderator", 3)
	assert.NoError(t, err)

	assertSequence(t, []string{
		"optimist", "pessimist",
		"optimist", "pessimist",
		"optimist", "pessimist",
		"moderator",
	}, simulate(t, sel, nil, 20))
}

func TestDebateValidation(t *testing.T) {
	_, err := NewDebate("a", "a", "m", 3)
	assert.Error(t, err)
	_, err = NewDebate("a", "b", "", 3)
	assert.Error(t, err)
	_, err = NewDebate("a", "b", "m", 0)
	assert.Error(t, err)
}

func TestTaskRouter(t *testing.T) {
	routes := []Route{
		{Specialist: "coder", Triggers: []string{"code|programming|python"}},
		{Specialist: "designer", Triggers: []string{"design|layout"}},
	}

	type testCase struct {
		name     string
		script   map[string]string
		options  []RouterOption
		expected []string
	}

	tests := []testCase{{
		name: "keyword routes to coder",
		script: map[string]string{
			"coordinator": "we need some Python code for this",
		},
		expected: []string{"coordinator", "coder", "coordinator", "coder"},
	}, {
		name: "keyword routes to designer",
		script: map[string]string{
			"coordinator": "sketch the page LAYOUT first",
		},
		expected: []string{"coordinator", "designer", "coordinator", "designer"},
	}, {
		name: "no match falls back to first route",
		script: map[string]string{
			"coordinator": "just thinking out loud",
		},
		expected: []string{"coordinator", "coder", "coordinator", "coder"},
	}, {
		name: "explicit fallback",
		script: map[string]string{
			"coordinator": "just thinking out loud",
		},
		options:  []RouterOption{WithFallback("designer")},
		expected: []string{"coordinator", "designer", "coordinator", "designer"},
	}, {
		name: "round ceiling cuts the exchange",
		script: map[string]string{
			"coordinator": "more python please",
		},
		options:  []RouterOption{WithMaxRounds(3), WithSpecialistCap(5)},
		expected: []string{"coordinator", "coder", "coordinator"},
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sel, err := NewTaskRouter("coordinator", routes, tc.options...)
			assert.NoError(t, err)
			assertSequence(t, tc.expected, simulate(t, sel, tc.script, 50))
		})
	}
}

func TestTaskRouterWindow(t *testing.T) {
	// The trigger keyword sits in the opening task, outside the default
	// three-message window once enough turns pile up.
	routes := []Route{
		{Specialist: "coder", Triggers: []string{"python"}},
		{Specialist: "designer", Triggers: []string{"design"}},
	}
	sel, err := NewTaskRouter("coordinator", routes, WithFallback("designer"), WithWindow(1))
	assert.NoError(t, err)

	conversation := model.NewConversation("test", "we need python", nil)
	conversation.Append(model.Turn{Speaker: "coordinator", Text: "let me delegate"})

	next, err := sel.Next(conversation.Snapshot())
	assert.NoError(t, err)
	assert.Equal(t, "designer", next, "keyword outside the window must not match")
}

func TestTaskRouterUnexpectedState(t *testing.T) {
	routes := []Route{{Specialist: "coder", Triggers: []string{"code"}}}
	sel, err := NewTaskRouter("coordinator", routes)
	assert.NoError(t, err)

	conversation := model.NewConversation("test", "task", nil)
	conversation.Append(model.Turn{Speaker: "stranger", Text: "who am I"})

	next, err := sel.Next(conversation.Snapshot())
	assert.Equal(t, "", next)
	assert.True(t, errors.Is(err, ErrUnexpectedState))
}

func TestTaskRouterValidation(t *testing.T) {
	routes := []Route{{Specialist: "coder", Triggers: []string{"code"}}}

	_, err := NewTaskRouter("", routes)
	assert.Error(t, err)
	_, err = NewTaskRouter("coordinator", nil)
	assert.Error(t, err)
	_, err = NewTaskRouter("coordinator", []Route{{Specialist: "coder"}})
	assert.Error(t, err)
	_, err = NewTaskRouter("coder", routes)
	assert.Error(t, err, "coordinator must be distinct from specialists")
	_, err = NewTaskRouter("coordinator", routes, WithFallback("nobody"))
	assert.Error(t, err)
	_, err = NewTaskRouter("coordinator", routes, WithMaxRounds(-1))
	assert.Error(t, err)
}
