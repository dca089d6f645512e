package selector

import (
	"fmt"
	"strings"

	"github.com/colloquyhq/colloquy/model"
)

// Route binds a content specialist to the trigger keywords that select it.
// Routes are evaluated in declaration order; the first match wins.
type Route struct {
	Specialist string
	Triggers   []string
}

// TaskRouter alternates control between a fixed coordinator and one of
// several specialists chosen by case-insensitive keyword inspection of the
// recent conversation. Total specialist contributions are capped, and a hard
// round ceiling bounds the whole exchange.
type TaskRouter struct {
	coordinator   string
	routes        []Route
	fallback      string
	maxRounds     int
	specialistCap int
	window        int
}

// RouterOption customises a TaskRouter.
type RouterOption func(*TaskRouter)

// WithFallback overrides the specialist used when no trigger matches. By
// default the first route's specialist serves as fallback; making it
// explicit lets callers route unclassified work to a dedicated participant.
func WithFallback(specialist string) RouterOption {
	return func(r *TaskRouter) { r.fallback = specialist }
}

// WithMaxRounds sets the hard round ceiling (default 10).
func WithMaxRounds(n int) RouterOption {
	return func(r *TaskRouter) { r.maxRounds = n }
}

// WithSpecialistCap sets the total specialist contribution budget across all
// specialists (default 2).
func WithSpecialistCap(n int) RouterOption {
	return func(r *TaskRouter) { r.specialistCap = n }
}

// WithWindow sets how many trailing raw messages are inspected for trigger
// keywords (default 3).
func WithWindow(n int) RouterOption {
	return func(r *TaskRouter) { r.window = n }
}

// NewTaskRouter creates a task-based router. Specialist identifiers must be
// unique, distinct from the coordinator, and every route needs at least one
// trigger keyword. Trigger entries may be single keywords or expressions of
// the form "code|programming|python" (see ParseTriggers).
func NewTaskRouter(coordinator string, routes []Route, options ...RouterOption) (*TaskRouter, error) {
	if coordinator == "" {
		return nil, fmt.Errorf("router: empty coordinator")
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("router: at least one route is required")
	}
	ids := []string{coordinator}
	normalized := make([]Route, 0, len(routes))
	for _, route := range routes {
		ids = append(ids, route.Specialist)
		if len(route.Triggers) == 0 {
			return nil, fmt.Errorf("router: route %q has no triggers", route.Specialist)
		}
		var triggers []string
		for _, expr := range route.Triggers {
			keywords, err := ParseTriggers(expr)
			if err != nil {
				return nil, fmt.Errorf("router: route %q: %w", route.Specialist, err)
			}
			triggers = append(triggers, keywords...)
		}
		normalized = append(normalized, Route{Specialist: route.Specialist, Triggers: triggers})
	}
	if err := uniqueNonEmpty(ids); err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	ret := &TaskRouter{
		coordinator:   coordinator,
		routes:        normalized,
		fallback:      normalized[0].Specialist,
		maxRounds:     10,
		specialistCap: 2,
		window:        3,
	}
	for _, option := range options {
		option(ret)
	}
	if ret.maxRounds <= 0 || ret.specialistCap <= 0 || ret.window <= 0 {
		return nil, fmt.Errorf("router: maxRounds, specialistCap and window must be positive")
	}
	if !ret.isSpecialist(ret.fallback) {
		return nil, fmt.Errorf("router: fallback %q is not a registered specialist", ret.fallback)
	}
	return ret, nil
}

// Name implements Selector.
func (r *TaskRouter) Name() string { return "taskRouter" }

// Participants implements Selector.
func (r *TaskRouter) Participants() []string {
	ret := []string{r.coordinator}
	for _, route := range r.routes {
		ret = append(ret, route.Specialist)
	}
	return ret
}

// Next routes the conversation: the coordinator opens, specialists are
// picked by keyword match after each coordinator turn, control returns to
// the coordinator after each specialist turn, and the exchange ends once the
// specialist budget or the round ceiling is spent. Any unrecognised state
// terminates the conversation rather than crashing it.
func (r *TaskRouter) Next(snapshot *model.Snapshot) (string, error) {
	if snapshot.RoundIndex >= r.maxRounds {
		return "", nil
	}
	last := snapshot.LastSpeaker()
	if last == "" {
		return r.coordinator, nil
	}

	if last == r.coordinator {
		recent := snapshot.RecentText(r.window)
		for _, route := range r.routes {
			if matchesAny(recent, route.Triggers) {
				return route.Specialist, nil
			}
		}
		return r.fallback, nil
	}

	if r.isSpecialist(last) {
		if r.specialistTurns(snapshot) >= r.specialistCap {
			return "", nil
		}
		return r.coordinator, nil
	}

	return "", ErrUnexpectedState
}

func (r *TaskRouter) isSpecialist(id string) bool {
	for _, route := range r.routes {
		if route.Specialist == id {
			return true
		}
	}
	return false
}

func (r *TaskRouter) specialistTurns(snapshot *model.Snapshot) int {
	count := 0
	for _, route := range r.routes {
		count += snapshot.CountTurns(route.Specialist)
	}
	return count
}

func matchesAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
