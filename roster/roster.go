// Package roster registers the agents taking part in a conversation and
// resolves selector decisions to concrete responders.
package roster

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/colloquyhq/colloquy/model"
)

// Agent produces one turn of conversation when asked to speak.
type Agent interface {
	// ID is the unique participant identifier selectors decide over.
	ID() string

	// Role is a free-form description shown to other participants.
	Role() string

	// Respond produces the agent's contribution given the conversation so
	// far.
	Respond(ctx context.Context, snapshot *model.Snapshot) (string, error)
}

// AgentFunc adapts a plain function into an Agent.
type AgentFunc struct {
	AgentID   string
	AgentRole string
	Fn        func(ctx context.Context, snapshot *model.Snapshot) (string, error)
}

// NewAgentFunc builds a function-backed agent.
func NewAgentFunc(id, role string, fn func(ctx context.Context, snapshot *model.Snapshot) (string, error)) *AgentFunc {
	return &AgentFunc{AgentID: id, AgentRole: role, Fn: fn}
}

func (a *AgentFunc) ID() string   { return a.AgentID }
func (a *AgentFunc) Role() string { return a.AgentRole }

func (a *AgentFunc) Respond(ctx context.Context, snapshot *model.Snapshot) (string, error) {
	return a.Fn(ctx, snapshot)
}

// Roster is a concurrency-safe agent registry.
type Roster struct {
	mu     sync.RWMutex
	agents map[string]Agent
}

// New creates a roster, registering any supplied agents; duplicate ids
// panic, matching the package-level wiring style of MustRegister.
func New(agents ...Agent) *Roster {
	ret := &Roster{agents: make(map[string]Agent)}
	for _, agent := range agents {
		if err := ret.Register(agent); err != nil {
			panic(err)
		}
	}
	return ret
}

// Register adds an agent; a duplicate or empty id is an error.
func (r *Roster) Register(agent Agent) error {
	if agent == nil || agent.ID() == "" {
		return fmt.Errorf("agent had no id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.agents[agent.ID()]; ok {
		return fmt.Errorf("agent %s was already registered", agent.ID())
	}
	r.agents[agent.ID()] = agent
	return nil
}

// Lookup returns the agent for an id.
func (r *Roster) Lookup(id string) (Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	agent, ok := r.agents[id]
	if !ok {
		return nil, fmt.Errorf("unknown agent: %s", id)
	}
	return agent, nil
}

// Has reports whether an agent with the id is registered.
func (r *Roster) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.agents[id]
	return ok
}

// Participants returns the id to role mapping used in snapshots.
func (r *Roster) Participants() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ret := make(map[string]string, len(r.agents))
	for id, agent := range r.agents {
		ret[id] = agent.Role()
	}
	return ret
}

// IDs returns the sorted agent ids.
func (r *Roster) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ret := make([]string, 0, len(r.agents))
	for id := range r.agents {
		ret = append(ret, id)
	}
	sort.Strings(ret)
	return ret
}
