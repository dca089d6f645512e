// Package operation holds the registry of gated operations: named handlers
// with a declared risk profile and an optional typed input.
package operation

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/viant/structology/conv"
	"github.com/viant/x"

	"github.com/colloquyhq/colloquy/policy"
)

// Handler executes an operation once it has been cleared by the gate. The
// input is either the raw argument map or, when the definition declares an
// input type, an instance of that type.
type Handler func(ctx context.Context, input interface{}) (interface{}, error)

// Definition describes a gated operation.
type Definition struct {
	Name        string
	Description string

	// Risk is the static risk level; RiskFunc, when set, derives the level
	// from the call arguments and takes precedence.
	Risk     policy.Risk
	RiskFunc policy.RiskFunc

	// Condition, when set, makes gating conditional: only calls for which
	// it returns true require approval. Nil means every call is gated.
	Condition policy.Condition

	// Timeout overrides the gate's default approval timeout when positive.
	Timeout time.Duration

	// Input, when set, declares the struct the argument map is converted
	// into before the handler runs.
	Input   *x.Type
	Handler Handler
}

// RiskFor resolves the effective risk level for a call.
func (d *Definition) RiskFor(args map[string]interface{}) policy.Risk {
	if d.RiskFunc != nil {
		return d.RiskFunc(args)
	}
	return d.Risk
}

// RequiresApproval reports whether a call with the given arguments has to go
// through the approval flow.
func (d *Definition) RequiresApproval(args map[string]interface{}) bool {
	if d.Condition == nil {
		return true
	}
	return d.Condition(args)
}

// Registry is a concurrency-safe catalogue of operation definitions with a
// shared type registry for declared inputs.
type Registry struct {
	mu         sync.RWMutex
	operations map[string]*Definition
	types      *x.Registry
	converter  *conv.Converter
}

// NewRegistry creates an empty operation registry.
func NewRegistry() *Registry {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true
	return &Registry{
		operations: make(map[string]*Definition),
		types:      x.NewRegistry(),
		converter:  conv.NewConverter(options),
	}
}

// Register adds a definition; registering the same name twice is an error.
func (r *Registry) Register(definition *Definition) error {
	if definition == nil || definition.Name == "" {
		return fmt.Errorf("operation definition was empty")
	}
	if definition.Handler == nil {
		return fmt.Errorf("operation %s had no handler", definition.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.operations[definition.Name]; ok {
		return fmt.Errorf("operation %s was already registered", definition.Name)
	}
	if definition.Input != nil {
		r.types.Register(definition.Input)
	}
	r.operations[definition.Name] = definition
	return nil
}

// MustRegister is Register that panics on error, for package-level wiring.
func (r *Registry) MustRegister(definition *Definition) {
	if err := r.Register(definition); err != nil {
		panic(err)
	}
}

// Lookup returns the definition for a name or an error when unknown.
func (r *Registry) Lookup(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	definition, ok := r.operations[name]
	if !ok {
		return nil, fmt.Errorf("unknown operation: %s", name)
	}
	return definition, nil
}

// Names lists the registered operation names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ret := make([]string, 0, len(r.operations))
	for name := range r.operations {
		ret = append(ret, name)
	}
	return ret
}

// ConvertInput maps the raw argument map onto the definition's declared
// input type. Without a declared type the map passes through unchanged.
func (r *Registry) ConvertInput(definition *Definition, args map[string]interface{}) (interface{}, error) {
	if definition.Input == nil {
		return args, nil
	}
	aType := definition.Input.Type
	if aType.Kind() == reflect.Ptr {
		aType = aType.Elem()
	}
	instance := reflect.New(aType).Interface()
	if err := r.converter.Convert(args, instance); err != nil {
		return nil, fmt.Errorf("failed to convert input for operation %s: %w", definition.Name, err)
	}
	return instance, nil
}
