package selector

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is the declarative, serialisable form of a selection policy. Kind
// picks the policy; exactly one of the policy sections must be populated.
type Config struct {
	Kind       string            `yaml:"kind" json:"kind"`
	RoundRobin *RoundRobinConfig `yaml:"roundRobin,omitempty" json:"roundRobin,omitempty"`
	Debate     *DebateConfig     `yaml:"debate,omitempty" json:"debate,omitempty"`
	TaskRouter *TaskRouterConfig `yaml:"taskRouter,omitempty" json:"taskRouter,omitempty"`
}

// RoundRobinConfig configures a RoundRobin selector.
type RoundRobinConfig struct {
	Rotation  []string `yaml:"rotation" json:"rotation"`
	MaxRounds int      `yaml:"maxRounds" json:"maxRounds"`
}

// DebateConfig configures a Debate selector.
type DebateConfig struct {
	Proponent string `yaml:"proponent" json:"proponent"`
	Opponent  string `yaml:"opponent" json:"opponent"`
	Moderator string `yaml:"moderator" json:"moderator"`
	TurnCap   int    `yaml:"turnCap" json:"turnCap"`
}

// RouteConfig configures a single specialist route. Triggers holds a trigger
// expression, e.g. "code|programming|python".
type RouteConfig struct {
	Specialist string `yaml:"specialist" json:"specialist"`
	Triggers   string `yaml:"triggers" json:"triggers"`
}

// TaskRouterConfig configures a TaskRouter selector. Zero values for
// Fallback, MaxRounds, SpecialistCap and Window inherit the package
// defaults.
type TaskRouterConfig struct {
	Coordinator   string        `yaml:"coordinator" json:"coordinator"`
	Routes        []RouteConfig `yaml:"routes" json:"routes"`
	Fallback      string        `yaml:"fallback,omitempty" json:"fallback,omitempty"`
	MaxRounds     int           `yaml:"maxRounds,omitempty" json:"maxRounds,omitempty"`
	SpecialistCap int           `yaml:"specialistCap,omitempty" json:"specialistCap,omitempty"`
	Window        int           `yaml:"window,omitempty" json:"window,omitempty"`
}

// New builds a Selector from its declarative configuration, failing fast on
// any malformed section.
func New(config *Config) (Selector, error) {
	if config == nil {
		return nil, fmt.Errorf("selector: nil config")
	}
	switch config.Kind {
	case "roundRobin":
		if config.RoundRobin == nil {
			return nil, fmt.Errorf("selector: missing roundRobin section")
		}
		return NewRoundRobin(config.RoundRobin.Rotation, config.RoundRobin.MaxRounds)
	case "debate":
		if config.Debate == nil {
			return nil, fmt.Errorf("selector: missing debate section")
		}
		c := config.Debate
		return NewDebate(c.Proponent, c.Opponent, c.Moderator, c.TurnCap)
	case "taskRouter":
		if config.TaskRouter == nil {
			return nil, fmt.Errorf("selector: missing taskRouter section")
		}
		c := config.TaskRouter
		routes := make([]Route, 0, len(c.Routes))
		for _, route := range c.Routes {
			routes = append(routes, Route{Specialist: route.Specialist, Triggers: []string{route.Triggers}})
		}
		var options []RouterOption
		if c.Fallback != "" {
			options = append(options, WithFallback(c.Fallback))
		}
		if c.MaxRounds > 0 {
			options = append(options, WithMaxRounds(c.MaxRounds))
		}
		if c.SpecialistCap > 0 {
			options = append(options, WithSpecialistCap(c.SpecialistCap))
		}
		if c.Window > 0 {
			options = append(options, WithWindow(c.Window))
		}
		return NewTaskRouter(c.Coordinator, routes, options...)
	default:
		return nil, fmt.Errorf("selector: unsupported kind: %q", config.Kind)
	}
}

// DecodeYAML decodes a YAML selector definition and builds the selector.
func DecodeYAML(data []byte) (Selector, error) {
	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("selector: failed to decode config: %w", err)
	}
	return New(config)
}
