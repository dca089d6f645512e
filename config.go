package colloquy

import (
	"fmt"
	"time"
)

// Config is a serialisable representation of the engine configuration. It
// can be populated from JSON or YAML. The zero-value is useful; all nested
// fields inherit their package defaults.
type Config struct {
	Approval   ApprovalConfig   `json:"approval" yaml:"approval"`
	Events     EventConfig      `json:"events" yaml:"events"`
	Transcript TranscriptConfig `json:"transcript" yaml:"transcript"`
}

// ApprovalConfig bounds the approval flow.
type ApprovalConfig struct {
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// EventConfig sizes the conversation event queue.
type EventConfig struct {
	QueueBuffer int `json:"queueBuffer" yaml:"queueBuffer"`
}

// TranscriptConfig locates transcript storage; an empty BaseURL disables
// transcript persistence.
type TranscriptConfig struct {
	BaseURL string `json:"baseURL" yaml:"baseURL"`
}

// DefaultConfig returns a Config populated with the package defaults.
// Callers may modify the returned struct before passing it to WithConfig.
func DefaultConfig() *Config {
	return &Config{
		Approval: ApprovalConfig{Timeout: 30 * time.Second},
		Events:   EventConfig{QueueBuffer: 100},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Approval.Timeout < 0 {
		return fmt.Errorf("approval.timeout must be >= 0")
	}
	if c.Events.QueueBuffer < 0 {
		return fmt.Errorf("events.queueBuffer must be >= 0")
	}
	return nil
}
