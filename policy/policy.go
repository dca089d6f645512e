package policy

import (
	"context"
	"fmt"
	"strings"
)

// Execution modes recognised by the approval gate.
const (
	ModeAlways = "always" // gate every operation regardless of its own configuration
	ModeNever  = "never"  // execute automatically, never ask
	ModeDeny   = "deny"   // block execution outright
)

// Risk classifies how sensitive a gated operation is. Higher values imply
// stricter handling.
type Risk int

const (
	RiskLow Risk = iota
	RiskMedium
	RiskHigh
)

var riskNames = map[Risk]string{RiskLow: "low", RiskMedium: "medium", RiskHigh: "high"}

// String returns the lower-case risk name.
func (r Risk) String() string {
	if name, ok := riskNames[r]; ok {
		return name
	}
	return fmt.Sprintf("risk(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r Risk) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Risk) UnmarshalText(data []byte) error {
	parsed, err := ParseRisk(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRisk converts a textual risk level into Risk.
func ParseRisk(text string) (Risk, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "low":
		return RiskLow, nil
	case "medium", "":
		return RiskMedium, nil
	case "high":
		return RiskHigh, nil
	}
	return RiskLow, fmt.Errorf("unknown risk level: %q", text)
}

// Condition decides per call whether gating applies, based on the concrete
// operation arguments. A nil Condition means the operation is always gated.
type Condition func(args map[string]interface{}) bool

// RiskFunc derives the risk level from the concrete operation arguments,
// e.g. amount-based tiers. A nil RiskFunc keeps the operation's static risk.
type RiskFunc func(args map[string]interface{}) Risk

// Policy represents the per-run gating settings.
//
//   - Mode controls the high-level behaviour (always / never / deny); an
//     empty Mode defers to each operation's own configuration.
//   - AllowList, BlockList allow coarse filtering regardless of Mode.
//
// A nil *Policy means "follow the operation configuration" and is therefore
// the zero-cost default.
type Policy struct {
	Mode      string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// IsAllowed evaluates AllowList / BlockList. Both lists match by exact,
// case-insensitive comparison of the operation name.
func (p *Policy) IsAllowed(operation string) bool {
	if p == nil {
		return true
	}

	normalized := strings.ToLower(operation)

	// BlockList has priority.
	for _, blocked := range p.BlockList {
		if normalized == strings.ToLower(blocked) {
			return false
		}
	}

	// AllowList – if empty everything is allowed, otherwise only the listed
	// entries.
	if len(p.AllowList) == 0 {
		return true
	}
	for _, allowed := range p.AllowList {
		if normalized == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the *Policy or nil.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
