package approval

import (
	"time"

	"github.com/colloquyhq/colloquy/policy"
)

// Status captures the lifecycle of an approval request. A request starts
// pending and transitions exactly once to one of the terminal values.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusTimedOut Status = "timedOut"
)

// Terminal reports whether the status is a final one.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusTimedOut
}

// Event envelope published on the service queue for every lifecycle change.
type Event struct {
	Topic   string            // see topic constants below
	Data    interface{}       // *Request | *Decision
	Headers map[string]string `json:"headers,omitempty"` // optional – tenant, correlation-id etc.
}

// Standard event topics.
const (
	TopicRequestCreated  = "request.created"
	TopicDecisionCreated = "decision.created"
	TopicRequestExpired  = "request.expired"
)

// Request represents a request for human confirmation of a side-effecting
// operation.
type Request struct {
	ID             string                 `json:"id"`                       // globally unique, primary key
	ConversationID string                 `json:"conversationId,omitempty"` // optional link to the owning conversation
	Operation      string                 `json:"operation"`                // gated operation name
	Args           map[string]interface{} `json:"args,omitempty"`           // concrete input parameters, for audit/display
	Description    string                 `json:"description,omitempty"`    // human-readable explanation of intent
	Risk           policy.Risk            `json:"risk"`                     // low / medium / high
	CreatedAt      time.Time              `json:"createdAt"`                // RFC-3339 timestamp
	ExpiresAt      *time.Time             `json:"expiresAt,omitempty"`      // optional deadline
}

// Decision represents the terminal resolution of a request. ID matches the
// request's ID.
type Decision struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"` // approved / rejected / timedOut
	DecidedBy string    `json:"decidedBy,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	DecidedAt time.Time `json:"decidedAt"`
}

// Approved reports whether the decision permits execution.
func (d *Decision) Approved() bool {
	return d != nil && d.Status == StatusApproved
}
