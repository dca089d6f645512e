package audit

import (
	"sync"
	"time"

	"github.com/colloquyhq/colloquy/policy"
	"github.com/colloquyhq/colloquy/service/approval"
)

// Entry is one resolved approval decision together with the execution
// outcome of the gated operation. Entries are immutable once recorded.
type Entry struct {
	RequestID      string                 `json:"requestId"`
	ConversationID string                 `json:"conversationId,omitempty"`
	Operation      string                 `json:"operation"`
	Args           map[string]interface{} `json:"args,omitempty"`
	Description    string                 `json:"description,omitempty"`
	Risk           policy.Risk            `json:"risk"`
	Status         approval.Status        `json:"status"`
	DecidedBy      string                 `json:"decidedBy,omitempty"`
	Reason         string                 `json:"reason,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
	DecidedAt      time.Time              `json:"decidedAt"`

	// Executed reports whether the underlying operation ran; an approved
	// entry with Executed=true and a non-empty Error is an operation that
	// failed after approval – distinct from a rejected one.
	Executed bool   `json:"executed"`
	Error    string `json:"error,omitempty"`
}

// NewEntry builds an entry from a resolved request/decision pair.
func NewEntry(request *approval.Request, decision *approval.Decision) *Entry {
	ret := &Entry{
		RequestID:      request.ID,
		ConversationID: request.ConversationID,
		Operation:      request.Operation,
		Args:           request.Args,
		Description:    request.Description,
		Risk:           request.Risk,
		CreatedAt:      request.CreatedAt,
	}
	if decision != nil {
		ret.Status = decision.Status
		ret.DecidedBy = decision.DecidedBy
		ret.Reason = decision.Reason
		ret.DecidedAt = decision.DecidedAt
	}
	return ret
}

// Log is an append-only, insertion-ordered sequence of entries. Appends are
// serialised so that concurrent gated operations keep a deterministic order;
// reads work on a consistent copy.
type Log struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewLog creates an empty audit log.
func NewLog() *Log {
	return &Log{}
}

// Record appends a resolved entry. Each request resolves exactly once by
// construction, so no deduplication is attempted.
func (l *Log) Record(entry *Entry) {
	if entry == nil {
		return
	}
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Recent returns the last n entries in insertion order. n larger than the
// log returns everything.
func (l *Log) Recent(n int) []*Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 {
		return nil
	}
	from := len(l.entries) - n
	if from < 0 {
		from = 0
	}
	return append([]*Entry(nil), l.entries[from:]...)
}

// Entries returns a copy of the full log in insertion order.
func (l *Log) Entries() []*Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]*Entry(nil), l.entries...)
}
