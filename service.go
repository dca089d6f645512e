package colloquy

import (
	"time"

	"github.com/viant/afs"

	"github.com/colloquyhq/colloquy/model"
	"github.com/colloquyhq/colloquy/roster"
	"github.com/colloquyhq/colloquy/service/approval"
	amemory "github.com/colloquyhq/colloquy/service/approval/memory"
	"github.com/colloquyhq/colloquy/service/audit"
	"github.com/colloquyhq/colloquy/service/dao"
	"github.com/colloquyhq/colloquy/service/dao/store"
	"github.com/colloquyhq/colloquy/service/event"
	"github.com/colloquyhq/colloquy/service/gate"
	mmemory "github.com/colloquyhq/colloquy/service/messaging/memory"
	"github.com/colloquyhq/colloquy/service/operation"
	"github.com/colloquyhq/colloquy/transcript"
)

// Service is the engine façade wiring rosters, selectors, the approval gate
// and conversation persistence together.
type Service struct {
	runtime         *Runtime
	approvalService approval.Service
	auditLog        *audit.Log
	operations      *operation.Registry
	gateService     *gate.Service
	agents          *roster.Roster
	eventService    *event.Service
	approvalTimeout time.Duration
	transcriptURL   string
	config          *Config
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()
	s.gateService = gate.New(s.approvalService, s.auditLog, s.operations, s.approvalTimeout)
	s.runtime.roster = s.agents
	s.runtime.events = s.eventService
	if s.runtime.transcripts == nil && s.transcriptURL != "" {
		s.runtime.transcripts = transcript.New(afs.New(), s.transcriptURL)
	}
}

func (s *Service) ensureBaseSetup() {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.agents == nil {
		s.agents = roster.New()
	}
	if s.approvalService == nil {
		s.approvalService = amemory.New()
	}
	if s.auditLog == nil {
		s.auditLog = audit.NewLog()
	}
	if s.operations == nil {
		s.operations = operation.NewRegistry()
	}
	if s.approvalTimeout <= 0 {
		s.approvalTimeout = s.config.Approval.Timeout
	}
	if s.eventService == nil {
		config := mmemory.DefaultConfig()
		if s.config.Events.QueueBuffer > 0 {
			config.QueueBuffer = s.config.Events.QueueBuffer
		}
		s.eventService = event.New(config)
	}
	if s.transcriptURL == "" {
		s.transcriptURL = s.config.Transcript.BaseURL
	}
	if s.runtime.conversationDAO == nil {
		s.runtime.conversationDAO = store.NewMemoryStore[string, model.Conversation](
			func(c *model.Conversation) string { return c.ID })
	}
}

// Runtime returns the conversation runtime.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// Gate returns the approval gate for executing sensitive operations.
func (s *Service) Gate() *gate.Service {
	return s.gateService
}

// Approvals returns the approval service, e.g. to attach an auto decider or
// a human review loop.
func (s *Service) Approvals() approval.Service {
	return s.approvalService
}

// Audit returns the decision audit log.
func (s *Service) Audit() *audit.Log {
	return s.auditLog
}

// Roster returns the agent registry.
func (s *Service) Roster() *roster.Roster {
	return s.agents
}

// Events returns the conversation event bus.
func (s *Service) Events() *event.Service {
	return s.eventService
}

// RegisterAgents adds agents to the roster.
func (s *Service) RegisterAgents(agents ...roster.Agent) error {
	for _, agent := range agents {
		if err := s.agents.Register(agent); err != nil {
			return err
		}
	}
	return nil
}

// RegisterOperations adds gated operation definitions.
func (s *Service) RegisterOperations(definitions ...*operation.Definition) error {
	for _, definition := range definitions {
		if err := s.operations.Register(definition); err != nil {
			return err
		}
	}
	return nil
}

// ConversationDAO exposes the conversation store, mostly for tests.
func (s *Service) ConversationDAO() dao.Service[string, model.Conversation] {
	return s.runtime.conversationDAO
}

// New creates an engine service with the supplied options; omitted
// dependencies fall back to in-memory defaults.
func New(options ...Option) *Service {
	ret := &Service{runtime: &Runtime{}}
	ret.init(options)
	return ret
}
