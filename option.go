package colloquy

import (
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/colloquyhq/colloquy/model"
	"github.com/colloquyhq/colloquy/roster"
	"github.com/colloquyhq/colloquy/service/approval"
	"github.com/colloquyhq/colloquy/service/audit"
	"github.com/colloquyhq/colloquy/service/dao"
	"github.com/colloquyhq/colloquy/service/event"
	"github.com/colloquyhq/colloquy/service/operation"
	"github.com/colloquyhq/colloquy/tracing"
	"github.com/colloquyhq/colloquy/transcript"
)

// Option customises the engine service.
type Option func(s *Service)

// WithConfig applies a full engine configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithApprovalService sets the approval service.
func WithApprovalService(svc approval.Service) Option {
	return func(s *Service) { s.approvalService = svc }
}

// WithAuditLog sets the audit log.
func WithAuditLog(log *audit.Log) Option {
	return func(s *Service) { s.auditLog = log }
}

// WithRoster sets the agent registry.
func WithRoster(r *roster.Roster) Option {
	return func(s *Service) { s.agents = r }
}

// WithAgents registers agents on a fresh roster.
func WithAgents(agents ...roster.Agent) Option {
	return func(s *Service) { s.agents = roster.New(agents...) }
}

// WithOperationRegistry sets the gated operation registry.
func WithOperationRegistry(registry *operation.Registry) Option {
	return func(s *Service) { s.operations = registry }
}

// WithOperations registers gated operation definitions; invalid definitions
// panic, matching package-level wiring.
func WithOperations(definitions ...*operation.Definition) Option {
	return func(s *Service) {
		if s.operations == nil {
			s.operations = operation.NewRegistry()
		}
		for _, definition := range definitions {
			s.operations.MustRegister(definition)
		}
	}
}

// WithApprovalTimeout bounds how long gated calls wait for a decision.
func WithApprovalTimeout(timeout time.Duration) Option {
	return func(s *Service) { s.approvalTimeout = timeout }
}

// WithEventService sets the conversation event bus.
func WithEventService(service *event.Service) Option {
	return func(s *Service) { s.eventService = service }
}

// WithConversationDAO sets the conversation store.
func WithConversationDAO(dao dao.Service[string, model.Conversation]) Option {
	return func(s *Service) { s.runtime.conversationDAO = dao }
}

// WithTranscripts enables transcript persistence under the base URL.
func WithTranscripts(baseURL string) Option {
	return func(s *Service) { s.transcriptURL = baseURL }
}

// WithTranscriptStore sets a preconfigured transcript store.
func WithTranscriptStore(store *transcript.Store) Option {
	return func(s *Service) { s.runtime.transcripts = store }
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile
// is empty the stdout exporter is used; otherwise traces are written to the
// supplied file path. Safe to call multiple times; the first successful
// initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter, for example OTLP, Jaeger or Zipkin. Safe to call multiple
// times; the first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
