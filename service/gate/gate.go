// Package gate runs registered operations behind the approval flow: it
// decides per call whether approval is required, waits for the decision and
// records every gated call in the audit log.
package gate

import (
	"context"
	"fmt"
	"time"

	"github.com/colloquyhq/colloquy/policy"
	"github.com/colloquyhq/colloquy/service/approval"
	"github.com/colloquyhq/colloquy/service/audit"
	"github.com/colloquyhq/colloquy/service/operation"
	"github.com/colloquyhq/colloquy/tracing"
)

// DefaultTimeout bounds how long a gated call waits for a decision when
// neither the gate nor the operation overrides it.
const DefaultTimeout = 30 * time.Second

// Outcome reports how a gated call resolved. Result and Err are only set
// when the operation actually executed.
type Outcome struct {
	Operation string
	RequestID string
	Status    approval.Status
	DecidedBy string
	Reason    string

	// Auto reports the call skipped the approval flow (condition not met or
	// policy mode never).
	Auto   bool
	Result interface{}
	Err    error
}

// Denied reports whether the call was stopped before execution.
func (o *Outcome) Denied() bool {
	return o.Status == approval.StatusRejected || o.Status == approval.StatusTimedOut
}

// Service gates operation execution on approval decisions.
type Service struct {
	approvals  approval.Service
	auditLog   *audit.Log
	operations *operation.Registry
	timeout    time.Duration
}

// New creates a gate over the supplied approval service, audit log and
// operation registry.
func New(approvals approval.Service, auditLog *audit.Log, operations *operation.Registry, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		approvals:  approvals,
		auditLog:   auditLog,
		operations: operations,
		timeout:    timeout,
	}
}

// Operations exposes the registry for wiring additional definitions.
func (s *Service) Operations() *operation.Registry {
	return s.operations
}

// Run executes the named operation with the given arguments, requesting
// approval first whenever the definition or the ambient policy demands it.
// The operation executes at most once, and only after an approved decision.
// Denials resolve in the returned Outcome, not in the error.
func (s *Service) Run(ctx context.Context, name string, args map[string]interface{}) (*Outcome, error) {
	definition, err := s.operations.Lookup(name)
	if err != nil {
		return nil, err
	}
	ctx, span := tracing.StartSpan(ctx, "gate.run", "INTERNAL")
	span.WithAttributes(map[string]string{"operation": name})
	outcome, err := s.run(ctx, definition, args)
	tracing.EndSpan(span, err)
	return outcome, err
}

func (s *Service) run(ctx context.Context, definition *operation.Definition, args map[string]interface{}) (*Outcome, error) {
	risk := definition.RiskFor(args)
	pol := policy.FromContext(ctx)

	// Policy block list and deny mode stop the call outright, with an audit
	// record so denied attempts stay visible.
	if pol != nil && (pol.Mode == policy.ModeDeny || !pol.IsAllowed(definition.Name)) {
		outcome := &Outcome{
			Operation: definition.Name,
			Status:    approval.StatusRejected,
			DecidedBy: "policy",
			Reason:    "denied by policy",
		}
		s.record(definition, args, risk, outcome, false, nil)
		return outcome, nil
	}

	gated := definition.RequiresApproval(args)
	switch {
	case pol != nil && pol.Mode == policy.ModeNever:
		gated = false
	case pol != nil && pol.Mode == policy.ModeAlways:
		gated = true
	}

	if !gated {
		result, execErr := s.execute(ctx, definition, args)
		return &Outcome{
			Operation: definition.Name,
			Status:    approval.StatusApproved,
			DecidedBy: "auto",
			Auto:      true,
			Result:    result,
			Err:       execErr,
		}, nil
	}

	request := &approval.Request{
		Operation:   definition.Name,
		Args:        args,
		Description: definition.Description,
		Risk:        risk,
	}
	if err := s.approvals.RequestApproval(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to request approval for %s: %w", definition.Name, err)
	}

	timeout := s.timeout
	if definition.Timeout > 0 {
		timeout = definition.Timeout
	}
	decision, err := approval.WaitForDecision(ctx, s.approvals, request.ID, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve approval for %s: %w", definition.Name, err)
	}

	outcome := &Outcome{
		Operation: definition.Name,
		RequestID: request.ID,
		Status:    decision.Status,
		DecidedBy: decision.DecidedBy,
		Reason:    decision.Reason,
	}
	if decision.Approved() {
		outcome.Result, outcome.Err = s.execute(ctx, definition, args)
	}
	s.recordDecision(request, decision, outcome)
	return outcome, nil
}

func (s *Service) execute(ctx context.Context, definition *operation.Definition, args map[string]interface{}) (interface{}, error) {
	input, err := s.operations.ConvertInput(definition, args)
	if err != nil {
		return nil, err
	}
	return definition.Handler(ctx, input)
}

func (s *Service) record(definition *operation.Definition, args map[string]interface{}, risk policy.Risk, outcome *Outcome, executed bool, execErr error) {
	if s.auditLog == nil {
		return
	}
	entry := &audit.Entry{
		RequestID: outcome.RequestID,
		Operation: definition.Name,
		Args:      args,
		Risk:      risk,
		Status:    outcome.Status,
		DecidedBy: outcome.DecidedBy,
		Reason:    outcome.Reason,
		Executed:  executed,
	}
	if execErr != nil {
		entry.Error = execErr.Error()
	}
	s.auditLog.Record(entry)
}

func (s *Service) recordDecision(request *approval.Request, decision *approval.Decision, outcome *Outcome) {
	if s.auditLog == nil {
		return
	}
	entry := audit.NewEntry(request, decision)
	entry.Executed = decision.Approved()
	if outcome.Err != nil {
		entry.Error = outcome.Err.Error()
	}
	s.auditLog.Record(entry)
}
