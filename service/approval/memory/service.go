package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/colloquyhq/colloquy/internal/clock"
	"github.com/colloquyhq/colloquy/internal/idgen"
	"github.com/colloquyhq/colloquy/service/approval"
	"github.com/colloquyhq/colloquy/service/dao"
	"github.com/colloquyhq/colloquy/service/dao/store"
	"github.com/colloquyhq/colloquy/service/messaging"
	qmem "github.com/colloquyhq/colloquy/service/messaging/memory"
)

type service struct {
	// DAO-backed stores
	reqDAO dao.Service[string, approval.Request]
	decDAO dao.Service[string, approval.Decision]

	// fan-out queue
	events messaging.Queue[approval.Event]
}

// key selectors – grab ID field
func reqKey(r *approval.Request) string  { return r.ID }
func decKey(d *approval.Decision) string { return d.ID }

// New creates an in-memory approval service.
func New(options ...Option) approval.Service {
	ret := &service{
		reqDAO: store.NewMemoryStore[string, approval.Request](reqKey),
		decDAO: store.NewMemoryStore[string, approval.Decision](decKey),
		events: qmem.NewQueue[approval.Event](qmem.DefaultConfig()),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (s *service) RequestApproval(ctx context.Context, r *approval.Request) error {
	if r == nil {
		return errors.New("invalid request")
	}

	// Ensure the request has a globally unique identifier so that a decision
	// can always be correlated back; protect against silent drops caused by
	// empty IDs.
	if r.ID == "" {
		r.ID = idgen.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = clock.Now()
	}

	// Idempotent save – overwrite any previous copy to handle re-submissions
	// gracefully.
	_ = s.reqDAO.Save(ctx, r)
	_ = s.events.Publish(ctx, &approval.Event{Topic: approval.TopicRequestCreated, Data: r})
	return nil
}

func (s *service) ListPending(ctx context.Context) ([]*approval.Request, error) {
	all, err := s.reqDAO.List(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]*approval.Request, 0, len(all))
	for _, r := range all {
		if d, _ := s.decDAO.Load(ctx, r.ID); d == nil {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

func (s *service) Decision(ctx context.Context, id string) (*approval.Decision, error) {
	if id == "" {
		return nil, errors.New("empty id")
	}
	return s.decDAO.Load(ctx, id)
}

func (s *service) Decide(ctx context.Context, id string, status approval.Status, decidedBy, reason string) (*approval.Decision, error) {
	if id == "" {
		return nil, errors.New("empty id")
	}
	if !status.Terminal() {
		return nil, fmt.Errorf("status %q is not terminal", status)
	}
	request, _ := s.reqDAO.Load(ctx, id)
	if request == nil {
		return nil, fmt.Errorf("request %s not found", id)
	}
	// A request transitions out of pending exactly once.
	if d, _ := s.decDAO.Load(ctx, id); d != nil {
		return nil, fmt.Errorf("request %s already decided", id)
	}

	d := &approval.Decision{
		ID:        id,
		Status:    status,
		DecidedBy: decidedBy,
		Reason:    reason,
		DecidedAt: clock.Now(),
	}
	_ = s.decDAO.Save(ctx, d)
	topic := approval.TopicDecisionCreated
	if status == approval.StatusTimedOut {
		topic = approval.TopicRequestExpired
	}
	_ = s.events.Publish(ctx, &approval.Event{Topic: topic, Data: d})
	return d, nil
}

func (s *service) Queue() messaging.Queue[approval.Event] { return s.events }

var _ approval.Service = (*service)(nil)
