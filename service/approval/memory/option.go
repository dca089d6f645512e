package memory

import (
	"github.com/colloquyhq/colloquy/service/approval"
	"github.com/colloquyhq/colloquy/service/dao"
	"github.com/colloquyhq/colloquy/service/messaging"
)

type Option func(*service)

// WithRequestDAO substitutes the pending request store, e.g. to persist
// requests across restarts.
func WithRequestDAO(dao dao.Service[string, approval.Request]) Option {
	return func(s *service) { s.reqDAO = dao }
}

// WithDecisionDAO substitutes the decision store.
func WithDecisionDAO(dao dao.Service[string, approval.Decision]) Option {
	return func(s *service) { s.decDAO = dao }
}

// WithEventQueue substitutes the lifecycle event queue, e.g. to share a
// single fan-out across services.
func WithEventQueue(q messaging.Queue[approval.Event]) Option {
	return func(s *service) { s.events = q }
}
