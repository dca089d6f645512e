package approval

import (
	"context"

	"github.com/colloquyhq/colloquy/service/messaging"
)

// Service defines the approval service interface.
type Service interface {
	// RequestApproval registers a pending request and publishes a
	// request.created event.
	RequestApproval(ctx context.Context, r *Request) error

	// ListPending returns every request without a recorded decision.
	ListPending(ctx context.Context) ([]*Request, error)

	// Decision returns the recorded decision for a request, or nil while the
	// request is still pending.
	Decision(ctx context.Context, id string) (*Decision, error)

	// Decide records a terminal decision for a pending request. Deciding an
	// unknown or already decided request is an error.
	Decide(ctx context.Context, id string, status Status, decidedBy, reason string) (*Decision, error)

	// Queue exposes the lifecycle event fan-out.
	Queue() messaging.Queue[Event]
}
