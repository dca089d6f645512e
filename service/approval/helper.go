package approval

import (
	"context"
	"fmt"
	"time"

	"github.com/colloquyhq/colloquy/internal/clock"
)

// WaitForDecision blocks until a decision is recorded for the request or the
// timeout elapses, polling the service at a short interval. On timeout the
// request is resolved to StatusTimedOut on the caller's behalf so that the
// audit trail distinguishes unattended requests from rejected ones. Timeout
// is a normal outcome, not an error; errors indicate the wait itself failed
// (cancelled context, unknown request).
func WaitForDecision(ctx context.Context, svc Service, id string, timeout time.Duration) (*Decision, error) {
	const pollInterval = 20 * time.Millisecond

	deadline := clock.Now().Add(timeout)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		decision, err := svc.Decision(ctx, id)
		if err != nil {
			return nil, err
		}
		if decision != nil {
			return decision, nil
		}
		if !clock.Now().Before(deadline) {
			decision, err = svc.Decide(ctx, id, StatusTimedOut, "system", fmt.Sprintf("no decision within %s", timeout))
			if err != nil {
				// A decision raced the deadline; prefer it over the timeout.
				if decision, derr := svc.Decision(ctx, id); derr == nil && decision != nil {
					return decision, nil
				}
				return nil, err
			}
			return decision, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// DecisionFunc decides what to do with a pending request.
type DecisionFunc func(r *Request) (status Status, reason string)

// AutoDecider starts a goroutine that polls ListPending and applies fn to
// every request. It returns stop() – call it (or cancel ctx) to exit.
func AutoDecider(ctx context.Context, svc Service, fn DecisionFunc, interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				requests, _ := svc.ListPending(ctx)
				for _, r := range requests {
					status, reason := fn(r)
					if !status.Terminal() {
						continue
					}
					_, _ = svc.Decide(ctx, r.ID, status, "auto", reason)
				}
			}
		}
	}()
	return func() { close(done) }
}

// AutoApprove automatically approves all pending requests.
func AutoApprove(ctx context.Context, svc Service, interval time.Duration) func() {
	return AutoDecider(ctx, svc,
		func(*Request) (Status, string) { return StatusApproved, "" }, interval)
}

// AutoReject automatically rejects all pending requests with the given reason.
func AutoReject(ctx context.Context, svc Service, reason string, interval time.Duration) func() {
	return AutoDecider(ctx, svc,
		func(*Request) (Status, string) { return StatusRejected, reason }, interval)
}
