package approval_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/colloquyhq/colloquy/service/approval"
	memApproval "github.com/colloquyhq/colloquy/service/approval/memory"
)

// TestWaitForDecision verifies that WaitForDecision blocks until a decision
// is recorded and that an unattended request resolves to timedOut rather
// than rejected.
func TestWaitForDecision(t *testing.T) {
	type testCase struct {
		name        string
		decide      *approval.Status // nil = never decided
		decideDelay time.Duration
		timeout     time.Duration
		expected    approval.Status
	}

	approved := approval.StatusApproved
	rejected := approval.StatusRejected

	tests := []testCase{{
		name:        "approved before timeout",
		decide:      &approved,
		decideDelay: 10 * time.Millisecond,
		timeout:     500 * time.Millisecond,
		expected:    approval.StatusApproved,
	}, {
		name:        "rejected before timeout",
		decide:      &rejected,
		decideDelay: 10 * time.Millisecond,
		timeout:     500 * time.Millisecond,
		expected:    approval.StatusRejected,
	}, {
		name:     "timeout waiting for decision",
		decide:   nil,
		timeout:  60 * time.Millisecond,
		expected: approval.StatusTimedOut,
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			svc := memApproval.New()

			req := &approval.Request{
				ID:        "req-1",
				Operation: "deleteUser",
				Args:      map[string]interface{}{"userId": "u-42"},
			}
			assert.NoError(t, svc.RequestApproval(ctx, req))

			if tc.decide != nil {
				status := *tc.decide
				go func() {
					time.Sleep(tc.decideDelay)
					_, _ = svc.Decide(ctx, req.ID, status, "tester", "")
				}()
			}

			decision, err := approval.WaitForDecision(ctx, svc, req.ID, tc.timeout)
			assert.NoError(t, err)
			if !assert.NotNil(t, decision) {
				return
			}
			assert.Equal(t, tc.expected, decision.Status)
			assert.Equal(t, req.ID, decision.ID)
		})
	}
}

// TestDecideOnce verifies the single pending -> terminal transition.
func TestDecideOnce(t *testing.T) {
	ctx := context.Background()
	svc := memApproval.New()

	req := &approval.Request{ID: "req-2", Operation: "transferMoney"}
	assert.NoError(t, svc.RequestApproval(ctx, req))

	pending, err := svc.ListPending(ctx)
	assert.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = svc.Decide(ctx, req.ID, approval.StatusApproved, "tester", "looks fine")
	assert.NoError(t, err)

	// Second transition must fail.
	_, err = svc.Decide(ctx, req.ID, approval.StatusRejected, "tester", "changed my mind")
	assert.Error(t, err)

	// The decision itself stays immutable.
	decision, err := svc.Decision(ctx, req.ID)
	assert.NoError(t, err)
	assert.Equal(t, approval.StatusApproved, decision.Status)
	assert.Equal(t, "tester", decision.DecidedBy)

	pending, err = svc.ListPending(ctx)
	assert.NoError(t, err)
	assert.Empty(t, pending)
}

// TestDecideValidation covers unknown ids and non-terminal statuses.
func TestDecideValidation(t *testing.T) {
	ctx := context.Background()
	svc := memApproval.New()

	_, err := svc.Decide(ctx, "missing", approval.StatusApproved, "tester", "")
	assert.Error(t, err)

	req := &approval.Request{ID: "req-3", Operation: "uploadFile"}
	assert.NoError(t, svc.RequestApproval(ctx, req))
	_, err = svc.Decide(ctx, req.ID, approval.StatusPending, "tester", "")
	assert.Error(t, err)
}

// TestAutoDecider verifies the scripted approver resolves pending requests.
func TestAutoDecider(t *testing.T) {
	ctx := context.Background()
	svc := memApproval.New()

	stop := approval.AutoDecider(ctx, svc, func(r *approval.Request) (approval.Status, string) {
		if r.Operation == "deleteUser" {
			return approval.StatusRejected, "destructive"
		}
		return approval.StatusApproved, ""
	}, 5*time.Millisecond)
	defer stop()

	assert.NoError(t, svc.RequestApproval(ctx, &approval.Request{ID: "del", Operation: "deleteUser"}))
	assert.NoError(t, svc.RequestApproval(ctx, &approval.Request{ID: "read", Operation: "listUsers"}))

	deleted, err := approval.WaitForDecision(ctx, svc, "del", time.Second)
	assert.NoError(t, err)
	assert.Equal(t, approval.StatusRejected, deleted.Status)

	listed, err := approval.WaitForDecision(ctx, svc, "read", time.Second)
	assert.NoError(t, err)
	assert.Equal(t, approval.StatusApproved, listed.Status)
}
