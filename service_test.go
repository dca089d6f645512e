package colloquy_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/colloquyhq/colloquy"
	"github.com/colloquyhq/colloquy/model"
	"github.com/colloquyhq/colloquy/roster"
	"github.com/colloquyhq/colloquy/selector"
	"github.com/colloquyhq/colloquy/service/approval"
	"github.com/colloquyhq/colloquy/service/operation"
)

func scriptedAgent(id, role, text string) roster.Agent {
	return roster.NewAgentFunc(id, role, func(ctx context.Context, snapshot *model.Snapshot) (string, error) {
		return text, nil
	})
}

func TestRunConversationRoundRobin(t *testing.T) {
	srv := colloquy.New(
		colloquy.WithAgents(
			scriptedAgent("researcher", "finds facts", "the market is crowded"),
			scriptedAgent("analyst", "weighs options", "margins look thin"),
			scriptedAgent("writer", "drafts text", "here is the summary"),
		),
		colloquy.WithTranscripts("mem://localhost/colloquy/transcripts"),
	)

	sel, err := selector.NewRoundRobin([]string{"researcher", "analyst", "writer"}, 6)
	assert.NoError(t, err)

	ctx := context.Background()
	conversation, err := srv.Runtime().RunConversation(ctx, "plan the launch", sel)
	assert.NoError(t, err)
	assert.NotNil(t, conversation.EndedAt)
	assert.Len(t, conversation.Turns, 6)
	assert.Equal(t, "researcher", conversation.Turns[0].Speaker)
	assert.Equal(t, "writer", conversation.Turns[5].Speaker)

	// The conversation is persisted and reloadable.
	stored, err := srv.Runtime().Conversation(ctx, conversation.ID)
	assert.NoError(t, err)
	assert.Equal(t, 6, stored.RoundIndex())

	// The transcript landed in the store.
	ok, err := srv.Runtime().Transcripts().Exists(ctx, conversation.ID)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestRunConversationDebate(t *testing.T) {
	srv := colloquy.New(colloquy.WithAgents(
		scriptedAgent("optimist", "argues for", "it will work"),
		scriptedAgent("pessimist", "argues against", "it will not"),
		scriptedAgent("moderator", "synthesises", "both raise fair points"),
	))

	sel, err := selector.NewDebate("optimist", "pessimist", "moderator", 2)
	assert.NoError(t, err)

	conversation, err := srv.Runtime().RunConversation(context.Background(), "should we rewrite", sel)
	assert.NoError(t, err)

	speakers := make([]string, 0, len(conversation.Turns))
	for _, turn := range conversation.Turns {
		speakers = append(speakers, turn.Speaker)
	}
	assert.Equal(t, []string{"optimist", "pessimist", "optimist", "pessimist", "moderator"}, speakers)
}

func TestRunConversationFailsFastOnUnknownAgent(t *testing.T) {
	srv := colloquy.New(colloquy.WithAgents(
		scriptedAgent("researcher", "finds facts", "facts"),
	))

	sel, err := selector.NewRoundRobin([]string{"researcher", "ghost"}, 4)
	assert.NoError(t, err)

	_, err = srv.Runtime().RunConversation(context.Background(), "task", sel)
	assert.ErrorContains(t, err, "ghost")
}

func TestRunConversationAgentFailure(t *testing.T) {
	failing := roster.NewAgentFunc("flaky", "fails", func(ctx context.Context, snapshot *model.Snapshot) (string, error) {
		return "", errors.New("model unavailable")
	})
	srv := colloquy.New(colloquy.WithAgents(failing))

	sel, err := selector.NewRoundRobin([]string{"flaky"}, 3)
	assert.NoError(t, err)

	conversation, err := srv.Runtime().RunConversation(context.Background(), "task", sel)
	assert.ErrorContains(t, err, "model unavailable")
	// The conversation record survives for inspection even on failure.
	assert.NotNil(t, conversation)
	assert.NotNil(t, conversation.EndedAt)
}

func TestGatedOperationThroughFacade(t *testing.T) {
	srv := colloquy.New(
		colloquy.WithApprovalTimeout(time.Second),
		colloquy.WithOperations(&operation.Definition{
			Name:        "transferMoney",
			Description: "moves funds between accounts",
			Condition: func(args map[string]interface{}) bool {
				amount, _ := args["amount"].(float64)
				return amount > 100
			},
			Handler: func(ctx context.Context, input interface{}) (interface{}, error) {
				return "transferred", nil
			},
		}),
	)

	stop := approval.AutoDecider(context.Background(), srv.Approvals(), func(r *approval.Request) (approval.Status, string) {
		return approval.StatusApproved, "within budget"
	}, 5*time.Millisecond)
	defer stop()

	// Small amount: no approval round trip, no audit entry.
	outcome, err := srv.Gate().Run(context.Background(), "transferMoney", map[string]interface{}{"amount": 50.0})
	assert.NoError(t, err)
	assert.True(t, outcome.Auto)
	assert.Equal(t, 0, srv.Audit().Len())

	// Large amount: gated, approved, audited.
	outcome, err = srv.Gate().Run(context.Background(), "transferMoney", map[string]interface{}{"amount": 500.0})
	assert.NoError(t, err)
	assert.False(t, outcome.Auto)
	assert.Equal(t, approval.StatusApproved, outcome.Status)
	assert.Equal(t, "transferred", outcome.Result)
	assert.Equal(t, 1, srv.Audit().Len())
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, colloquy.DefaultConfig().Validate())
	bad := &colloquy.Config{}
	bad.Events.QueueBuffer = -1
	assert.Error(t, bad.Validate())
}
