package colloquy

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/colloquyhq/colloquy/internal/idgen"
	"github.com/colloquyhq/colloquy/model"
	"github.com/colloquyhq/colloquy/roster"
	"github.com/colloquyhq/colloquy/selector"
	"github.com/colloquyhq/colloquy/service/dao"
	"github.com/colloquyhq/colloquy/service/event"
	"github.com/colloquyhq/colloquy/tracing"
	"github.com/colloquyhq/colloquy/transcript"
)

// Runtime drives conversations: it asks the selection policy who speaks
// next, collects the response and persists every turn.
type Runtime struct {
	conversationDAO dao.Service[string, model.Conversation]
	roster          *roster.Roster
	events          *event.Service
	transcripts     *transcript.Store
}

// RunConversation drives a conversation over the task until the selection
// policy signals completion or the context is cancelled. The loop is
// strictly sequential; each turn sees every previous one.
//
// A selector that reports an unrecognised history terminates the
// conversation with a warning rather than an error, so a mis-stepped policy
// never wedges the run.
func (r *Runtime) RunConversation(ctx context.Context, task string, policy selector.Selector) (*model.Conversation, error) {
	if policy == nil {
		return nil, fmt.Errorf("selection policy was nil")
	}
	// Fail fast when the policy can pick someone the roster cannot resolve.
	for _, id := range policy.Participants() {
		if !r.roster.Has(id) {
			return nil, fmt.Errorf("selector %s names unregistered agent %s", policy.Name(), id)
		}
	}

	conversation := model.NewConversation(idgen.New(), task, r.roster.Participants())
	if err := r.conversationDAO.Save(ctx, conversation); err != nil {
		return nil, err
	}
	r.publish(ctx, conversation, event.TypeConversationStarted, model.Turn{})

	ctx, span := tracing.StartSpan(ctx, "conversation.run", "INTERNAL")
	span.WithAttributes(map[string]string{
		"conversation": conversation.ID,
		"selector":     policy.Name(),
	})
	err := r.runTurns(ctx, conversation, policy)
	tracing.EndSpan(span, err)

	conversation.End()
	if saveErr := r.conversationDAO.Save(ctx, conversation); saveErr != nil && err == nil {
		err = saveErr
	}
	r.publish(ctx, conversation, event.TypeConversationEnded, model.Turn{})
	if err == nil && r.transcripts != nil {
		err = r.transcripts.Save(ctx, conversation)
	}
	return conversation, err
}

func (r *Runtime) runTurns(ctx context.Context, conversation *model.Conversation, policy selector.Selector) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		snapshot := conversation.Snapshot()
		next, err := policy.Next(snapshot)
		if errors.Is(err, selector.ErrUnexpectedState) {
			log.Printf("selector %s hit an unexpected state in conversation %s after %d turns, terminating",
				policy.Name(), conversation.ID, snapshot.RoundIndex)
			return nil
		}
		if err != nil {
			return err
		}
		if next == "" {
			return nil
		}

		agent, err := r.roster.Lookup(next)
		if err != nil {
			return err
		}
		turnCtx, turnSpan := tracing.StartSpan(ctx, "conversation.turn", "INTERNAL")
		turnSpan.WithAttributes(map[string]string{"speaker": next})
		text, err := agent.Respond(turnCtx, snapshot)
		tracing.EndSpan(turnSpan, err)
		if err != nil {
			return fmt.Errorf("agent %s failed to respond: %w", next, err)
		}

		turn := model.Turn{Speaker: next, Text: text}
		conversation.Append(turn)
		if err = r.conversationDAO.Save(ctx, conversation); err != nil {
			return err
		}
		r.publish(ctx, conversation, event.TypeTurnTaken, turn)
	}
}

func (r *Runtime) publish(ctx context.Context, conversation *model.Conversation, eventType string, turn model.Turn) {
	if r.events == nil {
		return
	}
	_ = r.events.Publish(ctx, &event.Context{
		ConversationID: conversation.ID,
		Speaker:        turn.Speaker,
		EventType:      eventType,
		RoundIndex:     conversation.RoundIndex(),
	}, turn)
}

// Conversation returns a conversation by id.
func (r *Runtime) Conversation(ctx context.Context, id string) (*model.Conversation, error) {
	return r.conversationDAO.Load(ctx, id)
}

// Conversations lists stored conversations.
func (r *Runtime) Conversations(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Conversation, error) {
	return r.conversationDAO.List(ctx, parameters...)
}

// Transcripts returns the transcript store, or nil when persistence is
// disabled.
func (r *Runtime) Transcripts() *transcript.Store {
	return r.transcripts
}
