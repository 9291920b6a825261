// Package commands maps inbound chat messages to subscription changes and
// reply payloads. The router is deterministic: one event in, one outcome out,
// with all state confined to the subscriber store.
package commands

import (
	"context"
	"errors"
	"strings"

	"kinobot/internal/subscribers"
)

// Format selects how the transport should render a reply.
type Format string

const (
	// PlainText sends the reply without a parse mode.
	PlainText Format = "plain"
	// RichText sends the reply with HTML formatting enabled.
	RichText Format = "rich"
)

// Event is one normalized inbound message. HasText distinguishes an empty
// text field from an update that carries no text at all.
type Event struct {
	ChatID      int64
	Text        string
	HasText     bool
	DisplayName string
}

// Outcome is the router's decision for one event.
type Outcome struct {
	Reply      string
	Format     Format
	Intent     Intent
	Recognized bool
	// Ignored marks non-text events; the transport sends nothing for them.
	Ignored bool
}

// Router turns inbound events into outcomes, mutating the store as needed.
type Router struct {
	store   subscribers.Store
	aliases AliasTable
}

// NewRouter wires the router to its store and alias table.
func NewRouter(store subscribers.Store, aliases AliasTable) *Router {
	return &Router{store: store, aliases: aliases}
}

// Handle maps one event to an outcome. Mutations that fail to persist
// (subscribers.ErrPersist) are treated as committed: the reply still reflects
// the change and no error is surfaced, since the store already logged the
// failure. Any other store error aborts the event with a zero outcome; the
// caller logs it and sends nothing.
func (r *Router) Handle(ctx context.Context, ev Event) (Outcome, error) {
	if !ev.HasText {
		return Outcome{Ignored: true}, nil
	}

	text := strings.TrimSpace(ev.Text)
	intent, ok := r.aliases.Lookup(text)
	if !ok {
		return Outcome{
			Reply:  unknownCommandReply(),
			Format: PlainText,
		}, nil
	}

	switch intent {
	case IntentSubscribe:
		return r.subscribe(ctx, ev)
	case IntentUnsubscribe:
		return r.unsubscribe(ctx, ev)
	default:
		return r.status(ctx, ev)
	}
}

func (r *Router) subscribe(ctx context.Context, ev Event) (Outcome, error) {
	added, err := r.store.Add(ctx, ev.ChatID)
	if err != nil && !errors.Is(err, subscribers.ErrPersist) {
		return Outcome{}, err
	}

	name := displayName(ev.DisplayName)
	reply := alreadySubscribedReply(name)
	if added {
		reply = welcomeReply(name)
	}
	return Outcome{Reply: reply, Format: PlainText, Intent: IntentSubscribe, Recognized: true}, nil
}

func (r *Router) unsubscribe(ctx context.Context, ev Event) (Outcome, error) {
	removed, err := r.store.Remove(ctx, ev.ChatID)
	if err != nil && !errors.Is(err, subscribers.ErrPersist) {
		return Outcome{}, err
	}

	reply := notSubscribedReply()
	if removed {
		reply = unsubscribedReply()
	}
	return Outcome{Reply: reply, Format: PlainText, Intent: IntentUnsubscribe, Recognized: true}, nil
}

func (r *Router) status(ctx context.Context, ev Event) (Outcome, error) {
	subscribed, err := r.store.Contains(ctx, ev.ChatID)
	if err != nil {
		return Outcome{}, err
	}
	count, err := r.store.Count(ctx)
	if err != nil {
		return Outcome{}, err
	}

	reply := statusInactiveReply()
	if subscribed {
		reply = statusActiveReply(count)
	}
	return Outcome{Reply: reply, Format: RichText, Intent: IntentStatus, Recognized: true}, nil
}
