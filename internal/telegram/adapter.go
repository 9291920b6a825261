// Package telegram bridges telebot updates to the command router: it decodes
// updates into events, delivers outcomes back to the chat, and keeps every
// platform-specific type out of the domain packages.
package telegram

import (
	"context"

	"kinobot/core/logger"
	tghelpers "kinobot/core/telegram/helpers"
	"kinobot/internal/commands"
	"kinobot/internal/subscribers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Adapter owns the bot-facing handlers.
type Adapter struct {
	router *commands.Router
	store  subscribers.Store
}

// NewAdapter wires the handlers to the router and the store.
func NewAdapter(router *commands.Router, store subscribers.Store) *Adapter {
	return &Adapter{router: router, store: store}
}

// HandleText routes any text-bearing update through the command router and
// sends the outcome back to the chat. Command endpoints and plain text share
// this handler, so matching stays exact regardless of how telebot dispatched
// the update.
func (a *Adapter) HandleText(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)

	out, err := a.router.Handle(ctx, commands.Event{
		ChatID:      chat.ID,
		Text:        c.Text(),
		HasText:     true,
		DisplayName: tghelpers.SenderDisplayName(c),
	})
	if err != nil {
		return err
	}
	return a.deliver(c, ctx, out)
}

// HandleNoText acknowledges media updates. The router marks them ignored and
// nothing is sent.
func (a *Adapter) HandleNoText(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)

	out, err := a.router.Handle(ctx, commands.Event{ChatID: chat.ID})
	if err != nil {
		return err
	}
	return a.deliver(c, ctx, out)
}

func (a *Adapter) deliver(c tele.Context, ctx context.Context, out commands.Outcome) error {
	if out.Ignored {
		logger.CMD.LogAttrs(ctx, slog.LevelDebug, "non-text update ignored",
			slog.String("event", "command.ignored"),
		)
		return nil
	}

	intent := string(out.Intent)
	if !out.Recognized {
		intent = "unrecognized"
	}
	logger.CMD.LogAttrs(ctx, slog.LevelInfo, "command handled",
		slog.String("event", "command.handled"),
		slog.String("intent", intent),
		slog.Bool("recognized", out.Recognized),
	)

	if out.Format == commands.RichText {
		return tghelpers.SendHTML(c, out.Reply)
	}
	return tghelpers.SendText(c, out.Reply)
}
