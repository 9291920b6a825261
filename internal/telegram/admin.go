package telegram

import (
	"fmt"
	"strings"

	tghelpers "kinobot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// maxListedSubscribers caps the admin listing well below Telegram's message
// size limit.
const maxListedSubscribers = 100

// HandleSubscribers replies with the current subscriber IDs. Wired as an
// admin-only command; non-admins never reach it.
func (a *Adapter) HandleSubscribers(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	ids, err := a.store.All(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return tghelpers.SendText(c, "No subscribers yet.")
	}

	shown := ids
	if len(shown) > maxListedSubscribers {
		shown = shown[:maxListedSubscribers]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👥 Subscribers (%d):\n", len(ids))
	for _, id := range shown {
		fmt.Fprintf(&b, "%d\n", id)
	}
	if rest := len(ids) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "… and %d more\n", rest)
	}
	return tghelpers.SendText(c, strings.TrimRight(b.String(), "\n"))
}
