package helpers

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// SenderDisplayName extracts a human-readable name for the update's sender.
// It prefers the first name and falls back to the username; the result may be
// empty when Telegram supplies neither.
func SenderDisplayName(c tele.Context) string {
	user := c.Sender()
	if user == nil {
		return ""
	}
	if name := strings.TrimSpace(user.FirstName); name != "" {
		return name
	}
	return strings.TrimSpace(user.Username)
}
