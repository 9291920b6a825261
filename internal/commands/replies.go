package commands

import (
	"fmt"
	"strings"
)

// fallbackName replaces an empty display name in personalized replies.
const fallbackName = "there"

func displayName(raw string) string {
	if name := strings.TrimSpace(raw); name != "" {
		return name
	}
	return fallbackName
}

func welcomeReply(name string) string {
	return fmt.Sprintf(
		"🎬 Welcome, %s!\n\n"+
			"You're now subscribed to cinema program updates.\n\n"+
			"You'll receive notifications when:\n"+
			"✨ New films are added\n"+
			"🔄 Film showtimes are updated\n"+
			"❌ Films are removed\n\n"+
			"Commands:\n"+
			"/stop - Unsubscribe from notifications\n"+
			"/status - Check your subscription status",
		name,
	)
}

func alreadySubscribedReply(name string) string {
	return fmt.Sprintf(
		"👋 Hi %s!\n\n"+
			"You're already subscribed to notifications.\n\n"+
			"Use /status to check your subscription or /stop to unsubscribe.",
		name,
	)
}

func unsubscribedReply() string {
	return "👋 You've been unsubscribed from cinema program notifications.\n\n" +
		"You can subscribe again anytime with /start"
}

func notSubscribedReply() string {
	return "You're not currently subscribed.\n\n" +
		"Use /start to subscribe to notifications."
}

func statusActiveReply(count int) string {
	return fmt.Sprintf(
		"✅ <b>Subscription Active</b>\n\n"+
			"You're receiving cinema program updates.\n"+
			"Total subscribers: %d\n\n"+
			"Commands:\n"+
			"/stop - Unsubscribe",
		count,
	)
}

func statusInactiveReply() string {
	return "❌ <b>Not Subscribed</b>\n\n" +
		"You're not receiving notifications.\n\n" +
		"Use /start to subscribe."
}

func unknownCommandReply() string {
	return "Unknown command. Available commands:\n" +
		"/start - Subscribe to notifications\n" +
		"/stop - Unsubscribe\n" +
		"/status - Check subscription status"
}
