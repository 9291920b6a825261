package router

import (
	"time"

	tg "kinobot/core/telegram"
	"kinobot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// TextOptions controls routing for text and non-text updates.
type TextOptions struct {
	// Text handles every text update that did not match a registered command endpoint.
	Text tele.HandlerFunc
	// NoText handles updates that carry no usable text (media, stickers, voice notes).
	NoText tele.HandlerFunc
	// NoTextEndpoints overrides the default set of non-text endpoints.
	NoTextEndpoints []any
}

// DefaultNoTextEndpoints lists the non-text update kinds the bot acknowledges.
func DefaultNoTextEndpoints() []any {
	return []any{
		tele.OnPhoto,
		tele.OnSticker,
		tele.OnDocument,
		tele.OnVoice,
		tele.OnVideo,
	}
}

// TextRoutes builds handlers for text and non-text updates.
func TextRoutes(opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if opts.Text != nil {
			return handleWithSummary(c, "message", start, "", "", func() error {
				return opts.Text(c)
			})
		}
		logHandlerSummary(c, "message", start, "skip", "ok", nil)
		return nil
	}

	noTextHandler := func(c tele.Context) error {
		start := time.Now()
		if opts.NoText != nil {
			return handleWithSummary(c, "media", start, "", "", func() error {
				return opts.NoText(c)
			})
		}
		logHandlerSummary(c, "media", start, "skip", "ok", nil)
		return nil
	}

	endpoints := opts.NoTextEndpoints
	if endpoints == nil {
		endpoints = DefaultNoTextEndpoints()
	}

	routes := make([]tg.Route, 0, len(endpoints)+1)
	routes = append(routes, tg.Route{
		Endpoint: tele.OnText,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	})
	for _, ep := range endpoints {
		routes = append(routes, tg.Route{
			Endpoint: ep,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(noTextHandler)),
		})
	}
	return routes
}
