package router

import (
	"time"

	"kinobot/core/logger"
	tg "kinobot/core/telegram"
	"kinobot/core/telegram/commands"
	"kinobot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CommandRouteOptions configures how commands are wrapped and exposed.
type CommandRouteOptions struct {
	AdminID       int64
	OnAdminReject tele.HandlerFunc
}

// CommandRoutes wraps every registered command with the shared recover,
// logging, and summary middleware. Admin-only commands additionally get
// the admin gate.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	adminOpts := middleware.AdminOptions{
		AdminID:  opts.AdminID,
		OnReject: opts.OnAdminReject,
	}

	defs := reg.Commands()
	routes := make([]tg.Route, 0, len(defs))
	for cmd, def := range defs {
		routes = append(routes, tg.Route{
			Endpoint: cmd,
			Handler:  wrapCommand(cmd, def, adminOpts),
		})
	}

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.Int("commands", len(defs)),
	)
	return routes
}

func wrapCommand(cmd string, def commands.Command, adminOpts middleware.AdminOptions) tele.HandlerFunc {
	name := normalizeHandlerName(cmd)
	inner := def.Handler
	h := tele.HandlerFunc(func(c tele.Context) error {
		return handleWithSummary(c, name, time.Now(), "", "", func() error {
			return inner(c)
		})
	})
	h = middleware.RecoverMiddleware(h)
	h = middleware.LoggerMiddleware(h)
	if def.AdminOnly {
		h = middleware.AdminOnlyMiddleware(adminOpts)(h)
	}
	return h
}
