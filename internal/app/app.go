// Package app assembles the bot: configuration, storage, the command router,
// and the Telegram runtime options.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	coreboot "kinobot/core/bootstrap"
	corecmd "kinobot/core/cmd"
	coreconfig "kinobot/core/config"
	"kinobot/core/health"
	"kinobot/core/logger"
	"kinobot/core/metrics"
	coretelegram "kinobot/core/telegram"
	tgcmd "kinobot/core/telegram/commands"
	tgrouter "kinobot/core/telegram/router"
	"kinobot/internal/commands"
	"kinobot/internal/subscribers"
	tgadapter "kinobot/internal/telegram"
	"log/slog"
)

// App carries the assembled components between bootstrap and runtime wiring.
type App struct {
	cfg     *coreconfig.Config
	store   subscribers.Store
	adapter *tgadapter.Adapter
	health  *health.Server
	db      *sqlx.DB
}

// Config adapts the core configuration to the cmd runner.
type Config struct {
	Core *coreconfig.Config
}

// CoreConfig implements cmd.ConfigCarrier.
func (c *Config) CoreConfig() *coreconfig.Config { return c.Core }

// LoadConfig reads and validates the YAML configuration at path.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	cfg, err := coreconfig.Load(path)
	if err != nil {
		return nil, err
	}
	return &Config{Core: cfg}, nil
}

// Bootstrap initializes logging and storage and assembles the bot.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg := carrier.CoreConfig()

	res, err := coreboot.Run(coreboot.Options{Config: cfg, Database: cfg.Database})
	if err != nil {
		return nil, err
	}
	cleanup := func() {
		if res.DB != nil {
			_ = res.DB.Close()
		}
	}

	store, err := buildStore(cfg, res.DB)
	if err != nil {
		cleanup()
		return nil, err
	}

	table, err := commands.NewAliasTable(commands.Aliases{
		Subscribe:   cfg.Commands.SubscribeAliases,
		Unsubscribe: cfg.Commands.UnsubscribeAliases,
		Status:      cfg.Commands.StatusAliases,
	})
	if err != nil {
		cleanup()
		return nil, err
	}

	router := commands.NewRouter(store, table)
	adapter := tgadapter.NewAdapter(router, store)

	metrics.RegisterSubscribersGauge(func() float64 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		count, err := store.Count(ctx)
		if err != nil {
			return -1
		}
		return float64(count)
	})

	app := &App{cfg: cfg, store: store, adapter: adapter, db: res.DB}
	if cfg.Health.Listen != "" {
		app.health = health.NewServer(cfg.Health.Listen)
	}
	return app, nil
}

func buildStore(cfg *coreconfig.Config, db *sqlx.DB) (subscribers.Store, error) {
	switch cfg.Storage.Driver {
	case coreconfig.StorageDriverFile:
		return subscribers.NewFile(cfg.Storage.Path)
	case coreconfig.StorageDriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return subscribers.NewPostgres(ctx, db)
	case coreconfig.StorageDriverMemory:
		logger.Info(context.Background(), "store", "store.load",
			slog.String("driver", "memory"),
			slog.Int("count", 0),
		)
		return subscribers.NewMemory(), nil
	default:
		return nil, fmt.Errorf("app: unknown storage driver %q", cfg.Storage.Driver)
	}
}

// TelegramRunOptions implements cmd.TelegramApp.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	reg.RegisterCommand(commands.CmdSubscribe, tgcmd.Command{
		Handler:     a.adapter.HandleText,
		Description: "Subscribe to notifications",
	})
	reg.RegisterCommand(commands.CmdUnsubscribe, tgcmd.Command{
		Handler:     a.adapter.HandleText,
		Description: "Unsubscribe from notifications",
	})
	reg.RegisterCommand(commands.CmdStatus, tgcmd.Command{
		Handler:     a.adapter.HandleText,
		Description: "Check your subscription status",
	})
	if a.cfg.Telegram.AdminID != 0 {
		reg.RegisterCommand("/subscribers", tgcmd.Command{
			Handler:     a.adapter.HandleSubscribers,
			Description: "List subscriber chat IDs",
			AdminOnly:   true,
			Hidden:      true,
		})
	}

	routes := tgrouter.CommandRoutes(reg, tgrouter.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
		// Non-admins fall through to the unrecognized-command reply.
		OnAdminReject: a.adapter.HandleText,
	})
	routes = append(routes, tgrouter.TextRoutes(tgrouter.TextOptions{
		Text:   a.adapter.HandleText,
		NoText: a.adapter.HandleNoText,
	})...)

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *App) onStart(ctx context.Context, rt coretelegram.Runtime) error {
	if a.health != nil {
		a.health.Start()
	}
	return nil
}

func (a *App) onStop(ctx context.Context, rt coretelegram.Runtime) error {
	var errs []error
	if a.health != nil {
		if err := a.health.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
