package bootstrap

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	coreconfig "kinobot/core/config"
	coredatabase "kinobot/core/database"
	"kinobot/core/logger"
)

// Options control the bootstrap pipeline. The hook fields exist so tests
// can substitute the logger and database steps.
type Options struct {
	Config   *coreconfig.Config
	Database coredatabase.Config

	LoggerInit func(*coreconfig.Config) error
	Connect    func(coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(coredatabase.Config) error
}

func (o Options) loggerInit() func(*coreconfig.Config) error {
	if o.LoggerInit != nil {
		return o.LoggerInit
	}
	return logger.InitLogger
}

func (o Options) connect() func(coredatabase.Config) (*sqlx.DB, error) {
	if o.Connect != nil {
		return o.Connect
	}
	return coredatabase.Connect
}

func (o Options) migrate() func(coredatabase.Config) error {
	if o.Migrate != nil {
		return o.Migrate
	}
	return coredatabase.RunMigrations
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	// DB is nil unless the configured storage driver is postgres.
	DB *sqlx.DB
}

// Run initializes the logger and, when the storage driver requires it,
// connects to Postgres and applies migrations.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	if err := opts.loggerInit()(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	if opts.Config.Storage.Driver != coreconfig.StorageDriverPostgres {
		return &Result{}, nil
	}

	db, err := opts.connect()(opts.Database)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}

	if err := opts.migrate()(opts.Database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
	}

	return &Result{DB: db}, nil
}
