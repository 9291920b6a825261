package database

import coreconfig "kinobot/core/config"

// Config holds database connection settings shared across bots. The struct
// is defined in core/config (see coreconfig.DatabaseConfig, including the
// DSN and URL renderers) so this package can log through core/logger
// without an import cycle; the alias keeps database.Config as the name the
// rest of the codebase uses.
type Config = coreconfig.DatabaseConfig
