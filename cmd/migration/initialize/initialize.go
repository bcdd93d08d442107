package initialize

import (
	"attendtrack/config"
	"attendtrack/internal/database"
	"attendtrack/internal/logger"
)

// InitializeTables applies every pending schema migration for the configured
// dialect.
func InitializeTables(db *database.DB, config config.Config, log logger.Logger) (int, error) {
	log = log.Function("InitializeTables")
	log.Info("Applying migrations", "driver", config.DatabaseDriver, "dialect", db.Dialect)

	applied, err := db.Migrate()
	if err != nil {
		return 0, log.Err("failed to apply migrations", err)
	}

	log.Info("Table initialization complete", "applied", applied)
	return applied, nil
}
