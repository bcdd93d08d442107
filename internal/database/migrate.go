package database

import (
	"embed"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations
var migrationFS embed.FS

func (s *DB) migrationSource() *migrate.EmbedFileSystemMigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFS,
		Root:       "migrations/" + s.Dialect,
	}
}

// Migrate applies every pending up migration for the connected dialect and
// returns how many ran.
func (s *DB) Migrate() (int, error) {
	log := s.log.Function("Migrate")

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return 0, log.Err("failed to get database from GORM", err)
	}

	applied, err := migrate.Exec(sqlDB, s.Dialect, s.migrationSource(), migrate.Up)
	if err != nil {
		return applied, log.Err("failed to apply migrations", err, "dialect", s.Dialect)
	}

	log.Info("Applied migrations", "count", applied, "dialect", s.Dialect)
	return applied, nil
}

// MigrateDown rolls back at most steps migrations. Zero means all of them.
func (s *DB) MigrateDown(steps int) (int, error) {
	log := s.log.Function("MigrateDown")

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return 0, log.Err("failed to get database from GORM", err)
	}

	rolledBack, err := migrate.ExecMax(sqlDB, s.Dialect, s.migrationSource(), migrate.Down, steps)
	if err != nil {
		return rolledBack, log.Err("failed to roll back migrations", err, "dialect", s.Dialect)
	}

	log.Info("Rolled back migrations", "count", rolledBack, "dialect", s.Dialect)
	return rolledBack, nil
}
