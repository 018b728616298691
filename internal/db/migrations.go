package db

import (
	"database/sql"
	"fmt"

	"github.com/goran-ethernal/DealIndexor/internal/common"
	"github.com/goran-ethernal/DealIndexor/internal/logger"
	migrate "github.com/rubenv/sql-migrate"
)

// AllMigrations tells Migrate to apply every pending migration.
const AllMigrations = 0

// RunMigrations opens the database at dbPath and applies every pending migration from source.
func RunMigrations(dbPath string, source migrate.MigrationSource) error {
	sqlDB, err := NewSQLiteDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open %s for migrations: %w", dbPath, err)
	}
	defer sqlDB.Close()

	_, err = Migrate(logger.GetDefaultLogger().WithComponent(common.ComponentStore), sqlDB, source, migrate.Up, AllMigrations)
	return err
}

// Migrate applies at most limit migrations from source in the given direction and
// returns how many ran. Applied migrations are tracked in the gorp_migrations table.
func Migrate(
	log *logger.Logger,
	sqlDB *sql.DB,
	source migrate.MigrationSource,
	dir migrate.MigrationDirection,
	limit int,
) (int, error) {
	planned, _, err := migrate.PlanMigration(sqlDB, "sqlite3", source, dir, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to plan migrations: %w", err)
	}
	if len(planned) == 0 {
		log.Debug("Schema is up to date")
		return 0, nil
	}

	ids := make([]string, 0, len(planned))
	for _, m := range planned {
		ids = append(ids, m.Id)
	}
	log.Debugw("Applying migrations", "direction", directionName(dir), "migrations", ids)

	n, err := migrate.ExecMax(sqlDB, "sqlite3", source, dir, limit)
	if err != nil {
		return n, fmt.Errorf("migration failed after %d of %v: %w", n, ids, err)
	}

	log.Infow("Migrations applied", "direction", directionName(dir), "count", n)
	return n, nil
}

func directionName(dir migrate.MigrationDirection) string {
	if dir == migrate.Down {
		return "down"
	}
	return "up"
}
