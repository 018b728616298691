package migrations

import (
	"database/sql"
	"embed"

	"github.com/goran-ethernal/DealIndexor/internal/db"
	"github.com/goran-ethernal/DealIndexor/internal/logger"
	migrate "github.com/rubenv/sql-migrate"
)

//go:embed *.sql
var files embed.FS

// Source returns the projection store migrations, ordered by file name.
func Source() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{FileSystem: files, Root: "."}
}

// RunMigrations runs all migrations for the projection database at dbPath.
func RunMigrations(dbPath string) error {
	return db.RunMigrations(dbPath, Source())
}

// RunMigrationsDB runs all migrations on an open database.
func RunMigrationsDB(log *logger.Logger, sqlDB *sql.DB) error {
	_, err := db.Migrate(log, sqlDB, Source(), migrate.Up, db.AllMigrations)
	return err
}
