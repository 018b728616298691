package db

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/goran-ethernal/DealIndexor/pkg/config"
	_ "github.com/mattn/go-sqlite3"
)

const defaultBusyTimeoutMs = 30000

// dsn builds a go-sqlite3 connection string. Write transactions begin IMMEDIATE so
// concurrent writers queue on the database lock instead of failing on lock upgrade,
// and foreign keys are enforced on every pooled connection.
func dsn(path, journalMode string, busyTimeoutMs int) string {
	params := []string{
		"_txlock=immediate",
		"_foreign_keys=on",
		"_journal_mode=" + journalMode,
		"_busy_timeout=" + strconv.Itoa(busyTimeoutMs),
	}
	return "file:" + path + "?" + strings.Join(params, "&")
}

// NewSQLiteDB opens the database with default connection settings.
func NewSQLiteDB(dbPath string) (*sql.DB, error) {
	return sql.Open("sqlite3", dsn(dbPath, "WAL", defaultBusyTimeoutMs))
}

// NewSQLiteDBFromConfig opens the projection database and applies the configured pragmas.
func NewSQLiteDBFromConfig(cfg config.DatabaseConfig) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite3", dsn(cfg.Path, cfg.JournalMode, cfg.BusyTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConnections)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConnections)

	for _, pragma := range []string{
		"PRAGMA synchronous = " + cfg.Synchronous,
		"PRAGMA cache_size = " + strconv.Itoa(cfg.CacheSize),
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	return sqlDB, nil
}

// Vacuum rebuilds the database file, reclaiming free pages.
func Vacuum(sqlDB *sql.DB) error {
	_, err := sqlDB.Exec("VACUUM")
	switch {
	case err == nil:
		return nil
	case strings.Contains(err.Error(), "database is locked"):
		return errors.New("cannot vacuum: database is locked (retry later)")
	default:
		return fmt.Errorf("vacuum failed: %w", err)
	}
}

// DBTotalSize returns the combined size of the database file and its -wal and -shm files.
// Missing files count as zero.
func DBTotalSize(dbPath string) (int64, error) {
	var total int64

	for _, suffix := range []string{"", "-wal", "-shm"} {
		info, err := os.Stat(dbPath + suffix)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			continue
		case err != nil:
			return 0, fmt.Errorf("failed to stat %s%s: %w", dbPath, suffix, err)
		}
		total += info.Size()
	}

	return total, nil
}
