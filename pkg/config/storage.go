package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/goran-ethernal/DealIndexor/internal/common"
)

var (
	journalModes    = []string{"WAL", "DELETE", "TRUNCATE", "PERSIST", "MEMORY"}
	syncModes       = []string{"FULL", "NORMAL", "OFF"}
	checkpointModes = []string{"PASSIVE", "FULL", "RESTART", "TRUNCATE"}
)

// DatabaseConfig holds the SQLite projection store settings. WAL journaling lets
// the read API query while events are being applied.
type DatabaseConfig struct {
	Path        string `yaml:"path" json:"path" toml:"path" jsonschema:"required"`
	JournalMode string `yaml:"journal_mode" json:"journal_mode" toml:"journal_mode" jsonschema:"enum=WAL,enum=DELETE,enum=TRUNCATE,enum=PERSIST,enum=MEMORY,default=WAL"` //nolint:lll
	Synchronous string `yaml:"synchronous" json:"synchronous" toml:"synchronous" jsonschema:"enum=FULL,enum=NORMAL,enum=OFF,default=NORMAL"`                         //nolint:lll

	// BusyTimeout in milliseconds
	BusyTimeout int `yaml:"busy_timeout" json:"busy_timeout" toml:"busy_timeout" jsonschema:"default=5000"`
	// CacheSize in pages, or KiB when negative
	CacheSize int `yaml:"cache_size" json:"cache_size" toml:"cache_size" jsonschema:"default=10000"`

	MaxOpenConnections int `yaml:"max_open_connections" json:"max_open_connections" toml:"max_open_connections" jsonschema:"default=25"` //nolint:lll
	MaxIdleConnections int `yaml:"max_idle_connections" json:"max_idle_connections" toml:"max_idle_connections" jsonschema:"default=5"`  //nolint:lll
}

func (d *DatabaseConfig) ApplyDefaults() {
	d.JournalMode = strings.ToUpper(d.JournalMode)
	d.Synchronous = strings.ToUpper(d.Synchronous)

	if d.JournalMode == "" {
		d.JournalMode = "WAL"
	}
	if d.Synchronous == "" {
		d.Synchronous = "NORMAL"
	}
	if d.BusyTimeout == 0 {
		d.BusyTimeout = 5000
	}
	if d.CacheSize == 0 {
		d.CacheSize = 10000
	}
	if d.MaxOpenConnections == 0 {
		d.MaxOpenConnections = 25
	}
	if d.MaxIdleConnections == 0 {
		d.MaxIdleConnections = 5
	}
}

func (d *DatabaseConfig) Validate() error {
	var errs []error

	if d.Path == "" {
		errs = append(errs, errors.New("db.path is required"))
	}
	if !slices.Contains(journalModes, d.JournalMode) {
		errs = append(errs, fmt.Errorf("db.journal_mode %q: must be one of %v", d.JournalMode, journalModes))
	}
	if !slices.Contains(syncModes, d.Synchronous) {
		errs = append(errs, fmt.Errorf("db.synchronous %q: must be one of %v", d.Synchronous, syncModes))
	}
	if d.MaxIdleConnections > d.MaxOpenConnections {
		errs = append(errs, errors.New("db.max_idle_connections must not exceed max_open_connections"))
	}

	return errors.Join(errs...)
}

// MaintenanceConfig schedules WAL checkpoints and VACUUM runs on the projection store.
type MaintenanceConfig struct {
	Enabled         bool            `yaml:"enabled" json:"enabled" toml:"enabled"`
	CheckInterval   common.Duration `yaml:"check_interval" json:"check_interval" toml:"check_interval"`
	VacuumOnStartup bool            `yaml:"vacuum_on_startup" json:"vacuum_on_startup" toml:"vacuum_on_startup"`

	WALCheckpointMode string `yaml:"wal_checkpoint_mode" json:"wal_checkpoint_mode" toml:"wal_checkpoint_mode" jsonschema:"enum=PASSIVE,enum=FULL,enum=RESTART,enum=TRUNCATE,default=TRUNCATE"` //nolint:lll
}

func (m *MaintenanceConfig) ApplyDefaults() {
	if m.CheckInterval.Duration == 0 {
		m.CheckInterval = common.NewDuration(30 * time.Minute) //nolint:mnd
	}
	if m.WALCheckpointMode == "" {
		m.WALCheckpointMode = "TRUNCATE"
	}
}

func (m *MaintenanceConfig) Validate() error {
	if m.WALCheckpointMode != "" && !slices.Contains(checkpointModes, m.WALCheckpointMode) {
		return fmt.Errorf("maintenance.wal_checkpoint_mode %q: must be one of %v", m.WALCheckpointMode, checkpointModes)
	}
	return nil
}

// ReconciliationConfig controls the periodic replay of parked events.
type ReconciliationConfig struct {
	Enabled  bool            `yaml:"enabled" json:"enabled" toml:"enabled"`
	Interval common.Duration `yaml:"interval" json:"interval" toml:"interval"`

	// BatchSize caps the parked events replayed per pass
	BatchSize int `yaml:"batch_size" json:"batch_size" toml:"batch_size" jsonschema:"default=500"`

	// MaxAttempts drops a parked event once it has been parked this many times.
	// Events of deals created before the indexer started never resolve.
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts" toml:"max_attempts" jsonschema:"default=1440"`
}

func (r *ReconciliationConfig) ApplyDefaults() {
	if r.Interval.Duration == 0 {
		r.Interval = common.NewDuration(time.Minute)
	}
	if r.BatchSize == 0 {
		r.BatchSize = 500
	}
	if r.MaxAttempts == 0 {
		r.MaxAttempts = 1440
	}
}

func (r *ReconciliationConfig) Validate() error {
	if r.BatchSize < 0 {
		return errors.New("reconciliation.batch_size must not be negative")
	}
	if r.MaxAttempts < 0 {
		return errors.New("reconciliation.max_attempts must not be negative")
	}
	return nil
}
