package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goran-ethernal/DealIndexor/internal/common"
	"github.com/goran-ethernal/DealIndexor/internal/logger"
	"github.com/goran-ethernal/DealIndexor/pkg/config"
)

// Maintenance serializes SQLite housekeeping against store transactions.
type Maintenance interface {
	Start(ctx context.Context) error
	// Stop cancels the background loop and waits for an in-flight run.
	Stop() error
	// AcquireOperationLock blocks while maintenance runs. The returned func releases it.
	AcquireOperationLock() func()
	Status() MaintenanceStatus
	RunMaintenance(ctx context.Context) error
}

// NoOpMaintenance is used when maintenance is not configured.
type NoOpMaintenance struct{}

func (NoOpMaintenance) Start(context.Context) error          { return nil }
func (NoOpMaintenance) Stop() error                          { return nil }
func (NoOpMaintenance) RunMaintenance(context.Context) error { return nil }
func (NoOpMaintenance) AcquireOperationLock() func()         { return func() {} }
func (NoOpMaintenance) Status() MaintenanceStatus            { return MaintenanceStatus{} }

// MaintenanceStatus summarizes past maintenance runs.
type MaintenanceStatus struct {
	LastMaintenanceTime  time.Time `json:"last_run,omitzero"`
	MaintenanceCount     uint64    `json:"runs"`
	LastMaintenanceError error     `json:"-"`
	LastError            string    `json:"last_error,omitempty"`
}

// maintenanceStep is one housekeeping statement. Required steps fail the run.
type maintenanceStep struct {
	name     string
	required bool
	run      func(ctx context.Context) error
}

// MaintenanceCoordinator runs WAL checkpoints, VACUUM and planner optimization on a
// schedule. Store operations hold the read side of opLock; a run holds the write side,
// so it starts only once every open transaction has committed.
type MaintenanceCoordinator struct {
	db     *sql.DB
	config config.MaintenanceConfig
	dbPath string
	log    *logger.Logger

	opLock sync.RWMutex

	cancel context.CancelFunc
	done   chan struct{}

	statusMu sync.Mutex
	status   MaintenanceStatus
}

// NewMaintenanceCoordinator returns NoOpMaintenance when cfg is nil.
func NewMaintenanceCoordinator(
	dbPath string,
	db *sql.DB,
	cfg *config.MaintenanceConfig,
	log *logger.Logger,
) Maintenance {
	if cfg == nil {
		return NoOpMaintenance{}
	}

	return newMaintenanceCoordinator(dbPath, db, *cfg, log)
}

func newMaintenanceCoordinator(
	dbPath string,
	db *sql.DB,
	cfg config.MaintenanceConfig,
	log *logger.Logger,
) *MaintenanceCoordinator {
	return &MaintenanceCoordinator{
		db:     db,
		config: cfg,
		dbPath: dbPath,
		log:    log.WithComponent(common.ComponentMaintenance),
	}
}

func (m *MaintenanceCoordinator) Start(ctx context.Context) error {
	if !m.config.Enabled {
		m.log.Info("Background maintenance is disabled")
		return nil
	}
	if m.cancel != nil {
		return errors.New("maintenance already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	if m.config.VacuumOnStartup {
		if err := m.RunMaintenance(runCtx); err != nil {
			m.log.Warnf("Startup maintenance failed: %v", err)
		}
	}

	go m.loop(runCtx, m.config.CheckInterval.Duration)

	m.log.Infow("Background maintenance started",
		"interval", m.config.CheckInterval.Duration,
		"checkpoint_mode", m.config.WALCheckpointMode,
	)

	return nil
}

func (m *MaintenanceCoordinator) Stop() error {
	if m.cancel == nil {
		return nil
	}

	m.cancel()
	<-m.done
	m.log.Info("Background maintenance stopped")

	return nil
}

func (m *MaintenanceCoordinator) loop(ctx context.Context, interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.RunMaintenance(ctx); err != nil && ctx.Err() == nil {
				m.log.Warnf("Periodic maintenance failed: %v", err)
			}
		}
	}
}

func (m *MaintenanceCoordinator) steps() []maintenanceStep {
	return []maintenanceStep{
		{name: "wal_checkpoint", required: true, run: m.walCheckpoint},
		{name: "vacuum", run: m.vacuum},
		{name: "optimize", run: m.optimize},
	}
}

// RunMaintenance waits for in-flight store operations, then runs every step.
// Optional steps are logged and skipped on failure.
func (m *MaintenanceCoordinator) RunMaintenance(ctx context.Context) error {
	MaintenanceRunsInc()

	m.opLock.Lock()
	defer m.opLock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	sizeBefore, err := DBTotalSize(m.dbPath)
	if err != nil {
		m.log.Warnf("Failed to measure database size: %v", err)
	}

	var runErr error
	for _, step := range m.steps() {
		if err := step.run(ctx); err != nil {
			m.log.Warnw("Maintenance step failed", "step", step.name, "error", err)
			if step.required {
				runErr = errors.Join(runErr, fmt.Errorf("%s: %w", step.name, err))
			}
		}
	}

	elapsed := time.Since(start)
	MaintenanceDurationLog(elapsed)
	MaintenanceLastRunLog()
	m.record(runErr)

	if runErr != nil {
		MaintenanceErrorInc()
		return runErr
	}
	MaintenanceSuccessInc()

	sizeAfter, err := DBTotalSize(m.dbPath)
	if err != nil {
		m.log.Warnf("Failed to measure database size: %v", err)
		return nil
	}
	DBSizeLog(sizeAfter)

	if sizeBefore > sizeAfter {
		reclaimed := uint64(sizeBefore - sizeAfter)
		MaintenanceSpaceReclaimedLog(reclaimed)
		m.log.Infow("Maintenance completed", "duration", elapsed, "reclaimed_mb", common.BytesToMB(reclaimed))
	} else {
		m.log.Infow("Maintenance completed", "duration", elapsed)
	}

	return nil
}

func (m *MaintenanceCoordinator) record(err error) {
	m.statusMu.Lock()
	defer m.statusMu.Unlock()

	m.status.LastMaintenanceTime = time.Now().UTC()
	m.status.MaintenanceCount++
	m.status.LastMaintenanceError = err
	m.status.LastError = ""
	if err != nil {
		m.status.LastError = err.Error()
	}
}

// walCheckpoint folds the WAL back into the main file. It is a no-op outside WAL mode.
func (m *MaintenanceCoordinator) walCheckpoint(ctx context.Context) error {
	var mode string
	if err := m.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
		return fmt.Errorf("failed to read journal mode: %w", err)
	}
	if !strings.EqualFold(mode, "wal") {
		return nil
	}

	var busy, walFrames, checkpointed int
	query := fmt.Sprintf("PRAGMA wal_checkpoint(%s)", m.config.WALCheckpointMode)
	if err := m.db.QueryRowContext(ctx, query).Scan(&busy, &walFrames, &checkpointed); err != nil {
		return err
	}
	WALCheckpointInc(strings.ToLower(m.config.WALCheckpointMode))

	m.log.Debugw("WAL checkpoint done", "busy", busy, "wal_frames", walFrames, "checkpointed", checkpointed)
	if busy > 0 {
		m.log.Warnf("WAL checkpoint left %d busy pages", busy)
	}

	return nil
}

func (m *MaintenanceCoordinator) vacuum(context.Context) error {
	if err := Vacuum(m.db); err != nil {
		return err
	}
	VacuumRunsInc()
	return nil
}

// optimize refreshes the query planner statistics for the deal and event indexes.
func (m *MaintenanceCoordinator) optimize(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, "PRAGMA optimize")
	return err
}

func (m *MaintenanceCoordinator) AcquireOperationLock() func() {
	m.opLock.RLock()
	return m.opLock.RUnlock
}

func (m *MaintenanceCoordinator) Status() MaintenanceStatus {
	m.statusMu.Lock()
	defer m.statusMu.Unlock()

	return m.status
}
