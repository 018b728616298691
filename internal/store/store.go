package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goran-ethernal/DealIndexor/internal/db"
	"github.com/goran-ethernal/DealIndexor/internal/logger"
)

// Store is the SQLite backed projection of deals, deposits, rewards and the event log.
type Store struct {
	db          *sql.DB
	maintenance db.Maintenance
	log         *logger.Logger
	now         func() time.Time
}

// New creates a Store on an already migrated database.
// A nil maintenance coordinator disables operation locking.
func New(sqlDB *sql.DB, maintenance db.Maintenance, log *logger.Logger) *Store {
	if maintenance == nil {
		maintenance = db.NoOpMaintenance{}
	}

	return &Store{
		db:          sqlDB,
		maintenance: maintenance,
		log:         log,
		now:         time.Now,
	}
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// WithTx runs fn inside one write transaction. The transaction is committed when fn
// returns nil and rolled back otherwise, so all writes made through tx are atomic.
// Errors returned by fn are passed through unchanged.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) (err error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	start := time.Now()
	outcome := "rollback"
	defer func() {
		TransactionObserve(outcome, start)
	}()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		outcome = "begin_error"
		return txError("begin", err)
	}
	defer func() {
		if err := sqlTx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.log.Errorf("failed to rollback transaction: %v", err)
		}
	}()

	if err := fn(&Tx{ctx: ctx, tx: sqlTx, now: s.now}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		outcome = "commit_error"
		return txError("commit", err)
	}
	outcome = "commit"

	return nil
}

// Tx exposes the transaction scoped store operations used by event handlers.
type Tx struct {
	ctx context.Context
	tx  *sql.Tx
	now func() time.Time
}

func (t *Tx) exec(op, query string, args ...any) (sql.Result, error) {
	res, err := t.tx.ExecContext(t.ctx, query, args...)
	if err != nil {
		return nil, txError(op, err)
	}

	return res, nil
}

func (t *Tx) execAffected(op, query string, args ...any) (int64, error) {
	res, err := t.exec(op, query, args...)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, txError(op, err)
	}

	return n, nil
}

func (t *Tx) timestamp() int64 {
	return t.now().Unix()
}
