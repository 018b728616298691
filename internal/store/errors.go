package store

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrDealNotFound is returned when a deal id has no row in the projection.
	ErrDealNotFound = errors.New("deal not found")
	// ErrDuplicatePosition is returned when a position id is stored again with different values.
	ErrDuplicatePosition = errors.New("duplicate position")
)

// TxError wraps a failure of the store transaction itself: begin, a statement or commit.
type TxError struct {
	Op  string
	Err error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *TxError) Unwrap() error {
	return e.Err
}

// IsTxError reports whether err is or wraps a *TxError.
func IsTxError(err error) bool {
	var txErr *TxError
	return errors.As(err, &txErr)
}

func txError(op string, err error) error {
	return &TxError{Op: op, Err: err}
}

// IsBusy reports whether err comes from SQLite giving up on a lock held by another
// connection. The same write succeeds once that connection commits.
func IsBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}
