package store

import (
	"fmt"

	"github.com/russross/meddler"
)

// UpsertDeposit inserts a position. Positions are immutable: storing the same position
// again is a no-op when every value matches and ErrDuplicatePosition otherwise.
func (t *Tx) UpsertDeposit(deposit *Deposit) error {
	const query = `
		INSERT INTO deposits (position_id, deal_id, depositor, amount, tx_hash, block_number, log_index, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(position_id) DO NOTHING
	`

	n, err := t.execAffected("upsert deposit", query,
		deposit.PositionID, deposit.DealID, deposit.Depositor.Hex(), bigString(deposit.Amount),
		deposit.TxHash.Hex(), deposit.BlockNumber, deposit.LogIndex, deposit.Timestamp)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var existing Deposit
	if err := meddler.QueryRow(t.tx, &existing, `SELECT * FROM deposits WHERE position_id = ?`, deposit.PositionID); err != nil {
		return txError("get deposit", err)
	}

	if !sameDeposit(&existing, deposit) {
		return fmt.Errorf("%w: position %d already stored for deal %d by %s with amount %s",
			ErrDuplicatePosition, existing.PositionID, existing.DealID, existing.Depositor.Hex(), bigString(existing.Amount))
	}

	return nil
}

// ListDeposits returns the deposits of a deal in chain order.
func (t *Tx) ListDeposits(dealID uint64) ([]*Deposit, error) {
	return listDeposits(t.tx, dealID)
}

func listDeposits(q meddler.DB, dealID uint64) ([]*Deposit, error) {
	const query = `
		SELECT * FROM deposits
		WHERE deal_id = ?
		ORDER BY block_number ASC, log_index ASC
	`

	var deposits []*Deposit
	if err := meddler.QueryAll(q, &deposits, query, dealID); err != nil {
		return nil, txError("list deposits", err)
	}

	return deposits, nil
}

// sameDeposit compares the identifying values of two positions. The block timestamp
// is excluded since it comes from a best effort header lookup.
func sameDeposit(a, b *Deposit) bool {
	return a.PositionID == b.PositionID &&
		a.DealID == b.DealID &&
		a.Depositor == b.Depositor &&
		bigString(a.Amount) == bigString(b.Amount) &&
		a.TxHash == b.TxHash &&
		a.LogIndex == b.LogIndex
}
