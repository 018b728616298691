package store

import (
	"github.com/ethereum/go-ethereum/common"
)

// ParkEvent stores an event whose parent deal is not indexed yet. Parking the same
// event again bumps its attempt counter and keeps its first sighting.
func (t *Tx) ParkEvent(event *PendingEvent) error {
	const query = `
		INSERT INTO pending_events (tx_hash, log_index, event_name, deal_id, block_number, raw_log,
			reason, attempts, first_seen, last_attempt)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT(tx_hash, log_index) DO UPDATE SET
			attempts = pending_events.attempts + 1,
			reason = excluded.reason,
			last_attempt = excluded.last_attempt
	`

	now := t.timestamp()
	_, err := t.exec("park event", query,
		event.TxHash.Hex(), event.LogIndex, event.EventName, event.DealID, event.BlockNumber,
		event.RawLog, event.Reason, now, now)

	return err
}

// DeletePendingEvent removes a parked event once it has been handled.
func (t *Tx) DeletePendingEvent(txHash common.Hash, logIndex uint) error {
	_, err := t.exec("delete pending event",
		`DELETE FROM pending_events WHERE tx_hash = ? AND log_index = ?`, txHash.Hex(), logIndex)

	return err
}
