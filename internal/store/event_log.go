package store

// Record appends entry to the event log. The (tx_hash, log_index) primary key is the
// deduplication fence: a second append of the same event returns AlreadyExists and
// leaves the table untouched, in which case the caller must skip all side effects.
func (t *Tx) Record(entry *EventLogEntry) (RecordResult, error) {
	const query = `
		INSERT INTO event_log (tx_hash, log_index, event_name, contract_address, block_number, block_hash, args, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(tx_hash, log_index) DO NOTHING
	`

	args := entry.Args
	if args == "" {
		args = "{}"
	}

	n, err := t.execAffected("record event", query,
		entry.TxHash.Hex(), entry.LogIndex, entry.EventName, entry.ContractAddress.Hex(),
		entry.BlockNumber, entry.BlockHash.Hex(), args, entry.Timestamp)
	if err != nil {
		return Inserted, err
	}

	result := Inserted
	if n == 0 {
		result = AlreadyExists
	}
	EventLogRecordInc(result)

	return result, nil
}
