package store

// SetCursor advances the last delivered block of an event stream. Cursors never move back.
func (t *Tx) SetCursor(eventName string, block uint64) error {
	const query = `
		INSERT INTO subscription_cursors (event_name, last_block, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(event_name) DO UPDATE SET
			last_block = MAX(subscription_cursors.last_block, excluded.last_block),
			updated_at = excluded.updated_at
	`

	_, err := t.exec("set cursor", query, eventName, block, t.timestamp())

	return err
}
