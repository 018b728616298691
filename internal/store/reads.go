package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/russross/meddler"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// GetDeal returns one deal or ErrDealNotFound.
func (s *Store) GetDeal(ctx context.Context, dealID uint64) (*Deal, error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	return getDeal(s.db, dealID)
}

// ListDeals returns deals ordered by id, optionally filtered by status.
func (s *Store) ListDeals(ctx context.Context, filter DealFilter) ([]*Deal, error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	query := `SELECT * FROM deals`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY deal_id ASC LIMIT ? OFFSET ?`
	args = append(args, clampLimit(filter.Limit), max(filter.Offset, 0))

	var deals []*Deal
	if err := meddler.QueryAll(s.db, &deals, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query deals: %w", err)
	}

	return deals, nil
}

// ListDeposits returns the deposits of a deal in chain order.
func (s *Store) ListDeposits(ctx context.Context, dealID uint64) ([]*Deposit, error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	return listDeposits(s.db, dealID)
}

// ListRewards returns the reward entitlements of a deal ordered by user.
func (s *Store) ListRewards(ctx context.Context, dealID uint64) ([]*Reward, error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	var rewards []*Reward
	err := meddler.QueryAll(s.db, &rewards, `SELECT * FROM rewards WHERE deal_id = ? ORDER BY user_address ASC`, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rewards: %w", err)
	}

	return rewards, nil
}

// GetRewardClaim returns the latest reward split of a deal, or nil when rewards were
// never claimed for it.
func (s *Store) GetRewardClaim(ctx context.Context, dealID uint64) (*RewardClaim, error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	var claim RewardClaim
	if err := meddler.QueryRow(s.db, &claim, `SELECT * FROM reward_claims WHERE deal_id = ?`, dealID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query reward claim: %w", err)
	}

	return &claim, nil
}

// ListEvents returns processed events in chain order.
func (s *Store) ListEvents(ctx context.Context, filter EventFilter) ([]*EventLogEntry, error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	var (
		conditions []string
		args       []any
	)
	if filter.EventName != "" {
		conditions = append(conditions, "event_name = ?")
		args = append(args, filter.EventName)
	}
	if filter.DealID != nil {
		conditions = append(conditions, "json_extract(args, '$.dealId') = ?")
		args = append(args, *filter.DealID)
	}
	if filter.FromBlock > 0 {
		conditions = append(conditions, "block_number >= ?")
		args = append(args, filter.FromBlock)
	}
	if filter.ToBlock > 0 {
		conditions = append(conditions, "block_number <= ?")
		args = append(args, filter.ToBlock)
	}

	query := `SELECT * FROM event_log`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY block_number ASC, log_index ASC LIMIT ? OFFSET ?`
	args = append(args, clampLimit(filter.Limit), max(filter.Offset, 0))

	var events []*EventLogEntry
	if err := meddler.QueryAll(s.db, &events, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	return events, nil
}

// ListPendingEvents returns parked events whose deal is indexed first, in chain order,
// followed by the rest, least recently attempted first. Orphans of deals that are never
// indexed therefore cannot starve events that became replayable.
func (s *Store) ListPendingEvents(ctx context.Context, limit int) ([]*PendingEvent, error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	const query = `
		SELECT p.* FROM pending_events p
		LEFT JOIN deals d ON d.deal_id = p.deal_id
		ORDER BY d.deal_id IS NULL ASC,
			CASE WHEN d.deal_id IS NULL THEN p.last_attempt ELSE 0 END ASC,
			p.block_number ASC, p.log_index ASC
		LIMIT ?
	`

	var events []*PendingEvent
	if err := meddler.QueryAll(s.db, &events, query, clampLimit(limit)); err != nil {
		return nil, fmt.Errorf("failed to query pending events: %w", err)
	}

	return events, nil
}

// EventRecorded reports whether an event is already in the event log.
func (s *Store) EventRecorded(ctx context.Context, txHash common.Hash, logIndex uint) (bool, error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_log WHERE tx_hash = ? AND log_index = ?`, txHash.Hex(), logIndex).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query event log: %w", err)
	}

	return n > 0, nil
}

// GetCursors returns the last delivered block of every event stream.
func (s *Store) GetCursors(ctx context.Context) (map[string]uint64, error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	var cursors []*Cursor
	if err := meddler.QueryAll(s.db, &cursors, `SELECT * FROM subscription_cursors`); err != nil {
		return nil, fmt.Errorf("failed to query cursors: %w", err)
	}

	result := make(map[string]uint64, len(cursors))
	for _, c := range cursors {
		result[c.EventName] = c.LastBlock
	}

	return result, nil
}

// Stats counts the rows of the projection.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	stats := &Stats{DealsByStatus: make(map[DealStatus]int)}

	counts := []struct {
		table string
		dst   *int
	}{
		{"deals", &stats.Deals},
		{"deposits", &stats.Deposits},
		{"rewards", &stats.Rewards},
		{"event_log", &stats.Events},
		{"pending_events", &stats.PendingEvents},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+c.table).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM deals GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count deals by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan deal status count: %w", err)
		}
		stats.DealsByStatus[DealStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deal status counts: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(block_number), 0) FROM event_log`).Scan(&stats.LastBlock); err != nil {
		return nil, fmt.Errorf("failed to query last block: %w", err)
	}

	return stats, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}

	return min(limit, maxListLimit)
}
