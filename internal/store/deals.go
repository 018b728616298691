package store

import (
	"database/sql"
	"errors"
	"math/big"

	"github.com/russross/meddler"
)

// UpsertDeal inserts deal unless a row with the same id exists, in which case the
// existing row is left untouched. It reports whether a row was inserted.
func (t *Tx) UpsertDeal(deal *Deal) (bool, error) {
	const query = `
		INSERT INTO deals (deal_id, deposit_token, min_deposit, max_deposit, total_deposited,
			start_time, duration, status, expected_yield, channel_id, created_block, created_tx_hash, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(deal_id) DO NOTHING
	`

	total := deal.TotalDeposited
	if total == nil {
		total = new(big.Int)
	}
	status := deal.Status
	if status == "" {
		status = StatusActive
	}

	n, err := t.execAffected("upsert deal", query,
		deal.DealID, deal.DepositToken.Hex(), bigString(deal.MinDeposit), bigString(deal.MaxDeposit),
		total.String(), deal.StartTime, deal.Duration, string(status), bigString(deal.ExpectedYield),
		deal.ChannelID, deal.CreatedBlock, deal.CreatedTxHash.Hex(), t.timestamp())
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// GetDeal returns the deal with the given id or ErrDealNotFound.
func (t *Tx) GetDeal(dealID uint64) (*Deal, error) {
	return getDeal(t.tx, dealID)
}

// UpdateDealTotals overwrites the total deposited of a deal.
func (t *Tx) UpdateDealTotals(dealID uint64, total *big.Int) error {
	const query = `UPDATE deals SET total_deposited = ?, updated_at = ? WHERE deal_id = ?`

	n, err := t.execAffected("update deal totals", query, bigString(total), t.timestamp(), dealID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDealNotFound
	}

	return nil
}

// UpdateDealStatus sets the status of a deal. A non-empty channelID is stored with it;
// nil or empty keeps the current channel.
func (t *Tx) UpdateDealStatus(dealID uint64, status DealStatus, channelID *string) error {
	const query = `
		UPDATE deals
		SET status = ?, channel_id = COALESCE(?, channel_id), updated_at = ?
		WHERE deal_id = ?
	`

	var channel *string
	if channelID != nil && *channelID != "" {
		channel = channelID
	}

	n, err := t.execAffected("update deal status", query, string(status), channel, t.timestamp(), dealID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDealNotFound
	}

	return nil
}

func getDeal(q meddler.DB, dealID uint64) (*Deal, error) {
	var deal Deal
	if err := meddler.QueryRow(q, &deal, `SELECT * FROM deals WHERE deal_id = ?`, dealID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDealNotFound
		}
		return nil, txError("get deal", err)
	}

	return &deal, nil
}

func bigString(n *big.Int) string {
	if n == nil {
		return "0"
	}

	return n.String()
}
