package handlers

import (
	"context"
	"errors"

	"github.com/goran-ethernal/DealIndexor/internal/contract"
	"github.com/goran-ethernal/DealIndexor/internal/logger"
	"github.com/goran-ethernal/DealIndexor/internal/store"
)

type dealCreatedHandler struct {
	log *logger.Logger
}

func (h *dealCreatedHandler) EventName() string {
	return contract.EventDealCreated
}

func (h *dealCreatedHandler) Handle(ctx context.Context, tx *store.Tx, ev *Event) error {
	created, err := contract.DecodeDealCreated(ev.Args)
	if err != nil {
		return malformed(ev.EventName, err)
	}

	inserted, err := tx.UpsertDeal(&store.Deal{
		DealID:        created.DealID,
		DepositToken:  created.DepositToken,
		MinDeposit:    created.MinDeposit,
		MaxDeposit:    created.MaxDeposit,
		StartTime:     created.StartTime,
		Duration:      created.Duration,
		Status:        store.StatusActive,
		ExpectedYield: created.ExpectedYield,
		CreatedBlock:  ev.BlockNumber,
		CreatedTxHash: ev.TxHash,
	})
	if err != nil {
		return err
	}

	if !inserted {
		h.log.Warnw("deal already exists, keeping stored values",
			"deal_id", created.DealID, "tx_hash", ev.TxHash.Hex(), "log_index", ev.LogIndex)
		return nil
	}

	h.log.Infow("deal created", "deal_id", created.DealID, "block", ev.BlockNumber)

	return nil
}

// statusHandler moves a deal along the status machine. Illegal transitions are
// logged and discarded; the event itself is still recorded as processed.
type statusHandler struct {
	event  string
	target store.DealStatus
	log    *logger.Logger
}

func (h *statusHandler) EventName() string {
	return h.event
}

func (h *statusHandler) Handle(ctx context.Context, tx *store.Tx, ev *Event) error {
	var (
		dealID    uint64
		channelID *string
	)

	if h.event == contract.EventDealLocked {
		locked, err := contract.DecodeDealLocked(ev.Args)
		if err != nil {
			return malformed(ev.EventName, err)
		}
		dealID = locked.DealID
		if locked.ChannelID != "" {
			channelID = &locked.ChannelID
		}
	} else {
		id, err := DealID(ev.RawEvent)
		if err != nil {
			return malformed(ev.EventName, err)
		}
		dealID = id
	}

	deal, err := tx.GetDeal(dealID)
	if err != nil {
		if errors.Is(err, store.ErrDealNotFound) {
			return missingParent(dealID)
		}
		return err
	}

	if !deal.Status.CanTransitionTo(h.target) {
		IllegalTransitionInc(h.event, deal.Status)
		h.log.Warnw("illegal status transition discarded",
			"deal_id", dealID, "from", deal.Status, "to", h.target,
			"tx_hash", ev.TxHash.Hex(), "log_index", ev.LogIndex)
		return nil
	}

	if err := tx.UpdateDealStatus(dealID, h.target, channelID); err != nil {
		return err
	}

	h.log.Infow("deal status changed", "deal_id", dealID, "from", deal.Status, "to", h.target)

	return nil
}
