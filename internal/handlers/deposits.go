package handlers

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/goran-ethernal/DealIndexor/internal/contract"
	"github.com/goran-ethernal/DealIndexor/internal/logger"
	"github.com/goran-ethernal/DealIndexor/internal/store"
)

// depositedHandler stores the position and re-reads the deal total from the
// contract instead of summing locally, so a missed event cannot make it drift.
type depositedHandler struct {
	reader contract.TotalsReader
	log    *logger.Logger
}

func (h *depositedHandler) EventName() string {
	return contract.EventDeposited
}

type depositPrep struct {
	deposited contract.Deposited
	total     *big.Int
}

// Prepare decodes the deposit and reads the deal total at the event's block.
func (h *depositedHandler) Prepare(ctx context.Context, deals DealGetter, ev *Event) error {
	deposited, err := contract.DecodeDeposited(ev.Args)
	if err != nil {
		return malformed(ev.EventName, err)
	}

	if deposited.Amount.Sign() <= 0 {
		return invariantf(deposited.DealID, "position %d has non-positive amount %s",
			deposited.PositionID, deposited.Amount)
	}

	if err := requireDeal(ctx, deals, deposited.DealID); err != nil {
		return err
	}

	total, err := h.reader.TotalDeposited(ctx, deposited.DealID, ev.BlockNumber)
	if err != nil {
		return fmt.Errorf("read total deposited of deal %d: %w", deposited.DealID, err)
	}
	if total.Sign() < 0 {
		return invariantf(deposited.DealID, "contract reported negative total %s", total)
	}

	ev.prepared = &depositPrep{deposited: deposited, total: total}

	return nil
}

func (h *depositedHandler) Handle(ctx context.Context, tx *store.Tx, ev *Event) error {
	prep, ok := ev.prepared.(*depositPrep)
	if !ok {
		return fmt.Errorf("%s handled without Prepare", ev.EventName)
	}
	deposited, total := prep.deposited, prep.total

	deal, err := tx.GetDeal(deposited.DealID)
	if err != nil {
		if errors.Is(err, store.ErrDealNotFound) {
			return missingParent(deposited.DealID)
		}
		return err
	}

	err = tx.UpsertDeposit(&store.Deposit{
		PositionID:  deposited.PositionID,
		DealID:      deposited.DealID,
		Depositor:   deposited.User,
		Amount:      deposited.Amount,
		TxHash:      ev.TxHash,
		BlockNumber: ev.BlockNumber,
		LogIndex:    ev.LogIndex,
		Timestamp:   ev.BlockTime,
	})
	if err != nil {
		return err
	}

	if deal.Status == store.StatusActive && deal.TotalDeposited != nil && total.Cmp(deal.TotalDeposited) < 0 {
		return invariantf(deposited.DealID, "total deposited would decrease from %s to %s while active",
			deal.TotalDeposited, total)
	}

	if err := tx.UpdateDealTotals(deposited.DealID, total); err != nil {
		return err
	}

	h.log.Debugw("deposit stored",
		"deal_id", deposited.DealID, "position_id", deposited.PositionID,
		"amount", deposited.Amount.String(), "total", total.String())

	return nil
}
