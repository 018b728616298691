package handlers

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goran-ethernal/DealIndexor/internal/contract"
	"github.com/goran-ethernal/DealIndexor/internal/logger"
	"github.com/goran-ethernal/DealIndexor/internal/store"
)

// Share is the reward of one user.
type Share struct {
	User      common.Address
	Deposited *big.Int
	Amount    *big.Int
}

// Split is a pro-rata distribution of rewards over the deposits of a deal.
type Split struct {
	Shares         []Share
	TotalDeposited *big.Int
	Distributed    *big.Int
	Residual       *big.Int
}

// SplitRewards distributes rewards over deposits proportionally to the amount each
// user deposited: share = floor(userTotal * rewards / total). Deposits are aggregated
// per user first, in order of each user's first deposit. The undistributed remainder
// is returned as the residual. With no deposits every unit is residual.
func SplitRewards(deposits []*store.Deposit, rewards *big.Int) Split {
	var (
		order  []common.Address
		byUser = make(map[common.Address]*big.Int)
		total  = new(big.Int)
	)

	for _, d := range deposits {
		amount, ok := byUser[d.Depositor]
		if !ok {
			amount = new(big.Int)
			byUser[d.Depositor] = amount
			order = append(order, d.Depositor)
		}
		amount.Add(amount, d.Amount)
		total.Add(total, d.Amount)
	}

	split := Split{
		TotalDeposited: total,
		Distributed:    new(big.Int),
	}

	if total.Sign() == 0 {
		split.Residual = new(big.Int).Set(rewards)
		return split
	}

	for _, user := range order {
		share := new(big.Int).Mul(byUser[user], rewards)
		share.Quo(share, total)

		split.Shares = append(split.Shares, Share{User: user, Deposited: byUser[user], Amount: share})
		split.Distributed.Add(split.Distributed, share)
	}
	split.Residual = new(big.Int).Sub(rewards, split.Distributed)

	return split
}

type rewardsClaimedHandler struct {
	reader contract.TotalsReader
	log    *logger.Logger
}

type claimPrep struct {
	claimed contract.RewardsClaimed
	// total is the contract's deposit total at the claim block
	total *big.Int
}

func (h *rewardsClaimedHandler) EventName() string {
	return contract.EventRewardsClaimedFromProtocol
}

// Prepare decodes the claim and reads the deal total the split must cover.
func (h *rewardsClaimedHandler) Prepare(ctx context.Context, deals DealGetter, ev *Event) error {
	claimed, err := contract.DecodeRewardsClaimed(ev.Args)
	if err != nil {
		return malformed(ev.EventName, err)
	}

	if claimed.TotalRewards.Sign() < 0 {
		return invariantf(claimed.DealID, "negative total rewards %s", claimed.TotalRewards)
	}

	if err := requireDeal(ctx, deals, claimed.DealID); err != nil {
		return err
	}

	total, err := h.reader.TotalDeposited(ctx, claimed.DealID, ev.BlockNumber)
	if err != nil {
		return fmt.Errorf("read total deposited of deal %d: %w", claimed.DealID, err)
	}

	ev.prepared = &claimPrep{claimed: claimed, total: total}

	return nil
}

func (h *rewardsClaimedHandler) Handle(ctx context.Context, tx *store.Tx, ev *Event) error {
	prep, ok := ev.prepared.(*claimPrep)
	if !ok {
		return fmt.Errorf("%s handled without Prepare", ev.EventName)
	}
	claimed := prep.claimed

	if _, err := tx.GetDeal(claimed.DealID); err != nil {
		if errors.Is(err, store.ErrDealNotFound) {
			return missingParent(claimed.DealID)
		}
		return err
	}

	deposits, err := tx.ListDeposits(claimed.DealID)
	if err != nil {
		return err
	}

	split := SplitRewards(deposits, claimed.TotalRewards)

	switch split.TotalDeposited.Cmp(prep.total) {
	case -1:
		return fmt.Errorf("%w: deal %d has %s of %s indexed at block %d",
			ErrDepositsBehind, claimed.DealID, split.TotalDeposited, prep.total, ev.BlockNumber)
	case 1:
		h.log.Warnw("indexed deposits exceed the contract total, splitting over indexed deposits",
			"deal_id", claimed.DealID, "indexed", split.TotalDeposited.String(), "contract", prep.total.String())
	}

	if split.Distributed.Cmp(claimed.TotalRewards) > 0 {
		return invariantf(claimed.DealID, "distributed %s exceeds claimed rewards %s",
			split.Distributed, claimed.TotalRewards)
	}
	if len(split.Shares) > 0 && split.Residual.Cmp(big.NewInt(int64(len(split.Shares)))) >= 0 {
		return invariantf(claimed.DealID, "residual %s is not below the number of depositors %d",
			split.Residual, len(split.Shares))
	}

	if split.TotalDeposited.Sign() == 0 {
		h.log.Warnw("rewards claimed for deal without deposits, nothing distributed",
			"deal_id", claimed.DealID, "rewards", claimed.TotalRewards.String())
	}

	for _, share := range split.Shares {
		if err := tx.UpsertReward(claimed.DealID, share.User, share.Amount, ev.BlockNumber); err != nil {
			return err
		}
	}

	err = tx.UpsertRewardClaim(&store.RewardClaim{
		DealID:         claimed.DealID,
		TotalRewards:   claimed.TotalRewards,
		Distributed:    split.Distributed,
		Residual:       split.Residual,
		TotalDeposited: split.TotalDeposited,
		Depositors:     len(split.Shares),
		TxHash:         ev.TxHash,
		LogIndex:       ev.LogIndex,
		BlockNumber:    ev.BlockNumber,
	})
	if err != nil {
		return err
	}

	if split.Residual.Sign() > 0 {
		RewardResidualAdd(split.Residual)
	}

	h.log.Infow("rewards distributed",
		"deal_id", claimed.DealID, "rewards", claimed.TotalRewards.String(),
		"distributed", split.Distributed.String(), "residual", split.Residual.String(),
		"depositors", len(split.Shares))

	return nil
}
