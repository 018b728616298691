package store

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// UpsertReward sets the reward of user in a deal. The latest write wins; amounts are
// never accumulated across claims.
func (t *Tx) UpsertReward(dealID uint64, user common.Address, amount *big.Int, block uint64) error {
	const query = `
		INSERT INTO rewards (deal_id, user_address, amount, updated_block, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(deal_id, user_address) DO UPDATE SET
			amount = excluded.amount,
			updated_block = excluded.updated_block,
			updated_at = excluded.updated_at
	`

	_, err := t.exec("upsert reward", query, dealID, user.Hex(), bigString(amount), block, t.timestamp())

	return err
}

// UpsertRewardClaim stores the latest reward split of a deal.
func (t *Tx) UpsertRewardClaim(claim *RewardClaim) error {
	const query = `
		INSERT INTO reward_claims (deal_id, total_rewards, distributed, residual, total_deposited,
			depositors, tx_hash, log_index, block_number, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(deal_id) DO UPDATE SET
			total_rewards = excluded.total_rewards,
			distributed = excluded.distributed,
			residual = excluded.residual,
			total_deposited = excluded.total_deposited,
			depositors = excluded.depositors,
			tx_hash = excluded.tx_hash,
			log_index = excluded.log_index,
			block_number = excluded.block_number,
			updated_at = excluded.updated_at
	`

	_, err := t.exec("upsert reward claim", query,
		claim.DealID, bigString(claim.TotalRewards), bigString(claim.Distributed), bigString(claim.Residual),
		bigString(claim.TotalDeposited), claim.Depositors, claim.TxHash.Hex(), claim.LogIndex,
		claim.BlockNumber, t.timestamp())

	return err
}
