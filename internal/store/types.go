package store

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// DealStatus is the lifecycle state of a deal.
type DealStatus string

const (
	StatusActive    DealStatus = "active"
	StatusLocked    DealStatus = "locked"
	StatusSettling  DealStatus = "settling"
	StatusFinalized DealStatus = "finalized"
	StatusCancelled DealStatus = "cancelled"
)

// allowedTransitions lists the forward edges of the status machine.
var allowedTransitions = map[DealStatus][]DealStatus{
	StatusActive:   {StatusLocked, StatusCancelled},
	StatusLocked:   {StatusSettling},
	StatusSettling: {StatusFinalized},
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s DealStatus) CanTransitionTo(next DealStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValid reports whether s is a known status.
func (s DealStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusLocked, StatusSettling, StatusFinalized, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s DealStatus) String() string {
	return string(s)
}

// Deal is the projection of one deal.
type Deal struct {
	DealID         uint64         `meddler:"deal_id"`
	DepositToken   common.Address `meddler:"deposit_token,address"`
	MinDeposit     *big.Int       `meddler:"min_deposit,bigint"`
	MaxDeposit     *big.Int       `meddler:"max_deposit,bigint"`
	TotalDeposited *big.Int       `meddler:"total_deposited,bigint"`
	StartTime      uint64         `meddler:"start_time"`
	Duration       uint64         `meddler:"duration"`
	Status         DealStatus     `meddler:"status"`
	ExpectedYield  *big.Int       `meddler:"expected_yield,bigint"`
	ChannelID      *string        `meddler:"channel_id"`
	CreatedBlock   uint64         `meddler:"created_block"`
	CreatedTxHash  common.Hash    `meddler:"created_tx_hash,hash"`
	UpdatedAt      int64          `meddler:"updated_at"`
}

// Deposit is one position in a deal. Immutable once stored.
type Deposit struct {
	PositionID  uint64         `meddler:"position_id"`
	DealID      uint64         `meddler:"deal_id"`
	Depositor   common.Address `meddler:"depositor,address"`
	Amount      *big.Int       `meddler:"amount,bigint"`
	TxHash      common.Hash    `meddler:"tx_hash,hash"`
	BlockNumber uint64         `meddler:"block_number"`
	LogIndex    uint           `meddler:"log_index"`
	Timestamp   uint64         `meddler:"timestamp"`
}

// Reward is the reward entitlement of one user in one deal.
type Reward struct {
	DealID       uint64         `meddler:"deal_id"`
	UserAddress  common.Address `meddler:"user_address,address"`
	Amount       *big.Int       `meddler:"amount,bigint"`
	UpdatedBlock uint64         `meddler:"updated_block"`
	UpdatedAt    int64          `meddler:"updated_at"`
}

// RewardClaim records the last reward split computed for a deal, including the
// undistributed residual left by integer division.
type RewardClaim struct {
	DealID         uint64      `meddler:"deal_id"`
	TotalRewards   *big.Int    `meddler:"total_rewards,bigint"`
	Distributed    *big.Int    `meddler:"distributed,bigint"`
	Residual       *big.Int    `meddler:"residual,bigint"`
	TotalDeposited *big.Int    `meddler:"total_deposited,bigint"`
	Depositors     int         `meddler:"depositors"`
	TxHash         common.Hash `meddler:"tx_hash,hash"`
	LogIndex       uint        `meddler:"log_index"`
	BlockNumber    uint64      `meddler:"block_number"`
	UpdatedAt      int64       `meddler:"updated_at"`
}

// EventLogEntry is one processed contract event.
type EventLogEntry struct {
	TxHash          common.Hash    `meddler:"tx_hash,hash"`
	LogIndex        uint           `meddler:"log_index"`
	EventName       string         `meddler:"event_name"`
	ContractAddress common.Address `meddler:"contract_address,address"`
	BlockNumber     uint64         `meddler:"block_number"`
	BlockHash       common.Hash    `meddler:"block_hash,hash"`
	// Args holds the event arguments as a JSON object
	Args      string `meddler:"args"`
	Timestamp uint64 `meddler:"timestamp"`
}

// PendingEvent is an event parked because its parent deal was not indexed yet.
type PendingEvent struct {
	TxHash      common.Hash `meddler:"tx_hash,hash"`
	LogIndex    uint        `meddler:"log_index"`
	EventName   string      `meddler:"event_name"`
	DealID      uint64      `meddler:"deal_id"`
	BlockNumber uint64      `meddler:"block_number"`
	// RawLog is the JSON encoded types.Log
	RawLog      string `meddler:"raw_log"`
	Reason      string `meddler:"reason"`
	Attempts    int    `meddler:"attempts"`
	FirstSeen   int64  `meddler:"first_seen"`
	LastAttempt int64  `meddler:"last_attempt"`
}

// Cursor is the last block delivered by the subscription of one event.
type Cursor struct {
	EventName string `meddler:"event_name"`
	LastBlock uint64 `meddler:"last_block"`
	UpdatedAt int64  `meddler:"updated_at"`
}

// RecordResult is the outcome of appending to the event log.
type RecordResult int

const (
	// Inserted means the event is new and its side effects must be applied.
	Inserted RecordResult = iota
	// AlreadyExists means the event was processed before; skip all side effects.
	AlreadyExists
)

func (r RecordResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case AlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// DealFilter narrows ListDeals.
type DealFilter struct {
	Status DealStatus
	Limit  int
	Offset int
}

// EventFilter narrows ListEvents.
type EventFilter struct {
	EventName string
	DealID    *uint64
	FromBlock uint64
	ToBlock   uint64
	Limit     int
	Offset    int
}

// Stats summarizes the projection.
type Stats struct {
	Deals         int                `json:"deals"`
	DealsByStatus map[DealStatus]int `json:"deals_by_status"`
	Deposits      int                `json:"deposits"`
	Rewards       int                `json:"rewards"`
	Events        int                `json:"events"`
	PendingEvents int                `json:"pending_events"`
	LastBlock     uint64             `json:"last_block"`
}
