package api

import (
	"encoding/json"
	"time"

	"github.com/goran-ethernal/DealIndexor/internal/indexer"
	"github.com/goran-ethernal/DealIndexor/internal/store"
)

// Amounts are rendered as base-10 strings so token values never lose precision
// in JSON clients.

// DealResponse represents a single deal.
type DealResponse struct {
	DealID         uint64  `json:"deal_id"`
	DepositToken   string  `json:"deposit_token"`
	MinDeposit     string  `json:"min_deposit"`
	MaxDeposit     string  `json:"max_deposit"`
	TotalDeposited string  `json:"total_deposited"`
	StartTime      uint64  `json:"start_time"`
	Duration       uint64  `json:"duration"`
	Status         string  `json:"status"`
	ExpectedYield  string  `json:"expected_yield"`
	ChannelID      *string `json:"channel_id,omitempty"`
	CreatedBlock   uint64  `json:"created_block"`
	CreatedTxHash  string  `json:"created_tx_hash"`
	UpdatedAt      int64   `json:"updated_at"`
}

// DealsResponse represents a page of deals.
type DealsResponse struct {
	Deals      []DealResponse   `json:"deals"`
	Pagination PaginationResult `json:"pagination"`
}

// DepositResponse represents one deposit position.
type DepositResponse struct {
	PositionID  uint64 `json:"position_id"`
	Depositor   string `json:"depositor"`
	Amount      string `json:"amount"`
	TxHash      string `json:"tx_hash"`
	BlockNumber uint64 `json:"block_number"`
	LogIndex    uint   `json:"log_index"`
	Timestamp   uint64 `json:"timestamp"`
}

// DepositsResponse lists the deposits of a deal.
type DepositsResponse struct {
	DealID   uint64            `json:"deal_id"`
	Deposits []DepositResponse `json:"deposits"`
}

// RewardResponse is the entitlement of one user.
type RewardResponse struct {
	UserAddress  string `json:"user_address"`
	Amount       string `json:"amount"`
	UpdatedBlock uint64 `json:"updated_block"`
}

// ClaimResponse summarizes the last reward split of a deal.
type ClaimResponse struct {
	TotalRewards   string `json:"total_rewards"`
	Distributed    string `json:"distributed"`
	Residual       string `json:"residual"`
	TotalDeposited string `json:"total_deposited"`
	Depositors     int    `json:"depositors"`
	TxHash         string `json:"tx_hash"`
	BlockNumber    uint64 `json:"block_number"`
}

// RewardsResponse lists the rewards of a deal with its claim summary.
type RewardsResponse struct {
	DealID  uint64           `json:"deal_id"`
	Rewards []RewardResponse `json:"rewards"`
	Claim   *ClaimResponse   `json:"claim,omitempty"`
}

// EventResponse represents one processed event.
type EventResponse struct {
	TxHash          string          `json:"tx_hash"`
	LogIndex        uint            `json:"log_index"`
	EventName       string          `json:"event_name"`
	ContractAddress string          `json:"contract_address"`
	BlockNumber     uint64          `json:"block_number"`
	BlockHash       string          `json:"block_hash"`
	Args            json.RawMessage `json:"args" swaggertype:"object"`
	Timestamp       uint64          `json:"timestamp"`
}

// EventsResponse represents a page of events.
type EventsResponse struct {
	Events     []EventResponse  `json:"events"`
	Pagination PaginationResult `json:"pagination"`
}

// PaginationResult contains pagination metadata.
type PaginationResult struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Indexer   *indexer.Status   `json:"indexer,omitempty"`
	Cursors   map[string]uint64 `json:"cursors"`
	Stats     *store.Stats      `json:"stats,omitempty"`
}

func toDealResponse(d *store.Deal) DealResponse {
	return DealResponse{
		DealID:         d.DealID,
		DepositToken:   d.DepositToken.Hex(),
		MinDeposit:     bigString(d.MinDeposit),
		MaxDeposit:     bigString(d.MaxDeposit),
		TotalDeposited: bigString(d.TotalDeposited),
		StartTime:      d.StartTime,
		Duration:       d.Duration,
		Status:         d.Status.String(),
		ExpectedYield:  bigString(d.ExpectedYield),
		ChannelID:      d.ChannelID,
		CreatedBlock:   d.CreatedBlock,
		CreatedTxHash:  d.CreatedTxHash.Hex(),
		UpdatedAt:      d.UpdatedAt,
	}
}

func toDepositResponse(d *store.Deposit) DepositResponse {
	return DepositResponse{
		PositionID:  d.PositionID,
		Depositor:   d.Depositor.Hex(),
		Amount:      bigString(d.Amount),
		TxHash:      d.TxHash.Hex(),
		BlockNumber: d.BlockNumber,
		LogIndex:    d.LogIndex,
		Timestamp:   d.Timestamp,
	}
}

func toRewardResponse(r *store.Reward) RewardResponse {
	return RewardResponse{
		UserAddress:  r.UserAddress.Hex(),
		Amount:       bigString(r.Amount),
		UpdatedBlock: r.UpdatedBlock,
	}
}

func toClaimResponse(c *store.RewardClaim) *ClaimResponse {
	if c == nil {
		return nil
	}

	return &ClaimResponse{
		TotalRewards:   bigString(c.TotalRewards),
		Distributed:    bigString(c.Distributed),
		Residual:       bigString(c.Residual),
		TotalDeposited: bigString(c.TotalDeposited),
		Depositors:     c.Depositors,
		TxHash:         c.TxHash.Hex(),
		BlockNumber:    c.BlockNumber,
	}
}

func toEventResponse(e *store.EventLogEntry) EventResponse {
	args := json.RawMessage(e.Args)
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	return EventResponse{
		TxHash:          e.TxHash.Hex(),
		LogIndex:        e.LogIndex,
		EventName:       e.EventName,
		ContractAddress: e.ContractAddress.Hex(),
		BlockNumber:     e.BlockNumber,
		BlockHash:       e.BlockHash.Hex(),
		Args:            args,
		Timestamp:       e.Timestamp,
	}
}
