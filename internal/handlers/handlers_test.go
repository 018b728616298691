package handlers

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/DealIndexor/internal/contract"
	contractmocks "github.com/goran-ethernal/DealIndexor/internal/contract/mocks"
	"github.com/goran-ethernal/DealIndexor/internal/db"
	"github.com/goran-ethernal/DealIndexor/internal/logger"
	"github.com/goran-ethernal/DealIndexor/internal/migrations"
	irpc "github.com/goran-ethernal/DealIndexor/internal/rpc"
	"github.com/goran-ethernal/DealIndexor/internal/store"
	pkgrpc "github.com/goran-ethernal/DealIndexor/pkg/rpc"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	vaultAddress = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	tokenAddress = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	userA        = common.HexToAddress("0x000000000000000000000000000000000000000a")
	userB        = common.HexToAddress("0x000000000000000000000000000000000000000b")
)

type testEnv struct {
	store     *store.Store
	reader    *contractmocks.TotalsReader
	processor *Processor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sqlDB, err := db.NewSQLiteDB(filepath.Join(t.TempDir(), "deals.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, migrations.RunMigrationsDB(logger.NewNopLogger(), sqlDB))

	st := store.New(sqlDB, nil, logger.NewNopLogger())
	reader := contractmocks.NewTotalsReader(t)
	registry := NewRegistry(reader, logger.NewNopLogger())

	return &testEnv{
		store:     st,
		reader:    reader,
		processor: NewProcessor(st, registry, logger.NewNopLogger()),
	}
}

func rawEvent(name string, block uint64, index uint, args map[string]any) pkgrpc.RawEvent {
	log := types.Log{
		Address:     vaultAddress,
		Topics:      []common.Hash{common.BytesToHash([]byte(name))},
		Data:        []byte{},
		BlockNumber: block,
		TxHash:      common.BigToHash(new(big.Int).SetUint64(block*1000 + uint64(index))),
		BlockHash:   common.BigToHash(new(big.Int).SetUint64(block)),
		Index:       index,
	}

	return pkgrpc.NewRawEvent(name, args, log, func(ctx context.Context) (uint64, error) {
		return 1_700_000_000 + block*12, nil
	})
}

func dealCreated(dealID, block uint64) pkgrpc.RawEvent {
	return rawEvent(contract.EventDealCreated, block, 0, map[string]any{
		"dealId":        new(big.Int).SetUint64(dealID),
		"depositToken":  tokenAddress,
		"minDeposit":    big.NewInt(1),
		"maxDeposit":    big.NewInt(1_000_000),
		"startTime":     big.NewInt(1_700_000_000),
		"duration":      big.NewInt(30 * 86400),
		"expectedYield": big.NewInt(750),
	})
}

func deposited(dealID, positionID uint64, user common.Address, amount int64, block uint64) pkgrpc.RawEvent {
	return rawEvent(contract.EventDeposited, block, 1, map[string]any{
		"dealId":     new(big.Int).SetUint64(dealID),
		"user":       user,
		"positionId": new(big.Int).SetUint64(positionID),
		"amount":     big.NewInt(amount),
	})
}

func rewardsClaimed(dealID uint64, rewards int64, block uint64) pkgrpc.RawEvent {
	return rawEvent(contract.EventRewardsClaimedFromProtocol, block, 2, map[string]any{
		"dealId":       new(big.Int).SetUint64(dealID),
		"totalRewards": big.NewInt(rewards),
	})
}

func lifecycle(name string, dealID, block uint64) pkgrpc.RawEvent {
	return rawEvent(name, block, 3, map[string]any{"dealId": new(big.Int).SetUint64(dealID)})
}

func dealLocked(dealID uint64, channel string, block uint64) pkgrpc.RawEvent {
	return rawEvent(contract.EventDealLocked, block, 3, map[string]any{
		"dealId":    new(big.Int).SetUint64(dealID),
		"channelId": channel,
	})
}

func (e *testEnv) mustProcess(t *testing.T, ev pkgrpc.RawEvent, expected Outcome) {
	t.Helper()

	outcome, _ := e.processor.Process(context.Background(), ev)
	require.Equal(t, expected, outcome, "event %s at block %d", ev.EventName, ev.BlockNumber)
}

func (e *testEnv) expectTotal(dealID, block uint64, total int64) {
	e.reader.EXPECT().TotalDeposited(mock.Anything, dealID, block).Return(big.NewInt(total), nil).Once()
}

func (e *testEnv) rewardsOf(t *testing.T, dealID uint64) map[common.Address]string {
	t.Helper()

	rewards, err := e.store.ListRewards(context.Background(), dealID)
	require.NoError(t, err)

	result := make(map[common.Address]string, len(rewards))
	for _, r := range rewards {
		result[r.UserAddress] = r.Amount.String()
	}
	return result
}

func TestRewardScenarios(t *testing.T) {
	testCases := []struct {
		name     string
		rewards  int64
		expected map[common.Address]string
		residual string
	}{
		{
			name:     "exact split",
			rewards:  40,
			expected: map[common.Address]string{userA: "10", userB: "30"},
			residual: "0",
		},
		{
			name:     "split with residual",
			rewards:  41,
			expected: map[common.Address]string{userA: "10", userB: "30"},
			residual: "1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()

			env.expectTotal(1, 11, 100)
			env.expectTotal(1, 12, 400)
			env.expectTotal(1, 13, 400)

			env.mustProcess(t, dealCreated(1, 10), OutcomeApplied)
			env.mustProcess(t, deposited(1, 10, userA, 100, 11), OutcomeApplied)
			env.mustProcess(t, deposited(1, 11, userB, 300, 12), OutcomeApplied)
			env.mustProcess(t, rewardsClaimed(1, tc.rewards, 13), OutcomeApplied)

			require.Equal(t, tc.expected, env.rewardsOf(t, 1))

			claim, err := env.store.GetRewardClaim(ctx, 1)
			require.NoError(t, err)
			require.Equal(t, tc.residual, claim.Residual.String())
			require.Equal(t, "40", claim.Distributed.String())
			require.Equal(t, "400", claim.TotalDeposited.String())
			require.Equal(t, 2, claim.Depositors)
		})
	}
}

func TestIdempotence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// The contract is read once per deposit and claim; replays never reach the handler
	env.expectTotal(1, 11, 100)
	env.expectTotal(1, 12, 400)
	env.expectTotal(1, 13, 400)

	events := []pkgrpc.RawEvent{
		dealCreated(1, 10),
		deposited(1, 10, userA, 100, 11),
		deposited(1, 11, userB, 300, 12),
		rewardsClaimed(1, 41, 13),
		dealLocked(1, "channel-7", 14),
	}
	for _, ev := range events {
		env.mustProcess(t, ev, OutcomeApplied)
	}

	dealBefore, err := env.store.GetDeal(ctx, 1)
	require.NoError(t, err)
	rewardsBefore := env.rewardsOf(t, 1)
	statsBefore, err := env.store.Stats(ctx)
	require.NoError(t, err)

	for _, ev := range events {
		env.mustProcess(t, ev, OutcomeDuplicate)
	}

	dealAfter, err := env.store.GetDeal(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, dealBefore, dealAfter)
	require.Equal(t, rewardsBefore, env.rewardsOf(t, 1))

	statsAfter, err := env.store.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, statsBefore, statsAfter)
}

func TestConservation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustProcess(t, dealCreated(1, 10), OutcomeApplied)

	amounts := []int64{100, 250, 7, 1_000}
	running := int64(0)
	for i, amount := range amounts {
		running += amount
		block := uint64(20 + i)
		env.expectTotal(1, block, running)

		user := userA
		if i%2 == 1 {
			user = userB
		}
		env.mustProcess(t, deposited(1, uint64(100+i), user, amount, block), OutcomeApplied)
	}

	deal, err := env.store.GetDeal(ctx, 1)
	require.NoError(t, err)

	deposits, err := env.store.ListDeposits(ctx, 1)
	require.NoError(t, err)
	require.Len(t, deposits, len(amounts))

	sum := new(big.Int)
	for _, d := range deposits {
		sum.Add(sum, d.Amount)
		require.NotZero(t, d.Timestamp)
	}
	require.Equal(t, 0, sum.Cmp(deal.TotalDeposited))
}

func TestStatusMonotonicity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	status := func() store.DealStatus {
		deal, err := env.store.GetDeal(ctx, 1)
		require.NoError(t, err)
		return deal.Status
	}

	env.mustProcess(t, dealCreated(1, 10), OutcomeApplied)
	require.Equal(t, store.StatusActive, status())

	// Skipping ahead is illegal; the event is recorded but changes nothing
	env.mustProcess(t, lifecycle(contract.EventDealFinalized, 1, 11), OutcomeApplied)
	require.Equal(t, store.StatusActive, status())

	env.mustProcess(t, dealLocked(1, "channel-1", 12), OutcomeApplied)
	require.Equal(t, store.StatusLocked, status())

	env.mustProcess(t, lifecycle(contract.EventDealCancelled, 1, 13), OutcomeApplied)
	require.Equal(t, store.StatusLocked, status())

	env.mustProcess(t, lifecycle(contract.EventDealSettling, 1, 14), OutcomeApplied)
	env.mustProcess(t, dealLocked(1, "channel-2", 15), OutcomeApplied)
	require.Equal(t, store.StatusSettling, status())

	env.mustProcess(t, lifecycle(contract.EventDealFinalized, 1, 16), OutcomeApplied)
	require.Equal(t, store.StatusFinalized, status())

	deal, err := env.store.GetDeal(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "channel-1", *deal.ChannelID)

	events, err := env.store.ListEvents(ctx, store.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 7)
}

func TestCancelActiveDeal(t *testing.T) {
	env := newTestEnv(t)

	env.mustProcess(t, dealCreated(2, 10), OutcomeApplied)
	env.mustProcess(t, lifecycle(contract.EventDealCancelled, 2, 11), OutcomeApplied)

	deal, err := env.store.GetDeal(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, store.StatusCancelled, deal.Status)
	require.Nil(t, deal.ChannelID)
}

func TestOutOfOrderDelivery(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	early := deposited(1, 10, userA, 100, 11)
	outcome, err := env.processor.Process(ctx, early)
	require.Equal(t, OutcomeParked, outcome)
	require.ErrorIs(t, err, ErrMissingParent)

	// No partial deal, no deposit, no event log entry
	_, err = env.store.GetDeal(ctx, 1)
	require.ErrorIs(t, err, store.ErrDealNotFound)
	stats, err := env.store.Stats(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.Deposits)
	require.Zero(t, stats.Events)
	require.Equal(t, 1, stats.PendingEvents)

	pending, err := env.store.ListPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, uint64(1), pending[0].DealID)
	require.Equal(t, contract.EventDeposited, pending[0].EventName)
	require.Contains(t, pending[0].Reason, "parent deal not indexed")

	env.mustProcess(t, dealCreated(1, 10), OutcomeApplied)

	env.expectTotal(1, 11, 100)
	outcome, err = env.processor.Replay(ctx, early)
	require.NoError(t, err)
	require.Equal(t, OutcomeApplied, outcome)

	stats, err = env.store.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Deposits)
	require.Zero(t, stats.PendingEvents)

	deal, err := env.store.GetDeal(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "100", deal.TotalDeposited.String())
}

func TestReplayParkedAgainBumpsAttempts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	early := rewardsClaimed(9, 10, 20)
	env.mustProcess(t, early, OutcomeParked)

	outcome, _ := env.processor.Replay(ctx, early)
	require.Equal(t, OutcomeParked, outcome)

	pending, err := env.store.ListPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, 2, pending[0].Attempts)
}

func TestDeposited_RejectsDecreasingTotal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustProcess(t, dealCreated(1, 10), OutcomeApplied)
	env.expectTotal(1, 11, 500)
	env.mustProcess(t, deposited(1, 10, userA, 500, 11), OutcomeApplied)

	env.expectTotal(1, 12, 400)
	outcome, err := env.processor.Process(ctx, deposited(1, 11, userB, 100, 12))
	require.Equal(t, OutcomeRejected, outcome)

	var invariantErr *InvariantError
	require.ErrorAs(t, err, &invariantErr)
	require.Equal(t, uint64(1), invariantErr.DealID)

	deal, err := env.store.GetDeal(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "500", deal.TotalDeposited.String())

	deposits, err := env.store.ListDeposits(ctx, 1)
	require.NoError(t, err)
	require.Len(t, deposits, 1)
}

func TestDeposited_RejectsZeroAmount(t *testing.T) {
	env := newTestEnv(t)

	env.mustProcess(t, dealCreated(1, 10), OutcomeApplied)
	env.mustProcess(t, deposited(1, 10, userA, 0, 11), OutcomeRejected)
}

func TestDeposited_ConnectivityFailureParks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustProcess(t, dealCreated(1, 10), OutcomeApplied)
	env.reader.EXPECT().TotalDeposited(mock.Anything, uint64(1), uint64(11)).
		Return(nil, &irpc.ConnectivityError{Op: "eth_call", Err: errors.New("connection refused")}).Once()

	env.mustProcess(t, deposited(1, 10, userA, 100, 11), OutcomeParked)

	stats, err := env.store.Stats(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.Deposits)
	require.Equal(t, 1, stats.PendingEvents)
}

func TestDeposited_DuplicatePositionRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustProcess(t, dealCreated(1, 10), OutcomeApplied)
	env.expectTotal(1, 11, 100)
	env.mustProcess(t, deposited(1, 10, userA, 100, 11), OutcomeApplied)

	// Same position, different event and amount
	conflicting := deposited(1, 10, userA, 200, 12)
	env.expectTotal(1, 12, 300)
	outcome, err := env.processor.Process(ctx, conflicting)
	require.Equal(t, OutcomeRejected, outcome)
	require.ErrorIs(t, err, store.ErrDuplicatePosition)

	// Replaying gives the same answer
	env.expectTotal(1, 12, 300)
	outcome, err = env.processor.Replay(ctx, conflicting)
	require.Equal(t, OutcomeRejected, outcome)
	require.ErrorIs(t, err, store.ErrDuplicatePosition)

	deal, err := env.store.GetDeal(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "100", deal.TotalDeposited.String())
}

func TestMalformedEventRejected(t *testing.T) {
	env := newTestEnv(t)

	env.mustProcess(t, dealCreated(1, 10), OutcomeApplied)

	broken := deposited(1, 10, userA, 100, 11)
	delete(broken.Args, "amount")

	outcome, err := env.processor.Process(context.Background(), broken)
	require.Equal(t, OutcomeRejected, outcome)
	require.ErrorIs(t, err, ErrMalformedEvent)

	locked := dealLocked(1, "channel-1", 12)
	locked.Args["dealId"] = "one"
	outcome, err = env.processor.Process(context.Background(), locked)
	require.Equal(t, OutcomeRejected, outcome)
	require.ErrorIs(t, err, ErrMalformedEvent)
}

func TestDeposited_ContractReadOutsideTransaction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustProcess(t, dealCreated(1, 10), OutcomeApplied)

	reading := make(chan struct{})
	release := make(chan struct{})
	env.reader.EXPECT().TotalDeposited(mock.Anything, uint64(1), uint64(11)).
		RunAndReturn(func(context.Context, uint64, uint64) (*big.Int, error) {
			close(reading)
			<-release
			return big.NewInt(100), nil
		}).Once()

	done := make(chan Outcome, 1)
	go func() {
		outcome, _ := env.processor.Process(ctx, deposited(1, 10, userA, 100, 11))
		done <- outcome
	}()
	<-reading

	// Another deal is written while the deposit waits on a slow node
	writeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	outcome, err := env.processor.Process(writeCtx, dealCreated(2, 12))
	require.NoError(t, err)
	require.Equal(t, OutcomeApplied, outcome)

	close(release)
	require.Equal(t, OutcomeApplied, <-done)

	_, err = env.store.GetDeal(ctx, 2)
	require.NoError(t, err)
	deal, err := env.store.GetDeal(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "100", deal.TotalDeposited.String())
}

func TestParkable(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		parkable bool
	}{
		{name: "missing parent", err: missingParent(1), parkable: true},
		{name: "deposits behind", err: fmt.Errorf("%w: deal 1", ErrDepositsBehind), parkable: true},
		{name: "connectivity", err: &irpc.ConnectivityError{Op: "eth_call", Err: errors.New("refused")}, parkable: true},
		{name: "database busy", err: &store.TxError{Op: "begin", Err: sqlite3.Error{Code: sqlite3.ErrBusy}}, parkable: true},
		{name: "table locked", err: &store.TxError{Op: "record event", Err: sqlite3.Error{Code: sqlite3.ErrLocked}}, parkable: true},
		{name: "constraint", err: &store.TxError{Op: "record event", Err: sqlite3.Error{Code: sqlite3.ErrConstraint}}, parkable: false},
		{name: "duplicate position", err: store.ErrDuplicatePosition, parkable: false},
		{name: "invariant", err: invariantf(1, "negative"), parkable: false},
		{name: "malformed", err: malformed(contract.EventDeposited, errors.New("missing amount")), parkable: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.parkable, Parkable(tc.err))
		})
	}
}

func TestRewardsWithoutDeposits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustProcess(t, dealCreated(1, 10), OutcomeApplied)
	env.expectTotal(1, 11, 0)
	env.mustProcess(t, rewardsClaimed(1, 25, 11), OutcomeApplied)

	require.Empty(t, env.rewardsOf(t, 1))

	claim, err := env.store.GetRewardClaim(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "25", claim.Residual.String())
	require.Equal(t, "0", claim.Distributed.String())
	require.Zero(t, claim.Depositors)
}

func TestRewardsLastWriteWins(t *testing.T) {
	env := newTestEnv(t)

	env.mustProcess(t, dealCreated(1, 10), OutcomeApplied)
	env.expectTotal(1, 11, 100)
	env.mustProcess(t, deposited(1, 10, userA, 100, 11), OutcomeApplied)
	env.expectTotal(1, 12, 100)
	env.mustProcess(t, rewardsClaimed(1, 50, 12), OutcomeApplied)
	env.expectTotal(1, 13, 100)
	env.mustProcess(t, rewardsClaimed(1, 70, 13), OutcomeApplied)

	require.Equal(t, map[common.Address]string{userA: "70"}, env.rewardsOf(t, 1))
}

func TestRewardsClaimedBeforeDepositsParks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustProcess(t, dealCreated(1, 10), OutcomeApplied)
	env.expectTotal(1, 11, 100)
	env.mustProcess(t, deposited(1, 10, userA, 100, 11), OutcomeApplied)

	// The deposit of block 12 has not been delivered yet
	claim := rewardsClaimed(1, 40, 13)
	env.expectTotal(1, 13, 400)
	outcome, err := env.processor.Process(ctx, claim)
	require.Equal(t, OutcomeParked, outcome)
	require.ErrorIs(t, err, ErrDepositsBehind)
	require.Empty(t, env.rewardsOf(t, 1))

	claimRow, err := env.store.GetRewardClaim(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, claimRow)

	env.expectTotal(1, 12, 400)
	env.mustProcess(t, deposited(1, 11, userB, 300, 12), OutcomeApplied)

	env.expectTotal(1, 13, 400)
	outcome, err = env.processor.Replay(ctx, claim)
	require.NoError(t, err)
	require.Equal(t, OutcomeApplied, outcome)
	require.Equal(t, map[common.Address]string{userA: "10", userB: "30"}, env.rewardsOf(t, 1))

	stats, err := env.store.Stats(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.PendingEvents)
}

func TestUnknownEvent(t *testing.T) {
	env := newTestEnv(t)

	outcome, err := env.processor.Process(context.Background(), lifecycle("DealPaused", 1, 10))
	require.Equal(t, OutcomeUnknown, outcome)
	require.ErrorIs(t, err, ErrUnknownEvent)
}

func TestDealCreated_KeepsFirstValues(t *testing.T) {
	env := newTestEnv(t)

	env.mustProcess(t, dealCreated(1, 10), OutcomeApplied)

	again := dealCreated(1, 20)
	again.Args["maxDeposit"] = big.NewInt(5)
	env.mustProcess(t, again, OutcomeApplied)

	deal, err := env.store.GetDeal(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "1000000", deal.MaxDeposit.String())
	require.Equal(t, uint64(10), deal.CreatedBlock)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry(contractmocks.NewTotalsReader(t), logger.NewNopLogger())

	require.Equal(t, []string{
		contract.EventDealCancelled,
		contract.EventDealCreated,
		contract.EventDealFinalized,
		contract.EventDealLocked,
		contract.EventDealSettling,
		contract.EventDeposited,
		contract.EventRewardsClaimedFromProtocol,
	}, registry.Names())

	for _, name := range contract.DefaultEvents {
		h, ok := registry.Get(name)
		require.True(t, ok, name)
		require.Equal(t, name, h.EventName())
	}

	_, ok := registry.Get("Transfer")
	require.False(t, ok)
}

func TestSplitRewards(t *testing.T) {
	dep := func(user common.Address, amount int64) *store.Deposit {
		return &store.Deposit{Depositor: user, Amount: big.NewInt(amount)}
	}

	testCases := []struct {
		name     string
		deposits []*store.Deposit
		rewards  int64
		shares   []string
		residual string
	}{
		{name: "no deposits", rewards: 10, residual: "10"},
		{name: "single depositor takes all", deposits: []*store.Deposit{dep(userA, 3)}, rewards: 10, shares: []string{"10"}, residual: "0"},
		{
			name:     "deposits aggregated per user",
			deposits: []*store.Deposit{dep(userA, 50), dep(userB, 300), dep(userA, 50)},
			rewards:  41,
			shares:   []string{"10", "30"},
			residual: "1",
		},
		{
			name:     "three way split leaves dust",
			deposits: []*store.Deposit{dep(userA, 1), dep(userB, 1), dep(common.HexToAddress("0xc"), 1)},
			rewards:  11,
			shares:   []string{"3", "3", "3"},
			residual: "2",
		},
		{name: "zero rewards", deposits: []*store.Deposit{dep(userA, 1)}, rewards: 0, shares: []string{"0"}, residual: "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			split := SplitRewards(tc.deposits, big.NewInt(tc.rewards))

			shares := make([]string, 0, len(split.Shares))
			for _, s := range split.Shares {
				shares = append(shares, s.Amount.String())
			}
			if tc.shares == nil {
				require.Empty(t, shares)
			} else {
				require.Equal(t, tc.shares, shares)
			}
			require.Equal(t, tc.residual, split.Residual.String())

			total := new(big.Int).Add(split.Distributed, split.Residual)
			require.Equal(t, tc.rewards, total.Int64())
			if len(split.Shares) > 0 {
				require.Less(t, split.Residual.Int64(), int64(len(split.Shares)))
			}
		})
	}
}

func TestOutcomeString(t *testing.T) {
	require.Equal(t, "applied", OutcomeApplied.String())
	require.Equal(t, "parked", OutcomeParked.String())
	require.Equal(t, "invalid", Outcome(99).String())
}
