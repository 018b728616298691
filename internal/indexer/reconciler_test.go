package indexer

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	internalcommon "github.com/goran-ethernal/DealIndexor/internal/common"
	"github.com/goran-ethernal/DealIndexor/internal/contract"
	contractmocks "github.com/goran-ethernal/DealIndexor/internal/contract/mocks"
	"github.com/goran-ethernal/DealIndexor/internal/handlers"
	"github.com/goran-ethernal/DealIndexor/internal/logger"
	"github.com/goran-ethernal/DealIndexor/internal/store"
	"github.com/goran-ethernal/DealIndexor/pkg/config"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type reconcilerEnv struct {
	store      *store.Store
	decoder    *stubDecoder
	reader     *contractmocks.TotalsReader
	processor  *handlers.Processor
	reconciler *Reconciler
}

func newReconcilerEnv(t *testing.T, cfg config.ReconciliationConfig) *reconcilerEnv {
	t.Helper()

	st := newTestStore(t)
	decoder := newStubDecoder()
	reader := contractmocks.NewTotalsReader(t)
	processor := handlers.NewProcessor(st, handlers.NewRegistry(reader, logger.NewNopLogger()), logger.NewNopLogger())

	return &reconcilerEnv{
		store:      st,
		decoder:    decoder,
		reader:     reader,
		processor:  processor,
		reconciler: NewReconciler(st, processor, decoder, newFakeChain(0), NewDealLocker(), cfg, logger.NewNopLogger()),
	}
}

func (e *reconcilerEnv) pendingCount(t *testing.T) int {
	t.Helper()

	stats, err := e.store.Stats(context.Background())
	require.NoError(t, err)
	return stats.PendingEvents
}

func TestReconciler_RunOnce(t *testing.T) {
	env := newReconcilerEnv(t, config.ReconciliationConfig{Enabled: true, BatchSize: 100})
	ctx := context.Background()

	// Parked: parent missing at delivery time
	deposit := env.decoder.deposited(1, 10, userA, 100, 11)
	outcome, _ := env.processor.Process(ctx, deposit)
	require.Equal(t, handlers.OutcomeParked, outcome)

	// Parked: parent still missing at reconciliation time
	orphan := env.decoder.event(contract.EventRewardsClaimedFromProtocol, 30, 2, map[string]any{
		"dealId":       big.NewInt(5),
		"totalRewards": big.NewInt(9),
	})
	outcome, _ = env.processor.Process(ctx, orphan)
	require.Equal(t, handlers.OutcomeParked, outcome)

	// Parked rows that can never be replayed
	require.NoError(t, env.store.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.ParkEvent(&store.PendingEvent{
			TxHash: common.HexToHash("0xbad"), EventName: contract.EventDeposited, BlockNumber: 1,
			RawLog: "not json", Reason: "test",
		}); err != nil {
			return err
		}
		return tx.ParkEvent(&store.PendingEvent{
			TxHash: common.HexToHash("0xbad2"), EventName: contract.EventDeposited, BlockNumber: 2,
			RawLog: `{"address":"0x5fbdb2315678afecb367f032d93f642f64180aa3","topics":[],"data":"0x",` +
				`"blockNumber":"0x2","transactionHash":"0x0000000000000000000000000000000000000000000000000000000000000bad",` +
				`"transactionIndex":"0x0","blockHash":"0x0000000000000000000000000000000000000000000000000000000000000002",` +
				`"logIndex":"0x0","removed":false}`,
			Reason: "test",
		})
	}))
	require.Equal(t, 4, env.pendingCount(t))

	env.processor.Process(ctx, env.decoder.dealCreated(1, 10))
	env.reader.EXPECT().TotalDeposited(mock.Anything, uint64(1), uint64(11)).Return(big.NewInt(100), nil).Once()

	result, err := env.reconciler.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, ReconcileResult{Replayed: 4, Applied: 1, Parked: 1, Dropped: 2, Remaining: 1}, result)

	pending, err := env.store.ListPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, uint64(5), pending[0].DealID)
	require.Equal(t, 2, pending[0].Attempts)

	deposits, err := env.store.ListDeposits(ctx, 1)
	require.NoError(t, err)
	require.Len(t, deposits, 1)
	require.Equal(t, uint64(1_700_000_000+11*12), deposits[0].Timestamp)
}

func TestReconciler_DuplicateClearsPending(t *testing.T) {
	env := newReconcilerEnv(t, config.ReconciliationConfig{Enabled: true, BatchSize: 100})
	ctx := context.Background()

	created := env.decoder.dealCreated(3, 10)
	outcome, _ := env.processor.Process(ctx, created)
	require.Equal(t, handlers.OutcomeApplied, outcome)

	// A stale pending row for an event that is already recorded
	require.NoError(t, env.store.WithTx(ctx, func(tx *store.Tx) error {
		return tx.ParkEvent(&store.PendingEvent{
			TxHash: created.TxHash, LogIndex: created.LogIndex, EventName: created.EventName,
			DealID: 3, BlockNumber: created.BlockNumber, RawLog: mustLogJSON(t, created.Log), Reason: "test",
		})
	}))

	result, err := env.reconciler.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, ReconcileResult{Replayed: 1, Duplicate: 1}, result)
	require.Zero(t, env.pendingCount(t))
}

func TestReconciler_Run(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		env := newReconcilerEnv(t, config.ReconciliationConfig{Enabled: false})
		require.NoError(t, env.reconciler.Run(context.Background()))
	})

	t.Run("periodic", func(t *testing.T) {
		env := newReconcilerEnv(t, config.ReconciliationConfig{
			Enabled:   true,
			Interval:  internalcommon.NewDuration(5 * time.Millisecond),
			BatchSize: 10,
		})
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		locked := env.decoder.event(contract.EventDealLocked, 12, 0, map[string]any{
			"dealId":    big.NewInt(2),
			"channelId": "channel-9",
		})
		outcome, _ := env.processor.Process(ctx, locked)
		require.Equal(t, handlers.OutcomeParked, outcome)

		done := make(chan error, 1)
		go func() { done <- env.reconciler.Run(ctx) }()

		env.processor.Process(ctx, env.decoder.dealCreated(2, 10))

		require.Eventually(t, func() bool { return env.pendingCount(t) == 0 }, 5*time.Second, 5*time.Millisecond)

		deal, err := env.store.GetDeal(ctx, 2)
		require.NoError(t, err)
		require.Equal(t, store.StatusLocked, deal.Status)
		require.Equal(t, "channel-9", *deal.ChannelID)

		cancel()
		require.NoError(t, <-done)
	})
}

func TestReconciler_ResolvableBeforeOrphans(t *testing.T) {
	env := newReconcilerEnv(t, config.ReconciliationConfig{Enabled: true, BatchSize: 2})
	ctx := context.Background()

	// Deal 99 was created before the indexer started; its events never resolve
	for i := range uint64(2) {
		outcome, _ := env.processor.Process(ctx, env.decoder.deposited(99, 500+i, userA, 10, 5+i))
		require.Equal(t, handlers.OutcomeParked, outcome)
	}

	deposit := env.decoder.deposited(1, 10, userA, 100, 11)
	outcome, _ := env.processor.Process(ctx, deposit)
	require.Equal(t, handlers.OutcomeParked, outcome)

	outcome, _ = env.processor.Process(ctx, env.decoder.dealCreated(1, 10))
	require.Equal(t, handlers.OutcomeApplied, outcome)
	env.reader.EXPECT().TotalDeposited(mock.Anything, uint64(1), uint64(11)).Return(big.NewInt(100), nil).Once()

	result, err := env.reconciler.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, ReconcileResult{Replayed: 2, Applied: 1, Parked: 1, Remaining: 2}, result)

	deposits, err := env.store.ListDeposits(ctx, 1)
	require.NoError(t, err)
	require.Len(t, deposits, 1)

	pending, err := env.store.ListPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	for _, p := range pending {
		require.Equal(t, uint64(99), p.DealID)
	}
}

func TestReconciler_DropsAfterMaxAttempts(t *testing.T) {
	env := newReconcilerEnv(t, config.ReconciliationConfig{Enabled: true, BatchSize: 10, MaxAttempts: 3})
	ctx := context.Background()

	orphan := env.decoder.deposited(42, 1, userA, 10, 7)
	outcome, _ := env.processor.Process(ctx, orphan)
	require.Equal(t, handlers.OutcomeParked, outcome)

	result, err := env.reconciler.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, ReconcileResult{Replayed: 1, Parked: 1, Remaining: 1}, result)

	result, err = env.reconciler.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, ReconcileResult{Replayed: 1, Dropped: 1}, result)
	require.Zero(t, env.pendingCount(t))
}

func TestReconciler_DropsDuplicatePosition(t *testing.T) {
	env := newReconcilerEnv(t, config.ReconciliationConfig{Enabled: true, BatchSize: 10})
	ctx := context.Background()

	outcome, _ := env.processor.Process(ctx, env.decoder.dealCreated(1, 10))
	require.Equal(t, handlers.OutcomeApplied, outcome)
	env.reader.EXPECT().TotalDeposited(mock.Anything, uint64(1), uint64(11)).Return(big.NewInt(100), nil).Once()
	outcome, _ = env.processor.Process(ctx, env.decoder.deposited(1, 10, userA, 100, 11))
	require.Equal(t, handlers.OutcomeApplied, outcome)

	// Parked earlier for an unreachable node, conflicting with the stored position
	conflicting := env.decoder.deposited(1, 10, userB, 200, 12)
	require.NoError(t, env.store.WithTx(ctx, func(tx *store.Tx) error {
		return tx.ParkEvent(&store.PendingEvent{
			TxHash: conflicting.TxHash, LogIndex: conflicting.LogIndex, EventName: conflicting.EventName,
			DealID: 1, BlockNumber: conflicting.BlockNumber, RawLog: mustLogJSON(t, conflicting.Log),
			Reason: "connection refused",
		})
	}))
	env.reader.EXPECT().TotalDeposited(mock.Anything, uint64(1), uint64(12)).Return(big.NewInt(300), nil).Once()

	result, err := env.reconciler.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, ReconcileResult{Replayed: 1, Dropped: 1}, result)
	require.Zero(t, env.pendingCount(t))

	deposits, err := env.store.ListDeposits(ctx, 1)
	require.NoError(t, err)
	require.Len(t, deposits, 1)
	require.Equal(t, userA, deposits[0].Depositor)
}
