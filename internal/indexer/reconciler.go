package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/DealIndexor/internal/handlers"
	"github.com/goran-ethernal/DealIndexor/internal/logger"
	"github.com/goran-ethernal/DealIndexor/internal/metrics"
	"github.com/goran-ethernal/DealIndexor/internal/store"
	"github.com/goran-ethernal/DealIndexor/pkg/config"
	pkgrpc "github.com/goran-ethernal/DealIndexor/pkg/rpc"
)

// EventReplayer applies a parked event again.
type EventReplayer interface {
	Replay(ctx context.Context, raw pkgrpc.RawEvent) (handlers.Outcome, error)
}

// ReconcileResult counts what a reconciliation pass did.
type ReconcileResult struct {
	Replayed  int `json:"replayed"`
	Applied   int `json:"applied"`
	Duplicate int `json:"duplicate"`
	Parked    int `json:"parked"`
	Dropped   int `json:"dropped"`
	Failed    int `json:"failed"`
	Remaining int `json:"remaining"`
}

// Reconciler replays events that were parked because their parent deal was missing
// or the chain could not be reached.
type Reconciler struct {
	store    *store.Store
	replayer EventReplayer
	decoder  pkgrpc.LogDecoder
	chain    pkgrpc.ChainClient
	locks    *DealLocker
	config   config.ReconciliationConfig
	log      *logger.Logger
}

// NewReconciler creates a Reconciler. A nil chain stores 0 as the block time of
// replayed events.
func NewReconciler(
	st *store.Store,
	replayer EventReplayer,
	decoder pkgrpc.LogDecoder,
	chain pkgrpc.ChainClient,
	locks *DealLocker,
	cfg config.ReconciliationConfig,
	log *logger.Logger,
) *Reconciler {
	return &Reconciler{
		store:    st,
		replayer: replayer,
		decoder:  decoder,
		chain:    chain,
		locks:    locks,
		config:   cfg,
		log:      log,
	}
}

// Run reconciles on every interval until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) error {
	if !r.config.Enabled {
		r.log.Info("reconciliation disabled")
		return nil
	}

	ticker := time.NewTicker(r.config.Interval.Duration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			result, err := r.RunOnce(context.WithoutCancel(ctx))
			if err != nil {
				r.log.Errorf("reconciliation pass failed: %v", err)
				continue
			}
			if result.Replayed > 0 {
				r.log.Infow("reconciliation pass finished",
					"replayed", result.Replayed, "applied", result.Applied, "parked", result.Parked,
					"dropped", result.Dropped, "remaining", result.Remaining)
			}
		}
	}
}

// RunOnce replays one batch of parked events. Events whose deal is indexed go first,
// in chain order.
func (r *Reconciler) RunOnce(ctx context.Context) (ReconcileResult, error) {
	var result ReconcileResult

	pending, err := r.store.ListPendingEvents(ctx, r.config.BatchSize)
	if err != nil {
		return result, err
	}

	for _, p := range pending {
		result.Replayed++

		outcome, err := r.replay(ctx, p)
		metrics.ReconciledEventsInc(outcome.String())

		switch outcome {
		case handlers.OutcomeApplied:
			result.Applied++
		case handlers.OutcomeDuplicate:
			result.Duplicate++
		case handlers.OutcomeParked:
			// ParkEvent bumped the counter to p.Attempts+1
			if r.config.MaxAttempts > 0 && p.Attempts+1 >= r.config.MaxAttempts {
				if dropErr := r.drop(ctx, p, fmt.Errorf("gave up after %d attempts: %w", p.Attempts+1, err)); dropErr != nil {
					return result, dropErr
				}
				result.Dropped++
				continue
			}
			result.Parked++
		case handlers.OutcomeRejected, handlers.OutcomeUnknown:
			// Replaying again cannot succeed
			if dropErr := r.drop(ctx, p, err); dropErr != nil {
				return result, dropErr
			}
			result.Dropped++
		default:
			result.Failed++
		}
	}

	stats, err := r.store.Stats(ctx)
	if err != nil {
		return result, err
	}
	result.Remaining = stats.PendingEvents
	metrics.PendingEventsSet(stats.PendingEvents)

	return result, nil
}

func (r *Reconciler) replay(ctx context.Context, p *store.PendingEvent) (handlers.Outcome, error) {
	var log types.Log
	if err := json.Unmarshal([]byte(p.RawLog), &log); err != nil {
		return handlers.OutcomeUnknown, fmt.Errorf("decode parked log: %w", err)
	}

	args, err := r.decoder.Decode(p.EventName, log)
	if err != nil {
		return handlers.OutcomeUnknown, fmt.Errorf("decode parked event: %w", err)
	}

	var timestamp pkgrpc.TimestampFunc
	if r.chain != nil {
		timestamp = func(ctx context.Context) (uint64, error) {
			return r.chain.BlockTimestamp(ctx, log.BlockNumber)
		}
	}
	raw := pkgrpc.NewRawEvent(p.EventName, args, log, timestamp)

	if dealID, err := handlers.DealID(raw); err == nil {
		unlock := r.locks.Lock(dealID)
		defer unlock()
	}

	return r.replayer.Replay(ctx, raw)
}

func (r *Reconciler) drop(ctx context.Context, p *store.PendingEvent, cause error) error {
	r.log.Errorw("dropping parked event that cannot be replayed",
		"event", p.EventName, "tx_hash", p.TxHash.Hex(), "log_index", p.LogIndex,
		"deal_id", p.DealID, "attempts", p.Attempts, "error", cause)

	return r.store.WithTx(ctx, func(tx *store.Tx) error {
		return tx.DeletePendingEvent(p.TxHash, p.LogIndex)
	})
}
