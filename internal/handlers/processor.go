package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goran-ethernal/DealIndexor/internal/logger"
	irpc "github.com/goran-ethernal/DealIndexor/internal/rpc"
	"github.com/goran-ethernal/DealIndexor/internal/store"
	pkgrpc "github.com/goran-ethernal/DealIndexor/pkg/rpc"
)

// Outcome is the result of processing one event.
type Outcome int

const (
	// OutcomeApplied means the event was recorded and its handler committed.
	OutcomeApplied Outcome = iota
	// OutcomeDuplicate means the event was already recorded; nothing changed.
	OutcomeDuplicate
	// OutcomeParked means the event was stored in pending_events for a later replay.
	OutcomeParked
	// OutcomeRejected means the event would have broken an invariant and was dropped.
	OutcomeRejected
	// OutcomeFailed means the event could not be processed and was dropped.
	OutcomeFailed
	// OutcomeUnknown means no handler is registered for the event.
	OutcomeUnknown
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeParked:
		return "parked"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	case OutcomeUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Processor runs handlers inside store transactions together with the event log append.
// It never returns an error that should stop the caller: every failure is logged with
// the event identity and reported through the outcome.
type Processor struct {
	store    *store.Store
	registry *Registry
	log      *logger.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(st *store.Store, registry *Registry, log *logger.Logger) *Processor {
	return &Processor{
		store:    st,
		registry: registry,
		log:      log,
	}
}

// Handles reports whether a handler is registered for eventName.
func (p *Processor) Handles(eventName string) bool {
	_, ok := p.registry.Get(eventName)
	return ok
}

// Process applies one delivered event. The returned error, if any, is informational.
func (p *Processor) Process(ctx context.Context, raw pkgrpc.RawEvent) (Outcome, error) {
	return p.process(ctx, raw, false)
}

// Replay applies a parked event. The pending row is removed in the same transaction
// when the event is applied or found to be a duplicate.
func (p *Processor) Replay(ctx context.Context, raw pkgrpc.RawEvent) (Outcome, error) {
	return p.process(ctx, raw, true)
}

func (p *Processor) process(ctx context.Context, raw pkgrpc.RawEvent, replay bool) (outcome Outcome, err error) {
	start := time.Now()
	defer func() {
		EventHandledObserve(raw.EventName, outcome, start)
	}()

	log := p.log.With(
		"event", raw.EventName,
		"tx_hash", raw.TxHash.Hex(),
		"log_index", raw.LogIndex,
		"block", raw.BlockNumber,
	)

	handler, ok := p.registry.Get(raw.EventName)
	if !ok {
		log.Warn("dropping event without handler")
		return OutcomeUnknown, fmt.Errorf("%w %s", ErrUnknownEvent, raw.EventName)
	}

	blockTime, err := raw.Timestamp(ctx)
	if err != nil {
		log.Warnf("block timestamp unavailable, storing 0: %v", err)
		blockTime = 0
	}
	ev := &Event{RawEvent: raw, BlockTime: blockTime}

	err = p.apply(ctx, handler, ev, replay)

	var invariantErr *InvariantError
	switch {
	case err == nil:
		return OutcomeApplied, nil
	case errors.Is(err, errDuplicate):
		log.Debug("event already processed, skipping")
		return OutcomeDuplicate, nil
	case Parkable(err):
		if parkErr := p.park(ctx, ev, err); parkErr != nil {
			log.Errorf("failed to park event (%v): %v", err, parkErr)
			return OutcomeFailed, parkErr
		}
		log.Warnf("event parked for reconciliation: %v", err)
		return OutcomeParked, err
	case errors.As(err, &invariantErr),
		errors.Is(err, store.ErrDuplicatePosition),
		errors.Is(err, ErrMalformedEvent):
		log.Errorf("event rejected, state left unchanged: %v", err)
		return OutcomeRejected, err
	default:
		log.Errorf("failed to handle event, state left unchanged: %v", err)
		return OutcomeFailed, err
	}
}

// errDuplicate signals an event found in the event log. It never leaves the processor.
var errDuplicate = errors.New("event already recorded")

// apply records ev and runs its handler in one transaction. Chain reads of the handler
// run before the transaction begins. Events already in the event log skip them.
func (p *Processor) apply(ctx context.Context, handler Handler, ev *Event, replay bool) error {
	entry, err := newLogEntry(ev)
	if err != nil {
		return malformed(ev.EventName, err)
	}

	if preparer, ok := handler.(Preparer); ok {
		recorded, err := p.store.EventRecorded(ctx, ev.TxHash, ev.LogIndex)
		if err != nil {
			return err
		}
		if !recorded {
			if err := preparer.Prepare(ctx, p.store, ev); err != nil {
				return err
			}
		}
	}

	duplicate := false
	err = p.store.WithTx(ctx, func(tx *store.Tx) error {
		if replay {
			if err := tx.DeletePendingEvent(ev.TxHash, ev.LogIndex); err != nil {
				return err
			}
		}
		if err := tx.SetCursor(ev.EventName, ev.BlockNumber); err != nil {
			return err
		}

		result, err := tx.Record(entry)
		if err != nil {
			return err
		}
		if result == store.AlreadyExists {
			duplicate = true
			return nil
		}

		return handler.Handle(ctx, tx, ev)
	})
	if err == nil && duplicate {
		return errDuplicate
	}

	return err
}

// Parkable reports whether an event that failed with err can succeed when replayed:
// its parent deal or some of its deposits were missing, the chain could not be reached,
// or the database was locked by another writer.
func Parkable(err error) bool {
	return errors.Is(err, ErrMissingParent) ||
		errors.Is(err, ErrDepositsBehind) ||
		irpc.IsConnectivityError(err) ||
		store.IsBusy(err)
}

func (p *Processor) park(ctx context.Context, ev *Event, cause error) error {
	rawLog, err := json.Marshal(&ev.Log)
	if err != nil {
		return fmt.Errorf("encode log: %w", err)
	}

	// An undecodable deal id still parks the event, keyed to deal 0.
	dealID, _ := DealID(ev.RawEvent)

	return p.store.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.SetCursor(ev.EventName, ev.BlockNumber); err != nil {
			return err
		}
		return tx.ParkEvent(&store.PendingEvent{
			TxHash:      ev.TxHash,
			LogIndex:    ev.LogIndex,
			EventName:   ev.EventName,
			DealID:      dealID,
			BlockNumber: ev.BlockNumber,
			RawLog:      string(rawLog),
			Reason:      cause.Error(),
		})
	})
}

func newLogEntry(ev *Event) (*store.EventLogEntry, error) {
	args, err := json.Marshal(ev.Args)
	if err != nil {
		return nil, err
	}

	return &store.EventLogEntry{
		TxHash:          ev.TxHash,
		LogIndex:        ev.LogIndex,
		EventName:       ev.EventName,
		ContractAddress: ev.Address,
		BlockNumber:     ev.BlockNumber,
		BlockHash:       ev.BlockHash,
		Args:            string(args),
		Timestamp:       ev.BlockTime,
	}, nil
}
