// Package handlers applies decoded deal vault events to the projection store.
package handlers

import (
	"context"
	"errors"
	"slices"

	"github.com/goran-ethernal/DealIndexor/internal/contract"
	"github.com/goran-ethernal/DealIndexor/internal/logger"
	"github.com/goran-ethernal/DealIndexor/internal/store"
	pkgrpc "github.com/goran-ethernal/DealIndexor/pkg/rpc"
)

// Event is a delivered event with its block time resolved.
type Event struct {
	pkgrpc.RawEvent
	BlockTime uint64

	// prepared holds what the handler resolved in Prepare
	prepared any
}

// Handler applies one event type inside the transaction that also records the event.
// Returning an error rolls back every write of the transaction.
type Handler interface {
	// EventName returns the contract event this handler consumes.
	EventName() string
	// Handle applies the event to the projection.
	Handle(ctx context.Context, tx *store.Tx, ev *Event) error
}

// Preparer is implemented by handlers that need chain reads. Prepare runs before the
// store transaction is opened, so no write lock is held while the chain is queried.
// Reads must be pinned to the event's block so Handle sees a deterministic value.
type Preparer interface {
	Prepare(ctx context.Context, deals DealGetter, ev *Event) error
}

// DealGetter reads committed deals.
type DealGetter interface {
	GetDeal(ctx context.Context, dealID uint64) (*store.Deal, error)
}

// requireDeal returns a missing parent error when dealID is not indexed yet.
func requireDeal(ctx context.Context, deals DealGetter, dealID uint64) error {
	if _, err := deals.GetDeal(ctx, dealID); err != nil {
		if errors.Is(err, store.ErrDealNotFound) {
			return missingParent(dealID)
		}
		return err
	}

	return nil
}

// DealID returns the deal an event belongs to.
func DealID(ev pkgrpc.RawEvent) (uint64, error) {
	return contract.Uint64Arg(ev.Args, "dealId")
}

// Registry maps event names to handlers.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates a registry with the handlers of every deal vault event.
func NewRegistry(reader contract.TotalsReader, log *logger.Logger) *Registry {
	r := &Registry{handlers: make(map[string]Handler)}

	r.Register(&dealCreatedHandler{log: log})
	r.Register(&depositedHandler{reader: reader, log: log})
	r.Register(&rewardsClaimedHandler{reader: reader, log: log})
	r.Register(&statusHandler{event: contract.EventDealLocked, target: store.StatusLocked, log: log})
	r.Register(&statusHandler{event: contract.EventDealSettling, target: store.StatusSettling, log: log})
	r.Register(&statusHandler{event: contract.EventDealFinalized, target: store.StatusFinalized, log: log})
	r.Register(&statusHandler{event: contract.EventDealCancelled, target: store.StatusCancelled, log: log})

	return r
}

// Register adds h, replacing any handler of the same event.
func (r *Registry) Register(h Handler) {
	r.handlers[h.EventName()] = h
}

// Get returns the handler of an event.
func (r *Registry) Get(eventName string) (Handler, bool) {
	h, ok := r.handlers[eventName]
	return h, ok
}

// Names returns the registered event names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}
