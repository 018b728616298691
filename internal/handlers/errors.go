package handlers

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingParent is returned when an event refers to a deal that is not indexed yet.
	// Such events are parked and replayed by the reconciler.
	ErrMissingParent = errors.New("parent deal not indexed")
	// ErrUnknownEvent is returned for events without a registered handler.
	ErrUnknownEvent = errors.New("no handler for event")
	// ErrMalformedEvent is returned when event arguments cannot be decoded. Replaying
	// such an event yields the same result, so it is rejected.
	ErrMalformedEvent = errors.New("malformed event")
	// ErrDepositsBehind is returned when rewards are claimed before every deposit of the
	// deal has been indexed. The claim is parked until the deposits catch up.
	ErrDepositsBehind = errors.New("deposits not fully indexed")
)

// InvariantError reports a write that would break an arithmetic invariant of the
// projection. The write is refused and prior state is kept.
type InvariantError struct {
	DealID uint64
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated for deal %d: %s", e.DealID, e.Reason)
}

func invariantf(dealID uint64, format string, args ...any) error {
	return &InvariantError{DealID: dealID, Reason: fmt.Sprintf(format, args...)}
}

func missingParent(dealID uint64) error {
	return fmt.Errorf("%w: deal %d", ErrMissingParent, dealID)
}

func malformed(eventName string, err error) error {
	return fmt.Errorf("%w: decode %s: %w", ErrMalformedEvent, eventName, err)
}
