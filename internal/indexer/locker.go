package indexer

import (
	"sync"
	"time"

	"github.com/goran-ethernal/DealIndexor/internal/metrics"
	"github.com/puzpuzpuz/xsync/v4"
)

type dealLock struct {
	mu sync.Mutex
	// refs counts holders and waiters; guarded by the map bucket in Compute
	refs int
}

// DealLocker serializes handlers per deal id. Events of different deals run
// concurrently, events of the same deal never interleave. An entry lives only while
// the deal's lock is held or awaited.
type DealLocker struct {
	locks *xsync.Map[uint64, *dealLock]
}

// NewDealLocker creates an empty DealLocker.
func NewDealLocker() *DealLocker {
	return &DealLocker{locks: xsync.NewMap[uint64, *dealLock]()}
}

// Lock acquires the lock of dealID and returns its release function.
func (l *DealLocker) Lock(dealID uint64) func() {
	entry, _ := l.locks.Compute(dealID, func(old *dealLock, loaded bool) (*dealLock, xsync.ComputeOp) {
		if !loaded {
			old = &dealLock{}
		}
		old.refs++
		return old, xsync.UpdateOp
	})

	start := time.Now()
	entry.mu.Lock()
	metrics.DealLockWaitLog(time.Since(start))

	return func() {
		entry.mu.Unlock()
		l.locks.Compute(dealID, func(old *dealLock, loaded bool) (*dealLock, xsync.ComputeOp) {
			if !loaded {
				return old, xsync.CancelOp
			}
			old.refs--
			if old.refs == 0 {
				return old, xsync.DeleteOp
			}
			return old, xsync.UpdateOp
		})
	}
}

// Size returns the number of deals whose lock is held or awaited.
func (l *DealLocker) Size() int {
	return l.locks.Size()
}
