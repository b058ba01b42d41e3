// Package guard provides the per-asset reentrancy barrier. One Guard is
// shared by every mutating entry point of an asset (ledger operations,
// capability grants, validator replacement, freeze toggles) so that nothing
// can mutate the asset while another mutation is between its gateway dispatch
// and its apply step.
package guard

import (
	"sync/atomic"

	dErrors "assetgate/pkg/domain-errors"
)

// Guard is a try-lock around an asset's mutation window. A second entry while
// the flag is held fails fast with a reentrant error instead of blocking:
// blocking would deadlock when the second entry arrives on the same goroutine
// through a hostile validator's callback, and the contract is that nothing may
// interleave with an in-flight mutation anyway.
type Guard struct {
	busy atomic.Bool
}

func New() *Guard {
	return &Guard{}
}

// Enter acquires the guard. The caller must arrange Exit on every path out,
// including validator rejection.
func (g *Guard) Enter() error {
	if !g.busy.CompareAndSwap(false, true) {
		return dErrors.New(dErrors.CodeReentrant, "asset mutation already in flight")
	}
	return nil
}

// Exit releases the guard.
func (g *Guard) Exit() {
	g.busy.Store(false)
}

// Held reports whether a mutation is currently in flight. Read-only
// introspection; never use it to decide whether to Enter.
func (g *Guard) Held() bool {
	return g.busy.Load()
}
