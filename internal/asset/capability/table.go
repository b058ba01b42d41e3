// Package capability implements the per-asset authorization table: a pure
// boolean mapping from (capability kind, holder) to granted, with Owner as the
// only kind allowed to change it.
package capability

import (
	"context"
	"sync"

	"assetgate/internal/asset/guard"
	"assetgate/internal/events"
	id "assetgate/pkg/domain"
	dErrors "assetgate/pkg/domain-errors"
)

type grantKey struct {
	kind   id.Capability
	holder id.Address
}

// Table is the capability table for one asset. Grant and Revoke are gated on
// the caller holding Owner and are covered by the asset's reentrancy guard so
// a validator cannot escalate privileges from inside its own invocation.
//
// The table deliberately never enforces single ownership: an Owner may grant
// Owner to others, or revoke their own. That flexibility is part of the
// contract, not an oversight.
type Table struct {
	assetID id.AssetID
	guard   *guard.Guard
	emitter *events.Emitter

	mu     sync.RWMutex
	grants map[grantKey]bool
}

// NewTable builds an empty table bound to the asset's guard and emitter.
func NewTable(assetID id.AssetID, g *guard.Guard, emitter *events.Emitter) *Table {
	return &Table{
		assetID: assetID,
		guard:   g,
		emitter: emitter,
		grants:  make(map[grantKey]bool),
	}
}

// Has reports whether holder has been granted kind.
func (t *Table) Has(kind id.Capability, holder id.Address) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.grants[grantKey{kind: kind, holder: holder}]
}

// Seed grants a capability without authorization checks or events. Only the
// issuance engine calls this, before the asset is reachable by anyone else.
func (t *Table) Seed(kind id.Capability, holder id.Address) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.grants[grantKey{kind: kind, holder: holder}] = true
}

// Grant gives holder the capability. Requires caller to hold Owner.
func (t *Table) Grant(ctx context.Context, caller id.Address, kind id.Capability, holder id.Address) error {
	return t.change(ctx, caller, kind, holder, true)
}

// Revoke removes the capability from holder. Requires caller to hold Owner.
// Revoking a grant that does not exist is a no-op that still requires Owner.
func (t *Table) Revoke(ctx context.Context, caller id.Address, kind id.Capability, holder id.Address) error {
	return t.change(ctx, caller, kind, holder, false)
}

func (t *Table) change(ctx context.Context, caller id.Address, kind id.Capability, holder id.Address, granted bool) error {
	if !kind.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid capability")
	}
	if holder.IsNull() {
		return dErrors.New(dErrors.CodeInvalidInput, "cannot grant to the null holder")
	}
	if err := t.guard.Enter(); err != nil {
		return err
	}
	defer t.guard.Exit()

	if !t.Has(id.CapabilityOwner, caller) {
		return dErrors.New(dErrors.CodeUnauthorized, "caller does not hold owner")
	}

	t.mu.Lock()
	key := grantKey{kind: kind, holder: holder}
	if granted {
		t.grants[key] = true
	} else {
		delete(t.grants, key)
	}
	t.mu.Unlock()

	t.emitter.Emit(ctx, events.Event{
		AssetID:    t.assetID,
		Action:     events.ActionCapabilityChanged,
		Actor:      caller,
		Capability: kind,
		Holder:     holder,
		Granted:    granted,
	})
	return nil
}
