// Package freeze implements the shared {Active, Frozen} state machine. Each
// ledger variant composes one Flag; frozen blocks mint/transfer/burn but
// never approvals, and freeze is always reversible.
package freeze

import (
	"context"
	"sync"

	"assetgate/internal/asset/capability"
	"assetgate/internal/asset/guard"
	"assetgate/internal/events"
	id "assetgate/pkg/domain"
	dErrors "assetgate/pkg/domain-errors"
)

// Flag is one asset's frozen state plus the toggle rules: FreezeController
// capability, the immutable freezable config flag, and the asset guard.
type Flag struct {
	assetID   id.AssetID
	freezable bool
	guard     *guard.Guard
	table     *capability.Table
	emitter   *events.Emitter

	mu     sync.RWMutex
	frozen bool
}

func NewFlag(assetID id.AssetID, freezable bool, g *guard.Guard, table *capability.Table, emitter *events.Emitter) *Flag {
	return &Flag{
		assetID:   assetID,
		freezable: freezable,
		guard:     g,
		table:     table,
		emitter:   emitter,
	}
}

// IsFrozen reports the current state.
func (f *Flag) IsFrozen() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.frozen
}

// RequireActive fails with a frozen error while the asset is frozen. Ledgers
// call it at the top of every balance-mutating operation; approval paths do
// not.
func (f *Flag) RequireActive() error {
	if f.IsFrozen() {
		return dErrors.New(dErrors.CodeFrozen, "asset is frozen")
	}
	return nil
}

// Freeze suspends mutations. Freezing an already frozen asset is an error
// with no state change, not a no-op.
func (f *Flag) Freeze(ctx context.Context, caller id.Address) error {
	return f.toggle(ctx, caller, true)
}

// Unfreeze resumes mutations.
func (f *Flag) Unfreeze(ctx context.Context, caller id.Address) error {
	return f.toggle(ctx, caller, false)
}

func (f *Flag) toggle(ctx context.Context, caller id.Address, frozen bool) error {
	if err := f.guard.Enter(); err != nil {
		return err
	}
	defer f.guard.Exit()

	if !f.freezable {
		return dErrors.New(dErrors.CodeFeatureDisabled, "asset is not freezable")
	}
	if !f.table.Has(id.CapabilityFreezeController, caller) {
		return dErrors.New(dErrors.CodeUnauthorized, "caller does not hold freeze_controller")
	}

	f.mu.Lock()
	if f.frozen == frozen {
		f.mu.Unlock()
		if frozen {
			return dErrors.New(dErrors.CodeConflict, "asset is already frozen")
		}
		return dErrors.New(dErrors.CodeConflict, "asset is not frozen")
	}
	f.frozen = frozen
	f.mu.Unlock()

	action := events.ActionFrozen
	if !frozen {
		action = events.ActionUnfrozen
	}
	f.emitter.Emit(ctx, events.Event{
		AssetID: f.assetID,
		Action:  action,
		Actor:   caller,
	})
	return nil
}
