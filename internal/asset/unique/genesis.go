package unique

import (
	"context"

	"assetgate/internal/asset/validator"
	id "assetgate/pkg/domain"
	dErrors "assetgate/pkg/domain-errors"
)

// GenesisMint mints the first count identifiers to to at issuance time.
// Owner-gated and one-shot (fails once any identifier exists); every
// identifier is dispatched through the gateway individually, and nothing is
// applied unless all of them pass.
func (l *Ledger) GenesisMint(ctx context.Context, caller, to id.Address, count uint64) error {
	if err := l.core.Enter(); err != nil {
		return err
	}
	defer l.core.Guard.Exit()

	err := l.genesisLocked(ctx, caller, to, count)
	l.core.ObserveOutcome(id.AssetKindUnique, id.ClassificationMint, err)
	return err
}

func (l *Ledger) genesisLocked(ctx context.Context, caller, to id.Address, count uint64) error {
	if to.IsNull() {
		return dErrors.New(dErrors.CodeInvalidInput, "cannot mint to the null holder")
	}
	if count == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "genesis count must be positive")
	}
	if !l.core.Table.Has(id.CapabilityOwner, caller) {
		return dErrors.New(dErrors.CodeUnauthorized, "caller does not hold owner")
	}
	if l.NextID() > 0 {
		return dErrors.New(dErrors.CodeConflict, "asset already has identifiers")
	}

	for tokenID := uint64(0); tokenID < count; tokenID++ {
		call := validator.Call{Operator: caller, From: id.NullHolder, To: to, ItemID: tokenID, Amount: 1}
		if err := l.core.Gateway.Validate(ctx, id.ClassificationMint, call); err != nil {
			return err
		}
	}

	l.mu.Lock()
	for tokenID := uint64(0); tokenID < count; tokenID++ {
		l.owners[tokenID] = to
	}
	l.nextID = count
	l.mu.Unlock()

	for tokenID := uint64(0); tokenID < count; tokenID++ {
		l.core.EmitTransferred(ctx, id.ClassificationMint, caller, id.NullHolder, to, tokenID, 1)
	}
	return nil
}
