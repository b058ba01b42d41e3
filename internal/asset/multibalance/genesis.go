package multibalance

import (
	"context"

	"assetgate/internal/asset/validator"
	id "assetgate/pkg/domain"
	dErrors "assetgate/pkg/domain-errors"
)

// GenesisType creates type 0 with an initial amount at issuance time.
// Owner-gated and one-shot (fails once any type exists); the mint is
// dispatched through the gateway like any runtime mint.
func (l *Ledger) GenesisType(ctx context.Context, caller, to id.Address, amount uint64) (uint64, error) {
	if err := l.core.Enter(); err != nil {
		return 0, err
	}
	defer l.core.Guard.Exit()

	typeID, err := l.genesisLocked(ctx, caller, to, amount)
	l.core.ObserveOutcome(id.AssetKindMultiBalance, id.ClassificationMint, err)
	return typeID, err
}

func (l *Ledger) genesisLocked(ctx context.Context, caller, to id.Address, amount uint64) (uint64, error) {
	if to.IsNull() {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "cannot mint to the null holder")
	}
	if amount == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "genesis amount must be positive")
	}
	if !l.core.Table.Has(id.CapabilityOwner, caller) {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "caller does not hold owner")
	}
	if l.NextTypeID() > 0 {
		return 0, dErrors.New(dErrors.CodeConflict, "asset already has types")
	}

	const typeID = uint64(0)
	call := validator.Call{Operator: caller, From: id.NullHolder, To: to, ItemID: typeID, Amount: amount}
	if err := l.core.Gateway.Validate(ctx, id.ClassificationMint, call); err != nil {
		return 0, err
	}

	l.mu.Lock()
	l.nextTypeID = 1
	l.mintInto(typeID, to, amount)
	l.mu.Unlock()

	l.emitTransferred(ctx, id.ClassificationMint, caller, id.NullHolder, to, typeID, amount, nil)
	return typeID, nil
}
