package fungible

import (
	"context"

	"assetgate/internal/asset/validator"
	id "assetgate/pkg/domain"
	dErrors "assetgate/pkg/domain-errors"
)

// GenesisMint performs the issuance-time initial mint. It runs through the
// same classified gateway dispatch as any runtime mint, but skips the
// Issuer/mintable checks so fixed-supply assets (mintable=false) can still be
// seeded. It is Owner-gated and one-shot: it fails once any supply exists.
func (l *Ledger) GenesisMint(ctx context.Context, caller, to id.Address, amount uint64) error {
	if err := l.core.Enter(); err != nil {
		return err
	}
	defer l.core.Guard.Exit()

	err := l.genesisLocked(ctx, caller, to, amount)
	l.core.ObserveOutcome(id.AssetKindFungible, id.ClassificationMint, err)
	return err
}

func (l *Ledger) genesisLocked(ctx context.Context, caller, to id.Address, amount uint64) error {
	if to.IsNull() {
		return dErrors.New(dErrors.CodeInvalidInput, "cannot mint to the null holder")
	}
	if amount == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "genesis amount must be positive")
	}
	if !l.core.Table.Has(id.CapabilityOwner, caller) {
		return dErrors.New(dErrors.CodeUnauthorized, "caller does not hold owner")
	}
	if l.TotalSupply() > 0 {
		return dErrors.New(dErrors.CodeConflict, "asset already has supply")
	}

	call := validator.Call{Operator: caller, From: id.NullHolder, To: to, Amount: amount}
	if err := l.core.Gateway.Validate(ctx, id.ClassificationMint, call); err != nil {
		return err
	}

	l.mu.Lock()
	l.balances[to] += amount
	l.totalSupply += amount
	l.mu.Unlock()

	l.core.EmitTransferred(ctx, id.ClassificationMint, caller, id.NullHolder, to, 0, amount)
	return nil
}
