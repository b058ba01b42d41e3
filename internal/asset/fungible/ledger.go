// Package fungible implements the single-balance ledger variant: one balance
// per holder, a shared total supply, and delegated allowances.
package fungible

import (
	"context"
	"math"
	"sync"

	"assetgate/internal/asset/core"
	"assetgate/internal/asset/validator"
	id "assetgate/pkg/domain"
	dErrors "assetgate/pkg/domain-errors"
)

// Ledger tracks holder balances for one fungible asset. All mutating
// operations run under the asset guard: the validator is consulted between
// guard entry and the apply step, so no other mutation can interleave and the
// checks performed before dispatch remain authoritative at apply time.
//
// Invariant: sum of all balances equals the total supply in every reachable
// state; the null holder never has a balance.
type Ledger struct {
	core *core.Core

	mu          sync.RWMutex
	balances    map[id.Address]uint64
	allowances  map[id.Address]map[id.Address]uint64
	totalSupply uint64
}

func New(c *core.Core) *Ledger {
	return &Ledger{
		core:       c,
		balances:   make(map[id.Address]uint64),
		allowances: make(map[id.Address]map[id.Address]uint64),
	}
}

// Core exposes the composed components (capability table, gateway, freeze
// flag) for the issuance engine and handlers.
func (l *Ledger) Core() *core.Core { return l.core }

// Mint creates amount units for to. Requires the Issuer capability and the
// mintable flag; blocked while frozen; classified as Mint.
func (l *Ledger) Mint(ctx context.Context, caller, to id.Address, amount uint64) error {
	if err := l.core.Enter(); err != nil {
		return err
	}
	defer l.core.Guard.Exit()

	err := l.mintLocked(ctx, caller, to, amount)
	l.core.ObserveOutcome(id.AssetKindFungible, id.ClassificationMint, err)
	return err
}

func (l *Ledger) mintLocked(ctx context.Context, caller, to id.Address, amount uint64) error {
	if to.IsNull() {
		return dErrors.New(dErrors.CodeInvalidInput, "cannot mint to the null holder")
	}
	if err := l.core.RequireIssuer(caller); err != nil {
		return err
	}
	if err := l.core.RequireMintable(); err != nil {
		return err
	}
	if err := l.core.Freeze.RequireActive(); err != nil {
		return err
	}
	if l.TotalSupply() > math.MaxUint64-amount {
		return dErrors.New(dErrors.CodeInvalidInput, "mint would overflow total supply")
	}

	call := validator.Call{Operator: caller, From: id.NullHolder, To: to, Amount: amount}
	if err := l.core.Gateway.Validate(ctx, id.ClassificationMint, call); err != nil {
		return err
	}

	l.mu.Lock()
	if amount > 0 {
		l.balances[to] += amount
		l.totalSupply += amount
	}
	l.mu.Unlock()

	l.core.EmitTransferred(ctx, id.ClassificationMint, caller, id.NullHolder, to, 0, amount)
	return nil
}

// Transfer moves amount from the caller's own balance to to.
func (l *Ledger) Transfer(ctx context.Context, caller, to id.Address, amount uint64) error {
	return l.TransferFrom(ctx, caller, caller, to, amount)
}

// TransferFrom moves amount from from to to. When the caller is not from, a
// sufficient allowance is required and consumed on apply.
func (l *Ledger) TransferFrom(ctx context.Context, caller, from, to id.Address, amount uint64) error {
	if err := l.core.Enter(); err != nil {
		return err
	}
	defer l.core.Guard.Exit()

	err := l.transferLocked(ctx, caller, from, to, amount)
	l.core.ObserveOutcome(id.AssetKindFungible, id.ClassificationTransfer, err)
	return err
}

func (l *Ledger) transferLocked(ctx context.Context, caller, from, to id.Address, amount uint64) error {
	if from.IsNull() || to.IsNull() {
		return dErrors.New(dErrors.CodeInvalidInput, "transfer endpoints must be real holders")
	}
	if err := l.core.Freeze.RequireActive(); err != nil {
		return err
	}
	delegated := caller != from
	if err := l.checkFunds(from, caller, amount, delegated); err != nil {
		return err
	}

	call := validator.Call{Operator: caller, From: from, To: to, Amount: amount}
	if err := l.core.Gateway.Validate(ctx, id.ClassificationTransfer, call); err != nil {
		return err
	}

	// A zero amount validates and emits but touches no state; the delegated
	// path may have no allowance entry to decrement.
	l.mu.Lock()
	if amount > 0 {
		l.balances[from] -= amount
		if l.balances[from] == 0 {
			delete(l.balances, from)
		}
		l.balances[to] += amount
		if delegated {
			l.allowances[from][caller] -= amount
		}
	}
	l.mu.Unlock()

	l.core.EmitTransferred(ctx, id.ClassificationTransfer, caller, from, to, 0, amount)
	return nil
}

// Burn destroys amount units of holder's balance. Requires the burnable flag;
// the caller burns their own balance or another holder's under allowance.
func (l *Ledger) Burn(ctx context.Context, caller, holder id.Address, amount uint64) error {
	if err := l.core.Enter(); err != nil {
		return err
	}
	defer l.core.Guard.Exit()

	err := l.burnLocked(ctx, caller, holder, amount)
	l.core.ObserveOutcome(id.AssetKindFungible, id.ClassificationBurn, err)
	return err
}

func (l *Ledger) burnLocked(ctx context.Context, caller, holder id.Address, amount uint64) error {
	if holder.IsNull() {
		return dErrors.New(dErrors.CodeInvalidInput, "cannot burn from the null holder")
	}
	if err := l.core.RequireBurnable(); err != nil {
		return err
	}
	if err := l.core.Freeze.RequireActive(); err != nil {
		return err
	}
	delegated := caller != holder
	if err := l.checkFunds(holder, caller, amount, delegated); err != nil {
		return err
	}

	call := validator.Call{Operator: caller, From: holder, To: id.NullHolder, Amount: amount}
	if err := l.core.Gateway.Validate(ctx, id.ClassificationBurn, call); err != nil {
		return err
	}

	l.mu.Lock()
	if amount > 0 {
		l.balances[holder] -= amount
		if l.balances[holder] == 0 {
			delete(l.balances, holder)
		}
		l.totalSupply -= amount
		if delegated {
			l.allowances[holder][caller] -= amount
		}
	}
	l.mu.Unlock()

	l.core.EmitTransferred(ctx, id.ClassificationBurn, caller, holder, id.NullHolder, 0, amount)
	return nil
}

// Approve sets the caller's allowance for spender. No balance moves, but the
// approval is still compliance-relevant and routed through the gateway.
// Approvals are not blocked by freeze.
func (l *Ledger) Approve(ctx context.Context, caller, spender id.Address, amount uint64) error {
	if err := l.core.Enter(); err != nil {
		return err
	}
	defer l.core.Guard.Exit()

	err := l.approveLocked(ctx, caller, spender, amount)
	l.core.ObserveOutcome(id.AssetKindFungible, id.ClassificationApproval, err)
	return err
}

func (l *Ledger) approveLocked(ctx context.Context, caller, spender id.Address, amount uint64) error {
	if caller.IsNull() || spender.IsNull() {
		return dErrors.New(dErrors.CodeInvalidInput, "approval parties must be real holders")
	}

	call := validator.Call{Operator: caller, From: caller, To: spender, Amount: amount}
	if err := l.core.Gateway.Validate(ctx, id.ClassificationApproval, call); err != nil {
		return err
	}

	l.mu.Lock()
	if l.allowances[caller] == nil {
		l.allowances[caller] = make(map[id.Address]uint64)
	}
	l.allowances[caller][spender] = amount
	l.mu.Unlock()
	return nil
}

// Freeze suspends balance mutations. Requires FreezeController and the
// freezable flag.
func (l *Ledger) Freeze(ctx context.Context, caller id.Address) error {
	return l.core.Freeze.Freeze(ctx, caller)
}

// Unfreeze resumes balance mutations.
func (l *Ledger) Unfreeze(ctx context.Context, caller id.Address) error {
	return l.core.Freeze.Unfreeze(ctx, caller)
}

// checkFunds verifies holder's balance and, for delegated operations, the
// spender's allowance. Runs under the asset guard so the result holds until
// apply.
func (l *Ledger) checkFunds(holder, spender id.Address, amount uint64, delegated bool) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.balances[holder] < amount {
		return dErrors.New(dErrors.CodeInsufficientBalance, "holder balance is insufficient")
	}
	if delegated && l.allowances[holder][spender] < amount {
		return dErrors.New(dErrors.CodeInsufficientBalance, "allowance is insufficient")
	}
	return nil
}

// BalanceOf returns holder's balance. The null holder always reads zero.
func (l *Ledger) BalanceOf(holder id.Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[holder]
}

// Allowance returns the amount spender may move from holder.
func (l *Ledger) Allowance(holder, spender id.Address) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.allowances[holder][spender]
}

// TotalSupply returns the current total supply.
func (l *Ledger) TotalSupply() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalSupply
}

// IsFrozen reports the freeze state.
func (l *Ledger) IsFrozen() bool {
	return l.core.Freeze.IsFrozen()
}
