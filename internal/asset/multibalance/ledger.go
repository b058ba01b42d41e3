// Package multibalance implements the per-(type, holder) ledger variant:
// dynamic type creation, per-type supply tracking, and batched multi-type
// mutations in one logical operation.
package multibalance

import (
	"context"
	"math"
	"strconv"
	"sync"

	"assetgate/internal/asset/core"
	"assetgate/internal/asset/validator"
	"assetgate/internal/events"
	id "assetgate/pkg/domain"
	dErrors "assetgate/pkg/domain-errors"
)

// Ledger tracks per-type balances for one multi-balance asset.
//
// Batch policy: batches run in two phases. Phase one performs the per-element
// capability, balance, and gateway checks, one gateway dispatch per element,
// preserving per-item validation granularity. Phase two applies every
// element's mutation. A rejection at element k therefore aborts the whole
// batch with nothing applied; there is no host transaction to lean on.
//
// Invariant: for every type t, sum(balances[t]) equals supply[t].
type Ledger struct {
	core *core.Core

	mu                sync.RWMutex
	balances          map[uint64]map[id.Address]uint64
	supply            map[uint64]uint64
	nextTypeID        uint64
	typeURIs          map[uint64]string
	baseURI           string
	minted            map[uint64]bool
	operatorApprovals map[id.Address]map[id.Address]bool
}

func New(c *core.Core) *Ledger {
	return &Ledger{
		core:              c,
		balances:          make(map[uint64]map[id.Address]uint64),
		supply:            make(map[uint64]uint64),
		typeURIs:          make(map[uint64]string),
		baseURI:           c.Config.BaseURI,
		minted:            make(map[uint64]bool),
		operatorApprovals: make(map[id.Address]map[id.Address]bool),
	}
}

// Core exposes the composed components for the issuance engine and handlers.
func (l *Ledger) Core() *core.Core { return l.core }

// CreateType allocates the next type identifier and mints initialAmount of it
// to to. Requires Issuer and the mintable flag; classified as Mint.
func (l *Ledger) CreateType(ctx context.Context, caller, to id.Address, initialAmount uint64, data []byte) (uint64, error) {
	if err := l.core.Enter(); err != nil {
		return 0, err
	}
	defer l.core.Guard.Exit()

	typeID, err := l.createTypeLocked(ctx, caller, to, initialAmount, data)
	l.core.ObserveOutcome(id.AssetKindMultiBalance, id.ClassificationMint, err)
	return typeID, err
}

func (l *Ledger) createTypeLocked(ctx context.Context, caller, to id.Address, initialAmount uint64, data []byte) (uint64, error) {
	if initialAmount > 0 && to.IsNull() {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "cannot mint to the null holder")
	}
	if err := l.core.RequireIssuer(caller); err != nil {
		return 0, err
	}
	if err := l.core.RequireMintable(); err != nil {
		return 0, err
	}
	if err := l.core.Freeze.RequireActive(); err != nil {
		return 0, err
	}

	// The type identifier is allocated only after validation; a rejected
	// creation must not consume one.
	l.mu.RLock()
	typeID := l.nextTypeID
	l.mu.RUnlock()

	if initialAmount > 0 {
		call := validator.Call{Operator: caller, From: id.NullHolder, To: to, ItemID: typeID, Amount: initialAmount}
		if err := l.core.Gateway.Validate(ctx, id.ClassificationMint, call); err != nil {
			return 0, err
		}
	}

	l.mu.Lock()
	l.nextTypeID++
	if initialAmount > 0 {
		l.mintInto(typeID, to, initialAmount)
	}
	l.mu.Unlock()

	if initialAmount > 0 {
		l.emitTransferred(ctx, id.ClassificationMint, caller, id.NullHolder, to, typeID, initialAmount, data)
	}
	return typeID, nil
}

// Mint creates more supply of an existing type. Minting a type that was never
// created fails with invalid_identifier.
func (l *Ledger) Mint(ctx context.Context, caller, to id.Address, typeID, amount uint64, data []byte) error {
	return l.MintBatch(ctx, caller, to, []uint64{typeID}, []uint64{amount}, data)
}

// MintBatch mints several types to one holder in a single logical operation.
func (l *Ledger) MintBatch(ctx context.Context, caller, to id.Address, typeIDs, amounts []uint64, data []byte) error {
	if err := l.core.Enter(); err != nil {
		return err
	}
	defer l.core.Guard.Exit()

	err := l.mintBatchLocked(ctx, caller, to, typeIDs, amounts, data)
	l.core.ObserveOutcome(id.AssetKindMultiBalance, id.ClassificationMint, err)
	return err
}

func (l *Ledger) mintBatchLocked(ctx context.Context, caller, to id.Address, typeIDs, amounts []uint64, data []byte) error {
	if len(typeIDs) != len(amounts) {
		return dErrors.New(dErrors.CodeLengthMismatch, "type and amount slices differ in length")
	}
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

	// Phase one: per-element existence, overflow, and gateway checks. The
	// overflow check accumulates per type so a batch repeating one type
	// cannot pass element-wise yet wrap the supply in aggregate.
	minting := make(map[uint64]uint64)
	for i, typeID := range typeIDs {
		if err := l.requireType(typeID); err != nil {
			return err
		}
		if amounts[i] > math.MaxUint64-minting[typeID] {
			return dErrors.New(dErrors.CodeInvalidInput, "mint would overflow type supply")
		}
		minting[typeID] += amounts[i]
		if l.TotalSupply(typeID) > math.MaxUint64-minting[typeID] {
			return dErrors.New(dErrors.CodeInvalidInput, "mint would overflow type supply")
		}
		call := validator.Call{Operator: caller, From: id.NullHolder, To: to, ItemID: typeID, Amount: amounts[i]}
		if err := l.core.Gateway.Validate(ctx, id.ClassificationMint, call); err != nil {
			return err
		}
	}

	// Phase two: apply everything.
	l.mu.Lock()
	for i, typeID := range typeIDs {
		l.mintInto(typeID, to, amounts[i])
	}
	l.mu.Unlock()

	for i, typeID := range typeIDs {
		l.emitTransferred(ctx, id.ClassificationMint, caller, id.NullHolder, to, typeID, amounts[i], data)
	}
	return nil
}

// Transfer moves amount of one type between holders.
func (l *Ledger) Transfer(ctx context.Context, caller, from, to id.Address, typeID, amount uint64, data []byte) error {
	return l.TransferBatch(ctx, caller, from, to, []uint64{typeID}, []uint64{amount}, data)
}

// TransferBatch moves several types between one pair of holders.
func (l *Ledger) TransferBatch(ctx context.Context, caller, from, to id.Address, typeIDs, amounts []uint64, data []byte) error {
	if err := l.core.Enter(); err != nil {
		return err
	}
	defer l.core.Guard.Exit()

	err := l.transferBatchLocked(ctx, caller, from, to, typeIDs, amounts, data)
	l.core.ObserveOutcome(id.AssetKindMultiBalance, id.ClassificationTransfer, err)
	return err
}

func (l *Ledger) transferBatchLocked(ctx context.Context, caller, from, to id.Address, typeIDs, amounts []uint64, data []byte) error {
	if len(typeIDs) != len(amounts) {
		return dErrors.New(dErrors.CodeLengthMismatch, "type and amount slices differ in length")
	}
	if from.IsNull() || to.IsNull() {
		return dErrors.New(dErrors.CodeInvalidInput, "transfer endpoints must be real holders")
	}
	if err := l.core.Freeze.RequireActive(); err != nil {
		return err
	}
	if err := l.requireActsFor(caller, from); err != nil {
		return err
	}

	// Phase one. Balance checks accumulate per type so a batch repeating one
	// type cannot pass element-wise yet overdraw in aggregate.
	needed := make(map[uint64]uint64)
	for i, typeID := range typeIDs {
		if err := l.requireType(typeID); err != nil {
			return err
		}
		if amounts[i] > math.MaxUint64-needed[typeID] {
			return dErrors.New(dErrors.CodeInsufficientBalance, "holder balance is insufficient")
		}
		needed[typeID] += amounts[i]
		if l.BalanceOf(from, typeID) < needed[typeID] {
			return dErrors.New(dErrors.CodeInsufficientBalance, "holder balance is insufficient")
		}
		call := validator.Call{Operator: caller, From: from, To: to, ItemID: typeID, Amount: amounts[i]}
		if err := l.core.Gateway.Validate(ctx, id.ClassificationTransfer, call); err != nil {
			return err
		}
	}

	// Phase two. Transfers move balance without touching supply.
	l.mu.Lock()
	for i, typeID := range typeIDs {
		l.debit(typeID, from, amounts[i])
		l.credit(typeID, to, amounts[i])
	}
	l.mu.Unlock()

	for i, typeID := range typeIDs {
		l.emitTransferred(ctx, id.ClassificationTransfer, caller, from, to, typeID, amounts[i], data)
	}
	return nil
}

// Burn destroys amount of one type from holder.
func (l *Ledger) Burn(ctx context.Context, caller, holder id.Address, typeID, amount uint64, data []byte) error {
	return l.BurnBatch(ctx, caller, holder, []uint64{typeID}, []uint64{amount}, data)
}

// BurnBatch destroys several types from one holder.
func (l *Ledger) BurnBatch(ctx context.Context, caller, holder id.Address, typeIDs, amounts []uint64, data []byte) error {
	if err := l.core.Enter(); err != nil {
		return err
	}
	defer l.core.Guard.Exit()

	err := l.burnBatchLocked(ctx, caller, holder, typeIDs, amounts, data)
	l.core.ObserveOutcome(id.AssetKindMultiBalance, id.ClassificationBurn, err)
	return err
}

func (l *Ledger) burnBatchLocked(ctx context.Context, caller, holder id.Address, typeIDs, amounts []uint64, data []byte) error {
	if len(typeIDs) != len(amounts) {
		return dErrors.New(dErrors.CodeLengthMismatch, "type and amount slices differ in length")
	}
	if holder.IsNull() {
		return dErrors.New(dErrors.CodeInvalidInput, "cannot burn from the null holder")
	}
	if err := l.core.RequireBurnable(); err != nil {
		return err
	}
	if err := l.core.Freeze.RequireActive(); err != nil {
		return err
	}
	if err := l.requireActsFor(caller, holder); err != nil {
		return err
	}

	needed := make(map[uint64]uint64)
	for i, typeID := range typeIDs {
		if err := l.requireType(typeID); err != nil {
			return err
		}
		if amounts[i] > math.MaxUint64-needed[typeID] {
			return dErrors.New(dErrors.CodeInsufficientBalance, "holder balance is insufficient")
		}
		needed[typeID] += amounts[i]
		if l.BalanceOf(holder, typeID) < needed[typeID] {
			return dErrors.New(dErrors.CodeInsufficientBalance, "holder balance is insufficient")
		}
		call := validator.Call{Operator: caller, From: holder, To: id.NullHolder, ItemID: typeID, Amount: amounts[i]}
		if err := l.core.Gateway.Validate(ctx, id.ClassificationBurn, call); err != nil {
			return err
		}
	}

	l.mu.Lock()
	for i, typeID := range typeIDs {
		l.debit(typeID, holder, amounts[i])
		l.supply[typeID] -= amounts[i]
	}
	l.mu.Unlock()

	for i, typeID := range typeIDs {
		l.emitTransferred(ctx, id.ClassificationBurn, caller, holder, id.NullHolder, typeID, amounts[i], data)
	}
	return nil
}

// SetApprovalForAll toggles operator's blanket approval over the caller's
// balances. Granting is gated through the gateway; revoking is not.
func (l *Ledger) SetApprovalForAll(ctx context.Context, caller, operator id.Address, approved bool) error {
	if err := l.core.Enter(); err != nil {
		return err
	}
	defer l.core.Guard.Exit()

	err := l.setApprovalForAllLocked(ctx, caller, operator, approved)
	l.core.ObserveOutcome(id.AssetKindMultiBalance, id.ClassificationApproval, err)
	return err
}

func (l *Ledger) setApprovalForAllLocked(ctx context.Context, caller, operator id.Address, approved bool) error {
	if caller.IsNull() || operator.IsNull() {
		return dErrors.New(dErrors.CodeInvalidInput, "approval parties must be real holders")
	}

	if approved {
		call := validator.Call{Operator: caller, From: caller, To: operator, ItemID: 0, Amount: 0}
		if err := l.core.Gateway.Validate(ctx, id.ClassificationApproval, call); err != nil {
			return err
		}
	}

	l.mu.Lock()
	if approved {
		if l.operatorApprovals[caller] == nil {
			l.operatorApprovals[caller] = make(map[id.Address]bool)
		}
		l.operatorApprovals[caller][operator] = true
	} else {
		delete(l.operatorApprovals[caller], operator)
	}
	l.mu.Unlock()
	return nil
}

// SetTypeURI sets or replaces one type's URI override. Requires
// MetadataController and a created type.
func (l *Ledger) SetTypeURI(ctx context.Context, caller id.Address, typeID uint64, uri string) error {
	if err := l.core.Enter(); err != nil {
		return err
	}
	defer l.core.Guard.Exit()

	if err := l.core.RequireMetadataController(caller); err != nil {
		return err
	}
	if err := l.requireType(typeID); err != nil {
		return err
	}
	l.mu.Lock()
	l.typeURIs[typeID] = uri
	l.mu.Unlock()
	return nil
}

// SetBaseURI replaces the URI template root. Requires MetadataController.
func (l *Ledger) SetBaseURI(ctx context.Context, caller id.Address, uri string) error {
	if err := l.core.Enter(); err != nil {
		return err
	}
	defer l.core.Guard.Exit()

	if err := l.core.RequireMetadataController(caller); err != nil {
		return err
	}
	l.mu.Lock()
	l.baseURI = uri
	l.mu.Unlock()
	return nil
}

// URI returns the type's override URI if set, else the base URI concatenated
// with the type's decimal representation.
func (l *Ledger) URI(typeID uint64) (string, error) {
	if err := l.requireType(typeID); err != nil {
		return "", err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if uri, ok := l.typeURIs[typeID]; ok {
		return uri, nil
	}
	return l.baseURI + strconv.FormatUint(typeID, 10), nil
}

// Freeze suspends mutations, single and batch alike.
func (l *Ledger) Freeze(ctx context.Context, caller id.Address) error {
	return l.core.Freeze.Freeze(ctx, caller)
}

// Unfreeze resumes mutations.
func (l *Ledger) Unfreeze(ctx context.Context, caller id.Address) error {
	return l.core.Freeze.Unfreeze(ctx, caller)
}

// BalanceOf returns holder's balance of one type.
func (l *Ledger) BalanceOf(holder id.Address, typeID uint64) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[typeID][holder]
}

// TotalSupply returns the current supply of one type.
func (l *Ledger) TotalSupply(typeID uint64) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.supply[typeID]
}

// Exists reports whether any supply was ever minted for the type. A created
// type with zero initial amount does not exist until its first mint.
func (l *Ledger) Exists(typeID uint64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.minted[typeID]
}

// NextTypeID returns the next type identifier to be allocated.
func (l *Ledger) NextTypeID() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.nextTypeID
}

// IsApprovedForAll reports whether operator has blanket approval from owner.
func (l *Ledger) IsApprovedForAll(owner, operator id.Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.operatorApprovals[owner][operator]
}

// IsFrozen reports the freeze state.
func (l *Ledger) IsFrozen() bool {
	return l.core.Freeze.IsFrozen()
}

// requireType fails unless the type was created via CreateType.
func (l *Ledger) requireType(typeID uint64) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if typeID >= l.nextTypeID {
		return dErrors.New(dErrors.CodeInvalidIdentifier, "type does not exist")
	}
	return nil
}

// requireActsFor checks that caller may move holder's balances.
func (l *Ledger) requireActsFor(caller, holder id.Address) error {
	if caller == holder {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.operatorApprovals[holder][caller] {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not holder or approved operator")
	}
	return nil
}

// credit adds amount to (typeID, holder). Supply is adjusted by mint and burn
// paths only. Zero amounts leave the maps untouched. Callers hold l.mu.
func (l *Ledger) credit(typeID uint64, holder id.Address, amount uint64) {
	if amount == 0 {
		return
	}
	if l.balances[typeID] == nil {
		l.balances[typeID] = make(map[id.Address]uint64)
	}
	l.balances[typeID][holder] += amount
}

// mintInto credits a fresh mint: balance, supply, and the ever-minted mark.
// Callers hold l.mu.
func (l *Ledger) mintInto(typeID uint64, holder id.Address, amount uint64) {
	l.credit(typeID, holder, amount)
	l.supply[typeID] += amount
	if amount > 0 {
		l.minted[typeID] = true
	}
}

// debit removes amount from (typeID, holder). Callers hold l.mu and have
// verified sufficiency. Zero amounts return early: the type's balance map
// may not exist yet, and a nil-map write must not be reachable.
func (l *Ledger) debit(typeID uint64, holder id.Address, amount uint64) {
	if amount == 0 {
		return
	}
	l.balances[typeID][holder] -= amount
	if l.balances[typeID][holder] == 0 {
		delete(l.balances[typeID], holder)
	}
}

func (l *Ledger) emitTransferred(ctx context.Context, classification id.Classification, operator, from, to id.Address, typeID, amount uint64, data []byte) {
	l.core.Emitter.Emit(ctx, events.Event{
		AssetID:        l.core.AssetID,
		Action:         events.ActionTransferred,
		Actor:          operator,
		Classification: classification,
		From:           from,
		To:             to,
		ItemID:         typeID,
		Amount:         amount,
		Data:           data,
	})
}
