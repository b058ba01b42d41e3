// Package unique implements the one-owner-per-identifier ledger variant:
// auto-incrementing identifiers that are never reused, per-identifier
// metadata URIs, and token/operator approvals.
package unique

import (
	"context"
	"strconv"
	"sync"

	"assetgate/internal/asset/core"
	"assetgate/internal/asset/validator"
	id "assetgate/pkg/domain"
	dErrors "assetgate/pkg/domain-errors"
)

// Ledger tracks identifier ownership for one unique asset.
//
// Invariants: every identifier below nextID was minted exactly once; an
// identifier loses its owner only through burn; a burned identifier is
// permanently unmintable because nextID never rewinds and never skips back.
type Ledger struct {
	core *core.Core

	mu                sync.RWMutex
	owners            map[uint64]id.Address
	nextID            uint64
	tokenURIs         map[uint64]string
	tokenApprovals    map[uint64]id.Address
	operatorApprovals map[id.Address]map[id.Address]bool
	baseURI           string
}

func New(c *core.Core) *Ledger {
	return &Ledger{
		core:              c,
		owners:            make(map[uint64]id.Address),
		tokenURIs:         make(map[uint64]string),
		tokenApprovals:    make(map[uint64]id.Address),
		operatorApprovals: make(map[id.Address]map[id.Address]bool),
		baseURI:           c.Config.BaseURI,
	}
}

// Core exposes the composed components for the issuance engine and handlers.
func (l *Ledger) Core() *core.Core { return l.core }

// Mint allocates the next identifier and assigns it to to. Requires the
// Issuer capability and the mintable flag; classified as Mint with amount 1.
func (l *Ledger) Mint(ctx context.Context, caller, to id.Address) (uint64, error) {
	return l.mint(ctx, caller, to, "")
}

// MintWithMetadata mints and sets the identifier's URI override in the same
// operation: either both happen or neither does.
func (l *Ledger) MintWithMetadata(ctx context.Context, caller, to id.Address, uri string) (uint64, error) {
	if uri == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "metadata URI cannot be empty")
	}
	return l.mint(ctx, caller, to, uri)
}

func (l *Ledger) mint(ctx context.Context, caller, to id.Address, uri string) (uint64, error) {
	if err := l.core.Enter(); err != nil {
		return 0, err
	}
	defer l.core.Guard.Exit()

	tokenID, err := l.mintLocked(ctx, caller, to, uri)
	l.core.ObserveOutcome(id.AssetKindUnique, id.ClassificationMint, err)
	return tokenID, err
}

func (l *Ledger) mintLocked(ctx context.Context, caller, to id.Address, uri string) (uint64, error) {
	if to.IsNull() {
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

	// The identifier is allocated only after validation succeeds; a rejected
	// mint must not consume an identifier.
	l.mu.RLock()
	tokenID := l.nextID
	l.mu.RUnlock()

	call := validator.Call{Operator: caller, From: id.NullHolder, To: to, ItemID: tokenID, Amount: 1}
	if err := l.core.Gateway.Validate(ctx, id.ClassificationMint, call); err != nil {
		return 0, err
	}

	l.mu.Lock()
	l.owners[tokenID] = to
	l.nextID++
	if uri != "" {
		l.tokenURIs[tokenID] = uri
	}
	l.mu.Unlock()

	l.core.EmitTransferred(ctx, id.ClassificationMint, caller, id.NullHolder, to, tokenID, 1)
	return tokenID, nil
}

// Transfer moves an identifier to to. The caller must be the owner, the
// approved spender for the identifier, or an approved operator for the owner.
func (l *Ledger) Transfer(ctx context.Context, caller, to id.Address, tokenID uint64) error {
	if err := l.core.Enter(); err != nil {
		return err
	}
	defer l.core.Guard.Exit()

	err := l.transferLocked(ctx, caller, to, tokenID)
	l.core.ObserveOutcome(id.AssetKindUnique, id.ClassificationTransfer, err)
	return err
}

func (l *Ledger) transferLocked(ctx context.Context, caller, to id.Address, tokenID uint64) error {
	if to.IsNull() {
		return dErrors.New(dErrors.CodeInvalidInput, "cannot transfer to the null holder")
	}
	if err := l.core.Freeze.RequireActive(); err != nil {
		return err
	}
	owner, err := l.requireAuthorized(caller, tokenID)
	if err != nil {
		return err
	}

	call := validator.Call{Operator: caller, From: owner, To: to, ItemID: tokenID, Amount: 1}
	if err := l.core.Gateway.Validate(ctx, id.ClassificationTransfer, call); err != nil {
		return err
	}

	l.mu.Lock()
	l.owners[tokenID] = to
	delete(l.tokenApprovals, tokenID)
	l.mu.Unlock()

	l.core.EmitTransferred(ctx, id.ClassificationTransfer, caller, owner, to, tokenID, 1)
	return nil
}

// Burn clears the identifier's owner to the null holder. Requires the
// burnable flag; the identifier becomes permanently unmintable.
func (l *Ledger) Burn(ctx context.Context, caller id.Address, tokenID uint64) error {
	if err := l.core.Enter(); err != nil {
		return err
	}
	defer l.core.Guard.Exit()

	err := l.burnLocked(ctx, caller, tokenID)
	l.core.ObserveOutcome(id.AssetKindUnique, id.ClassificationBurn, err)
	return err
}

func (l *Ledger) burnLocked(ctx context.Context, caller id.Address, tokenID uint64) error {
	if err := l.core.RequireBurnable(); err != nil {
		return err
	}
	if err := l.core.Freeze.RequireActive(); err != nil {
		return err
	}
	owner, err := l.requireAuthorized(caller, tokenID)
	if err != nil {
		return err
	}

	call := validator.Call{Operator: caller, From: owner, To: id.NullHolder, ItemID: tokenID, Amount: 1}
	if err := l.core.Gateway.Validate(ctx, id.ClassificationBurn, call); err != nil {
		return err
	}

	l.mu.Lock()
	delete(l.owners, tokenID)
	delete(l.tokenApprovals, tokenID)
	delete(l.tokenURIs, tokenID)
	l.mu.Unlock()

	l.core.EmitTransferred(ctx, id.ClassificationBurn, caller, owner, id.NullHolder, tokenID, 1)
	return nil
}

// Approve sets spender as the approved delegate for one identifier. Granting
// is routed through the gateway (Approval, amount 1); revoking (a null
// spender) is not compliance-gated, since removing permission cannot itself
// be a violation.
func (l *Ledger) Approve(ctx context.Context, caller, spender id.Address, tokenID uint64) error {
	if err := l.core.Enter(); err != nil {
		return err
	}
	defer l.core.Guard.Exit()

	err := l.approveLocked(ctx, caller, spender, tokenID)
	l.core.ObserveOutcome(id.AssetKindUnique, id.ClassificationApproval, err)
	return err
}

func (l *Ledger) approveLocked(ctx context.Context, caller, spender id.Address, tokenID uint64) error {
	owner, err := l.requireAuthorized(caller, tokenID)
	if err != nil {
		return err
	}

	if !spender.IsNull() {
		call := validator.Call{Operator: caller, From: owner, To: spender, ItemID: tokenID, Amount: 1}
		if err := l.core.Gateway.Validate(ctx, id.ClassificationApproval, call); err != nil {
			return err
		}
	}

	l.mu.Lock()
	if spender.IsNull() {
		delete(l.tokenApprovals, tokenID)
	} else {
		l.tokenApprovals[tokenID] = spender
	}
	l.mu.Unlock()
	return nil
}

// SetApprovalForAll toggles operator's blanket approval over the caller's
// identifiers. Granting is gated (Approval with itemID 0 and amount 0, the
// "all" sentinel); revoking is not.
func (l *Ledger) SetApprovalForAll(ctx context.Context, caller, operator id.Address, approved bool) error {
	if err := l.core.Enter(); err != nil {
		return err
	}
	defer l.core.Guard.Exit()

	err := l.setApprovalForAllLocked(ctx, caller, operator, approved)
	l.core.ObserveOutcome(id.AssetKindUnique, id.ClassificationApproval, err)
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

// SetTokenURI sets or replaces one identifier's URI override. Requires
// MetadataController and an existing identifier.
func (l *Ledger) SetTokenURI(ctx context.Context, caller id.Address, tokenID uint64, uri string) error {
	if err := l.core.Enter(); err != nil {
		return err
	}
	defer l.core.Guard.Exit()

	if err := l.core.RequireMetadataController(caller); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.owners[tokenID]; !ok {
		return dErrors.New(dErrors.CodeInvalidIdentifier, "identifier does not exist")
	}
	l.tokenURIs[tokenID] = uri
	return nil
}

// Freeze suspends mutations.
func (l *Ledger) Freeze(ctx context.Context, caller id.Address) error {
	return l.core.Freeze.Freeze(ctx, caller)
}

// Unfreeze resumes mutations.
func (l *Ledger) Unfreeze(ctx context.Context, caller id.Address) error {
	return l.core.Freeze.Unfreeze(ctx, caller)
}

// OwnerOf returns the identifier's owner, or the null holder for identifiers
// that were never minted or were burned.
func (l *Ledger) OwnerOf(tokenID uint64) id.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.owners[tokenID]
}

// MetadataURI returns the identifier's override URI if set, else the base URI
// concatenated with the identifier's decimal representation.
func (l *Ledger) MetadataURI(tokenID uint64) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, ok := l.owners[tokenID]; !ok {
		return "", dErrors.New(dErrors.CodeInvalidIdentifier, "identifier does not exist")
	}
	if uri, ok := l.tokenURIs[tokenID]; ok {
		return uri, nil
	}
	return l.baseURI + strconv.FormatUint(tokenID, 10), nil
}

// IsApprovedForAll reports whether operator has blanket approval from owner.
func (l *Ledger) IsApprovedForAll(owner, operator id.Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.operatorApprovals[owner][operator]
}

// ApprovedFor returns the approved spender for an identifier, or the null
// holder.
func (l *Ledger) ApprovedFor(tokenID uint64) id.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tokenApprovals[tokenID]
}

// NextID returns the next identifier to be allocated.
func (l *Ledger) NextID() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.nextID
}

// IsFrozen reports the freeze state.
func (l *Ledger) IsFrozen() bool {
	return l.core.Freeze.IsFrozen()
}

// requireAuthorized resolves the identifier's owner and checks the caller may
// act on it. Runs under the asset guard.
func (l *Ledger) requireAuthorized(caller id.Address, tokenID uint64) (id.Address, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	owner, ok := l.owners[tokenID]
	if !ok {
		return id.NullHolder, dErrors.New(dErrors.CodeInvalidIdentifier, "identifier does not exist")
	}
	if caller != owner && l.tokenApprovals[tokenID] != caller && !l.operatorApprovals[owner][caller] {
		return id.NullHolder, dErrors.New(dErrors.CodeUnauthorized, "caller is not owner or approved")
	}
	return owner, nil
}
