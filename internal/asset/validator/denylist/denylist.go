// Package denylist ships a reference Validator: it rejects any operation that
// touches a restricted party. Which algorithm decides restriction (sanctions
// feeds, KYC state) is out of scope; this validator only consults a
// RestrictedStore.
package denylist

import (
	"context"
	"fmt"

	"assetgate/internal/asset/validator"
	id "assetgate/pkg/domain"
)

// RestrictedStore is the set of restricted holders backing a denylist
// validator.
type RestrictedStore interface {
	IsRestricted(ctx context.Context, holder id.Address) (bool, error)
	Restrict(ctx context.Context, holder id.Address) error
	Clear(ctx context.Context, holder id.Address) error
}

// Validator rejects mints, transfers, burns, and approvals involving a
// restricted operator or party.
type Validator struct {
	store RestrictedStore
}

var _ validator.Validator = (*Validator)(nil)

func New(store RestrictedStore) *Validator {
	return &Validator{store: store}
}

func (v *Validator) OnMint(ctx context.Context, call validator.Call) error {
	return v.check(ctx, call.Operator, call.To)
}

func (v *Validator) OnTransfer(ctx context.Context, call validator.Call) error {
	return v.check(ctx, call.Operator, call.From, call.To)
}

func (v *Validator) OnBurn(ctx context.Context, call validator.Call) error {
	return v.check(ctx, call.Operator, call.From)
}

func (v *Validator) OnApproval(ctx context.Context, call validator.Call) error {
	// From is the approving owner, To the spender/operator being approved.
	return v.check(ctx, call.Operator, call.From, call.To)
}

func (v *Validator) IsRestricted(ctx context.Context, holder id.Address) (bool, error) {
	if holder.IsNull() {
		return false, nil
	}
	return v.store.IsRestricted(ctx, holder)
}

// check rejects when any non-null party is restricted. A store failure is
// surfaced as a rejection: fail closed, never fail open.
func (v *Validator) check(ctx context.Context, parties ...id.Address) error {
	for _, p := range parties {
		if p.IsNull() {
			continue
		}
		restricted, err := v.store.IsRestricted(ctx, p)
		if err != nil {
			return fmt.Errorf("restriction lookup for %s: %w", p, err)
		}
		if restricted {
			return fmt.Errorf("party %s is restricted", p)
		}
	}
	return nil
}
