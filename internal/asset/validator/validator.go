// Package validator defines the external compliance hook and the gateway that
// classifies and dispatches every balance-changing operation to it before any
// ledger mutation is applied.
package validator

import (
	"context"

	id "assetgate/pkg/domain"
)

// Call carries the five logical parameters of a validation request.
// Operator is the caller that initiated the mutating operation; From and To
// are the null holder or real holders depending on classification; ItemID is
// 0 for fungible assets and the token/type identifier otherwise; Amount is
// the quantity moved (1 for unique-asset mints/transfers/burns).
type Call struct {
	Operator id.Address
	From     id.Address
	To       id.Address
	ItemID   uint64
	Amount   uint64
}

// Validator is the pluggable compliance decision-maker. Implementations are
// external and untrusted: they may reject by returning an error, take too
// long, panic, or call back into the asset. The gateway and the per-asset
// guard contain all of that.
//
// A nil return allows the operation; a non-nil return rejects it with the
// error as the reason. Validators must not be retried: a rejection is a
// terminal, caller-visible outcome.
type Validator interface {
	OnMint(ctx context.Context, call Call) error
	OnTransfer(ctx context.Context, call Call) error
	OnBurn(ctx context.Context, call Call) error
	OnApproval(ctx context.Context, call Call) error

	// IsRestricted is a read-only pre-check for external callers. It is not
	// part of the mutation path.
	IsRestricted(ctx context.Context, holder id.Address) (bool, error)
}
