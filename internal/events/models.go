// Package events defines the domain events every asset emits and the
// publisher fan-out that carries them to off-chain consumers. Events are
// observable side effects, not an RPC surface: emission happens after a
// mutation is applied and never unwinds it.
package events

import (
	"time"

	id "assetgate/pkg/domain"
)

// Action names the kind of domain event.
type Action string

const (
	// ActionTransferred is emitted for every applied ledger mutation,
	// including mints (from = null holder) and burns (to = null holder).
	ActionTransferred Action = "transferred"
	// ActionCapabilityChanged is emitted on every grant or revoke.
	ActionCapabilityChanged Action = "capability_changed"
	// ActionValidatorReplaced is emitted when the owner swaps the validator.
	ActionValidatorReplaced Action = "validator_replaced"
	ActionFrozen            Action = "frozen"
	ActionUnfrozen          Action = "unfrozen"
	// ActionAssetIssued is emitted once by the issuance engine per asset.
	ActionAssetIssued Action = "asset_issued"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	AssetID   id.AssetID
	Action    Action
	Timestamp time.Time
	// Actor is the caller that initiated the mutation, when known.
	Actor id.Address

	// Transferred fields.
	Classification id.Classification
	From           id.Address
	To             id.Address
	ItemID         uint64
	Amount         uint64
	// Data is the opaque payload callers may attach to multi-balance
	// mutations; carried through for off-chain consumers, never interpreted.
	Data []byte

	// CapabilityChanged fields.
	Capability id.Capability
	Holder     id.Address
	Granted    bool

	// ValidatorReplaced fields. Validator identities are descriptive names,
	// not lifecycle-managed references.
	OldValidator string
	NewValidator string

	// RequestID is the correlation ID from the request context, when set.
	RequestID string
}
