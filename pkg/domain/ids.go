package domain

import (
	"github.com/google/uuid"

	dErrors "assetgate/pkg/domain-errors"
)

// AssetID uniquely identifies an issued asset. Typed to prevent cross-type
// assignment with other uuid-backed identifiers at compile time.
type AssetID uuid.UUID

// NewAssetID allocates a random asset identifier.
func NewAssetID() AssetID {
	return AssetID(uuid.New())
}

// ParseAssetID constructs an AssetID from external input.
//
// Errors: returns CodeInvalidInput when the value is empty, malformed, or the
// nil UUID.
func ParseAssetID(s string) (AssetID, error) {
	if s == "" {
		return AssetID{}, dErrors.New(dErrors.CodeInvalidInput, "asset id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return AssetID{}, dErrors.New(dErrors.CodeInvalidInput, "asset id must be a valid UUID")
	}
	if u == uuid.Nil {
		return AssetID{}, dErrors.New(dErrors.CodeInvalidInput, "asset id cannot be the nil UUID")
	}
	return AssetID(u), nil
}

// IsZero reports whether the ID is unset.
func (id AssetID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

// String returns the canonical UUID string.
func (id AssetID) String() string {
	return uuid.UUID(id).String()
}
