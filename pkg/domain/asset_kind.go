package domain

import dErrors "assetgate/pkg/domain-errors"

// AssetKind selects the ledger variant backing an issued asset.
type AssetKind string

const (
	// AssetKindFungible: one balance per holder, shared total supply.
	AssetKindFungible AssetKind = "fungible"
	// AssetKindUnique: one owner per auto-incremented identifier.
	AssetKindUnique AssetKind = "unique"
	// AssetKindMultiBalance: per-(type, holder) balances with dynamic type
	// creation and batched mutations.
	AssetKindMultiBalance AssetKind = "multi_balance"
)

var validAssetKinds = map[AssetKind]bool{
	AssetKindFungible:     true,
	AssetKindUnique:       true,
	AssetKindMultiBalance: true,
}

// ParseAssetKind constructs an AssetKind from external input.
func ParseAssetKind(s string) (AssetKind, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "asset kind cannot be empty")
	}
	k := AssetKind(s)
	if !k.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid asset kind")
	}
	return k, nil
}

// IsValid checks if the kind is one of the supported enum values.
func (k AssetKind) IsValid() bool {
	return validAssetKinds[k]
}

// String returns the string representation of the kind.
func (k AssetKind) String() string {
	return string(k)
}
