package domain

import dErrors "assetgate/pkg/domain-errors"

// Classification labels a balance-changing operation for compliance
// dispatch. It is derived from which operand is the null holder, except for
// Approval which is assigned explicitly by approval paths (no value moves).
type Classification string

const (
	ClassificationMint     Classification = "mint"
	ClassificationTransfer Classification = "transfer"
	ClassificationBurn     Classification = "burn"
	ClassificationApproval Classification = "approval"
)

// validClassifications is the single source of truth for valid classifications.
var validClassifications = map[Classification]bool{
	ClassificationMint:     true,
	ClassificationTransfer: true,
	ClassificationBurn:     true,
	ClassificationApproval: true,
}

// Classify derives the classification of a balance movement from its
// endpoints: null source is a mint, null destination is a burn, anything else
// is a transfer. A movement with both endpoints null is meaningless and maps
// to Transfer; ledgers reject it before classification.
func Classify(from, to Address) Classification {
	switch {
	case from.IsNull() && !to.IsNull():
		return ClassificationMint
	case !from.IsNull() && to.IsNull():
		return ClassificationBurn
	default:
		return ClassificationTransfer
	}
}

// ParseClassification constructs a Classification from external input.
func ParseClassification(s string) (Classification, error) {
	c := Classification(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid classification")
	}
	return c, nil
}

// IsValid checks if the classification is one of the supported enum values.
func (c Classification) IsValid() bool {
	return validClassifications[c]
}

// String returns the string representation of the classification.
func (c Classification) String() string {
	return string(c)
}
