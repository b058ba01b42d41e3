package domain

import dErrors "assetgate/pkg/domain-errors"

// Capability is a named permission grantable to a holder on one asset. A
// closed enum rather than free-form role strings: an unknown capability is a
// parse error at the boundary, not a silent miss in a lookup table.
type Capability string

const (
	// CapabilityOwner can grant and revoke every capability, including Owner
	// itself. The table never enforces single ownership; multi-granting
	// Owner is intentional flexibility.
	CapabilityOwner Capability = "owner"
	// CapabilityIssuer can mint (and create types on multi-balance assets).
	CapabilityIssuer Capability = "issuer"
	// CapabilityFreezeController can freeze and unfreeze the asset.
	CapabilityFreezeController Capability = "freeze_controller"
	// CapabilityMetadataController can update base and per-item URIs.
	CapabilityMetadataController Capability = "metadata_controller"
)

// validCapabilities is the single source of truth for valid capabilities.
var validCapabilities = map[Capability]bool{
	CapabilityOwner:              true,
	CapabilityIssuer:             true,
	CapabilityFreezeController:   true,
	CapabilityMetadataController: true,
}

// ParseCapability constructs a Capability from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseCapability(s string) (Capability, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "capability cannot be empty")
	}
	c := Capability(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid capability")
	}
	return c, nil
}

// IsValid checks if the capability is one of the supported enum values.
func (c Capability) IsValid() bool {
	return validCapabilities[c]
}

// String returns the string representation of the capability.
func (c Capability) String() string {
	return string(c)
}
