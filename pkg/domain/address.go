package domain

import (
	"strings"

	dErrors "assetgate/pkg/domain-errors"
)

// Address identifies a balance holder. The zero value is the null holder: the
// reserved sentinel used as the logical source of mints and destination of
// burns. It is never a real holder: ledgers must never read or write a
// balance for it.
//
// Usage: construct via ParseAddress at trust boundaries; direct casting
// bypasses validation.
type Address string

// NullHolder is the reserved "no holder" sentinel.
const NullHolder Address = ""

const maxAddressLen = 128

// ParseAddress constructs an Address from external input.
//
// Errors: returns CodeInvalidInput for empty, whitespace-bearing, or oversized
// values; no other errors are expected. The null holder is intentionally not
// parseable; callers that mean "no holder" use the NullHolder constant.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return NullHolder, dErrors.New(dErrors.CodeInvalidInput, "address cannot be empty")
	}
	if len(s) > maxAddressLen {
		return NullHolder, dErrors.New(dErrors.CodeInvalidInput, "address exceeds maximum length")
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return NullHolder, dErrors.New(dErrors.CodeInvalidInput, "address must not contain whitespace")
	}
	return Address(s), nil
}

// IsNull reports whether the address is the null-holder sentinel.
func (a Address) IsNull() bool {
	return a == NullHolder
}

// String returns the string representation of the address.
func (a Address) String() string {
	return string(a)
}
