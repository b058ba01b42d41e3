// Package models holds the value types shared by the three ledger variants.
package models

import (
	dErrors "assetgate/pkg/domain-errors"
)

// Config is the immutable per-asset configuration, fixed at issuance for the
// lifetime of the asset. The three feature flags gate operations permanently:
// an asset issued with Burnable=false can never burn.
type Config struct {
	Name   string
	Symbol string
	// Decimals is the numeric precision. Meaningful for fungible assets only.
	Decimals uint8
	Mintable bool
	Burnable bool
	// Freezable allows the FreezeController to suspend mutations.
	Freezable bool
	// IssuerOrigin records which issuance engine created the asset.
	// Provenance only; never consulted by ledger logic.
	IssuerOrigin string
	// BaseURI is the metadata URI template root for unique and multi-balance
	// assets.
	BaseURI string
}

// Validate checks the configuration at the issuance boundary.
func (c Config) Validate() error {
	if c.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "asset name is required")
	}
	if c.Symbol == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "asset symbol is required")
	}
	if c.Decimals > 18 {
		return dErrors.New(dErrors.CodeInvalidInput, "decimals cannot exceed 18")
	}
	return nil
}
