// Package models defines the issuance boundary types: what a caller supplies
// to issue an asset and what the registry catalogs about it.
package models

import (
	"time"

	id "assetgate/pkg/domain"
	dErrors "assetgate/pkg/domain-errors"
)

// RoyaltyInfo is static royalty metadata attached at issuance. A lookup
// table for off-chain marketplaces; ledger logic never consults it.
type RoyaltyInfo struct {
	Receiver    id.Address
	BasisPoints uint32
}

func (r RoyaltyInfo) Validate() error {
	if r.Receiver.IsNull() {
		return dErrors.New(dErrors.CodeInvalidInput, "royalty receiver is required")
	}
	if r.BasisPoints > 10_000 {
		return dErrors.New(dErrors.CodeInvalidInput, "royalty basis points cannot exceed 10000")
	}
	return nil
}

// IssuanceConfig is everything the engine needs to construct one asset.
type IssuanceConfig struct {
	Kind     id.AssetKind
	Name     string
	Symbol   string
	Decimals uint8

	Mintable  bool
	Burnable  bool
	Freezable bool

	// Admin receives Owner always, Issuer iff Mintable, FreezeController iff
	// Freezable, and MetadataController on unique and multi-balance assets.
	Admin id.Address

	// InitialSupply and InitialHolder drive the genesis mint. For unique
	// assets InitialSupply is a count of identifiers; for multi-balance it is
	// the initial amount of type 0. Zero supply or a null holder skips the
	// genesis mint.
	InitialSupply uint64
	InitialHolder id.Address

	BaseURI string
	Royalty *RoyaltyInfo
}

// Validate checks the configuration at the issuance boundary.
func (c IssuanceConfig) Validate() error {
	if !c.Kind.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid asset kind")
	}
	if c.Admin.IsNull() {
		return dErrors.New(dErrors.CodeInvalidInput, "admin is required")
	}
	if c.InitialSupply > 0 && c.InitialHolder.IsNull() {
		return dErrors.New(dErrors.CodeInvalidInput, "initial supply requires an initial holder")
	}
	if c.Kind != id.AssetKindFungible && c.Decimals != 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "decimals apply to fungible assets only")
	}
	if c.Royalty != nil {
		if err := c.Royalty.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AssetRecord is the registry's append-only catalog entry for one issued
// asset. Records are never updated or deleted.
type AssetRecord struct {
	ID        id.AssetID
	Kind      id.AssetKind
	Name      string
	Symbol    string
	Decimals  uint8
	Mintable  bool
	Burnable  bool
	Freezable bool
	// IssuerOrigin names the engine that issued the asset. Provenance only.
	IssuerOrigin string
	Admin        id.Address
	Royalty      *RoyaltyInfo
	CreatedAt    time.Time
}
