package handler

import (
	"time"

	"assetgate/internal/issuance/models"
	"assetgate/internal/issuance/service"
)

// AssetResponse is the catalog view of one issued asset.
type AssetResponse struct {
	ID           string           `json:"id"`
	Kind         string           `json:"kind"`
	Name         string           `json:"name"`
	Symbol       string           `json:"symbol"`
	Decimals     uint8            `json:"decimals"`
	Mintable     bool             `json:"mintable"`
	Burnable     bool             `json:"burnable"`
	Freezable    bool             `json:"freezable"`
	IssuerOrigin string           `json:"issuer_origin"`
	Admin        string           `json:"admin"`
	Royalty      *RoyaltyResponse `json:"royalty,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// RoyaltyResponse is the royalty portion of an AssetResponse.
type RoyaltyResponse struct {
	Receiver    string `json:"receiver"`
	BasisPoints uint32 `json:"basis_points"`
}

// FromRecord converts a catalog record to its HTTP representation.
func FromRecord(record models.AssetRecord) AssetResponse {
	resp := AssetResponse{
		ID:           record.ID.String(),
		Kind:         record.Kind.String(),
		Name:         record.Name,
		Symbol:       record.Symbol,
		Decimals:     record.Decimals,
		Mintable:     record.Mintable,
		Burnable:     record.Burnable,
		Freezable:    record.Freezable,
		IssuerOrigin: record.IssuerOrigin,
		Admin:        record.Admin.String(),
		CreatedAt:    record.CreatedAt,
	}
	if record.Royalty != nil {
		resp.Royalty = &RoyaltyResponse{
			Receiver:    record.Royalty.Receiver.String(),
			BasisPoints: record.Royalty.BasisPoints,
		}
	}
	return resp
}

// AssetStateResponse is the live view of one asset: catalog record plus
// runtime state.
type AssetStateResponse struct {
	AssetResponse
	Frozen    bool   `json:"frozen"`
	Validator string `json:"validator"`

	// Fungible only.
	TotalSupply *uint64 `json:"total_supply,omitempty"`
	// Unique and multi-balance: the next unallocated identifier.
	NextID *uint64 `json:"next_id,omitempty"`
}

// FromAsset converts a live asset to its HTTP representation.
func FromAsset(asset *service.Asset, validatorName string) AssetStateResponse {
	resp := AssetStateResponse{
		AssetResponse: FromRecord(asset.Record),
		Validator:     validatorName,
	}
	switch {
	case asset.Fungible != nil:
		supply := asset.Fungible.TotalSupply()
		resp.Frozen = asset.Fungible.IsFrozen()
		resp.TotalSupply = &supply
	case asset.Unique != nil:
		next := asset.Unique.NextID()
		resp.Frozen = asset.Unique.IsFrozen()
		resp.NextID = &next
	default:
		next := asset.Multi.NextTypeID()
		resp.Frozen = asset.Multi.IsFrozen()
		resp.NextID = &next
	}
	return resp
}

// MintResponse is returned by mint endpoints. TokenID and TypeID are set for
// unique and multi-balance mints respectively.
type MintResponse struct {
	TokenID *uint64 `json:"token_id,omitempty"`
	TypeID  *uint64 `json:"type_id,omitempty"`
}

// BalanceResponse is returned by the balance read endpoints.
type BalanceResponse struct {
	Holder  string  `json:"holder"`
	Balance uint64  `json:"balance"`
	TypeID  *uint64 `json:"type_id,omitempty"`
}

// AllowanceResponse is returned by GET /assets/{assetID}/allowance.
type AllowanceResponse struct {
	Holder    string `json:"holder"`
	Spender   string `json:"spender"`
	Allowance uint64 `json:"allowance"`
}

// TokenResponse is returned by GET /assets/{assetID}/tokens/{tokenID}.
// Owner is empty for never-minted or burned identifiers.
type TokenResponse struct {
	TokenID  uint64 `json:"token_id"`
	Owner    string `json:"owner"`
	Approved string `json:"approved,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// TypeResponse is returned by GET /assets/{assetID}/types/{typeID}.
type TypeResponse struct {
	TypeID      uint64 `json:"type_id"`
	Exists      bool   `json:"exists"`
	TotalSupply uint64 `json:"total_supply"`
	URI         string `json:"uri,omitempty"`
}
