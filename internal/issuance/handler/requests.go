package handler

import (
	"strings"

	"assetgate/internal/issuance/models"
	id "assetgate/pkg/domain"
	dErrors "assetgate/pkg/domain-errors"
)

// Validator selector values accepted at issuance and replacement.
const (
	ValidatorNone     = "none"
	ValidatorDenylist = "denylist"
)

// IssueRequest is the HTTP request body for POST /admin/assets.
type IssueRequest struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	Decimals  uint8  `json:"decimals"`
	Mintable  bool   `json:"mintable"`
	Burnable  bool   `json:"burnable"`
	Freezable bool   `json:"freezable"`

	Admin         string `json:"admin"`
	InitialSupply uint64 `json:"initial_supply"`
	InitialHolder string `json:"initial_holder"`
	BaseURI       string `json:"base_uri"`

	Validator string          `json:"validator,omitempty"`
	Royalty   *RoyaltyRequest `json:"royalty,omitempty"`

	// Parsed values (populated by Validate)
	parsedKind   id.AssetKind
	parsedAdmin  id.Address
	parsedHolder id.Address
}

// RoyaltyRequest is the optional royalty block of an IssueRequest.
type RoyaltyRequest struct {
	Receiver    string `json:"receiver"`
	BasisPoints uint32 `json:"basis_points"`
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *IssueRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	kind, err := id.ParseAssetKind(r.Kind)
	if err != nil {
		return err
	}
	r.parsedKind = kind

	r.parsedAdmin, err = id.ParseAddress(r.Admin)
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "admin must be a valid holder address")
	}

	if r.InitialHolder != "" {
		r.parsedHolder, err = id.ParseAddress(r.InitialHolder)
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "initial_holder must be a valid holder address")
		}
	}

	switch r.Validator {
	case "", ValidatorNone, ValidatorDenylist:
	default:
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown validator %q", r.Validator)
	}
	return nil
}

// ToConfig converts the parsed request to a domain IssuanceConfig.
func (r *IssueRequest) ToConfig() models.IssuanceConfig {
	cfg := models.IssuanceConfig{
		Kind:          r.parsedKind,
		Name:          r.Name,
		Symbol:        r.Symbol,
		Decimals:      r.Decimals,
		Mintable:      r.Mintable,
		Burnable:      r.Burnable,
		Freezable:     r.Freezable,
		Admin:         r.parsedAdmin,
		InitialSupply: r.InitialSupply,
		InitialHolder: r.parsedHolder,
		BaseURI:       r.BaseURI,
	}
	if r.Royalty != nil {
		cfg.Royalty = &models.RoyaltyInfo{
			Receiver:    id.Address(r.Royalty.Receiver),
			BasisPoints: r.Royalty.BasisPoints,
		}
	}
	return cfg
}

// MintRequest covers POST /assets/{assetID}/mint for all three variants.
// Fungible mints use amount; unique mints ignore amount and may carry a uri;
// multi-balance mints require type_id.
type MintRequest struct {
	To     string  `json:"to"`
	Amount uint64  `json:"amount"`
	TypeID *uint64 `json:"type_id,omitempty"`
	URI    string  `json:"uri,omitempty"`
	Data   []byte  `json:"data,omitempty"`

	parsedTo id.Address
}

func (r *MintRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	to, err := id.ParseAddress(r.To)
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "to must be a valid holder address")
	}
	r.parsedTo = to
	return nil
}

// TransferRequest covers POST /assets/{assetID}/transfer. A non-empty from
// makes the transfer delegated (allowance or operator approval applies).
type TransferRequest struct {
	From    string  `json:"from,omitempty"`
	To      string  `json:"to"`
	Amount  uint64  `json:"amount"`
	TokenID *uint64 `json:"token_id,omitempty"`
	TypeID  *uint64 `json:"type_id,omitempty"`
	Data    []byte  `json:"data,omitempty"`

	parsedFrom id.Address
	parsedTo   id.Address
}

func (r *TransferRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	to, err := id.ParseAddress(r.To)
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "to must be a valid holder address")
	}
	r.parsedTo = to
	if r.From != "" {
		r.parsedFrom, err = id.ParseAddress(r.From)
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "from must be a valid holder address")
		}
	}
	return nil
}

// BurnRequest covers POST /assets/{assetID}/burn. A non-empty holder burns
// from another holder's balance via allowance or operator approval.
type BurnRequest struct {
	Holder  string  `json:"holder,omitempty"`
	Amount  uint64  `json:"amount"`
	TokenID *uint64 `json:"token_id,omitempty"`
	TypeID  *uint64 `json:"type_id,omitempty"`
	Data    []byte  `json:"data,omitempty"`

	parsedHolder id.Address
}

func (r *BurnRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Holder != "" {
		holder, err := id.ParseAddress(r.Holder)
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "holder must be a valid holder address")
		}
		r.parsedHolder = holder
	}
	return nil
}

// ApproveRequest covers POST /assets/{assetID}/approve. An empty spender
// revokes a unique-asset token approval.
type ApproveRequest struct {
	Spender string  `json:"spender"`
	Amount  uint64  `json:"amount"`
	TokenID *uint64 `json:"token_id,omitempty"`

	parsedSpender id.Address
}

func (r *ApproveRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Spender != "" {
		spender, err := id.ParseAddress(r.Spender)
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "spender must be a valid holder address")
		}
		r.parsedSpender = spender
	}
	return nil
}

// ApproveAllRequest covers POST /assets/{assetID}/approve-all.
type ApproveAllRequest struct {
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`

	parsedOperator id.Address
}

func (r *ApproveAllRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	operator, err := id.ParseAddress(r.Operator)
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "operator must be a valid holder address")
	}
	r.parsedOperator = operator
	return nil
}

// CreateTypeRequest covers POST /assets/{assetID}/types (multi-balance only).
type CreateTypeRequest struct {
	To            string `json:"to,omitempty"`
	InitialAmount uint64 `json:"initial_amount"`
	Data          []byte `json:"data,omitempty"`

	parsedTo id.Address
}

func (r *CreateTypeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.InitialAmount > 0 {
		to, err := id.ParseAddress(r.To)
		if err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "to must be a valid holder address")
		}
		r.parsedTo = to
	}
	return nil
}

// BatchRequest covers the multi-balance batch endpoints. The counterparty
// field depends on the operation: to for mint, from+to for transfer, holder
// for burn.
type BatchRequest struct {
	From    string   `json:"from,omitempty"`
	To      string   `json:"to,omitempty"`
	Holder  string   `json:"holder,omitempty"`
	TypeIDs []uint64 `json:"type_ids"`
	Amounts []uint64 `json:"amounts"`
	Data    []byte   `json:"data,omitempty"`

	parsedFrom   id.Address
	parsedTo     id.Address
	parsedHolder id.Address
}

func (r *BatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	var err error
	if r.From != "" {
		if r.parsedFrom, err = id.ParseAddress(r.From); err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "from must be a valid holder address")
		}
	}
	if r.To != "" {
		if r.parsedTo, err = id.ParseAddress(r.To); err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "to must be a valid holder address")
		}
	}
	if r.Holder != "" {
		if r.parsedHolder, err = id.ParseAddress(r.Holder); err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "holder must be a valid holder address")
		}
	}
	return nil
}

// CapabilityRequest covers capability grant and revoke.
type CapabilityRequest struct {
	Capability string `json:"capability"`
	Holder     string `json:"holder"`

	parsedCapability id.Capability
	parsedHolder     id.Address
}

func (r *CapabilityRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	capability, err := id.ParseCapability(r.Capability)
	if err != nil {
		return err
	}
	r.parsedCapability = capability
	r.parsedHolder, err = id.ParseAddress(r.Holder)
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "holder must be a valid holder address")
	}
	return nil
}

// ReplaceValidatorRequest covers PUT /assets/{assetID}/validator.
type ReplaceValidatorRequest struct {
	Validator string `json:"validator"`
}

func (r *ReplaceValidatorRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	switch strings.TrimSpace(r.Validator) {
	case ValidatorNone, ValidatorDenylist:
		return nil
	default:
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown validator %q", r.Validator)
	}
}

// SetURIRequest covers the base and per-item URI endpoints.
type SetURIRequest struct {
	URI string `json:"uri"`
}

func (r *SetURIRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return nil
}
