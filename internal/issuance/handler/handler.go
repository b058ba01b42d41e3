// Package handler wires the issuance and asset-operation endpoints to the
// issuance engine. Admin endpoints (issue, catalog reads, denylist
// management) are mounted separately from operator endpoints so the router
// can apply different authentication middleware to each group.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"assetgate/internal/asset/validator"
	"assetgate/internal/asset/validator/denylist"
	"assetgate/internal/issuance/service"
	id "assetgate/pkg/domain"
	dErrors "assetgate/pkg/domain-errors"
	"assetgate/pkg/platform/httputil"
	"assetgate/pkg/requestcontext"
)

// Handler wires asset endpoints to the issuance engine.
type Handler struct {
	engine     *service.Engine
	restricted denylist.RestrictedStore
	logger     *slog.Logger
}

// New constructs a handler with its dependencies. restricted backs the
// denylist validator selectable at issuance and replacement time.
func New(engine *service.Engine, restricted denylist.RestrictedStore, logger *slog.Logger) *Handler {
	return &Handler{
		engine:     engine,
		restricted: restricted,
		logger:     logger,
	}
}

// RegisterAdmin mounts the issuance and denylist endpoints.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/assets", h.HandleIssue)
	r.Get("/admin/assets", h.HandleList)
	r.Get("/admin/assets/{assetID}", h.HandleDescribe)
	r.Put("/admin/denylist/{holder}", h.HandleRestrict)
	r.Delete("/admin/denylist/{holder}", h.HandleClearRestriction)
}

// RegisterOperations mounts the per-asset operation endpoints.
func (h *Handler) RegisterOperations(r chi.Router) {
	r.Route("/assets/{assetID}", func(r chi.Router) {
		r.Get("/", h.HandleGetAsset)
		r.Post("/mint", h.HandleMint)
		r.Post("/mint-batch", h.HandleMintBatch)
		r.Post("/transfer", h.HandleTransfer)
		r.Post("/transfer-batch", h.HandleTransferBatch)
		r.Post("/burn", h.HandleBurn)
		r.Post("/burn-batch", h.HandleBurnBatch)
		r.Post("/approve", h.HandleApprove)
		r.Post("/approve-all", h.HandleApproveAll)
		r.Post("/types", h.HandleCreateType)
		r.Post("/freeze", h.HandleFreeze)
		r.Post("/unfreeze", h.HandleUnfreeze)
		r.Post("/capabilities/grant", h.HandleGrant)
		r.Post("/capabilities/revoke", h.HandleRevoke)
		r.Put("/validator", h.HandleReplaceValidator)
		r.Put("/base-uri", h.HandleSetBaseURI)
		r.Put("/tokens/{tokenID}/uri", h.HandleSetTokenURI)
		r.Put("/types/{typeID}/uri", h.HandleSetTypeURI)
		r.Get("/balances/{holder}", h.HandleBalance)
		r.Get("/allowance", h.HandleAllowance)
		r.Get("/tokens/{tokenID}", h.HandleGetToken)
		r.Get("/types/{typeID}", h.HandleGetType)
	})
}

// HandleIssue handles POST /admin/assets.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[IssueRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	v, name := h.buildValidator(req.Validator)
	asset, err := h.engine.Issue(ctx, req.ToConfig(), v, name)
	if err != nil {
		h.logger.ErrorContext(ctx, "issuance failed",
			"request_id", requestID,
			"kind", req.Kind,
			"symbol", req.Symbol,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "asset issued",
		"request_id", requestID,
		"asset_id", asset.Record.ID,
		"kind", req.Kind,
		"symbol", req.Symbol,
		"validator", name,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromAsset(asset, name))
}

// HandleList handles GET /admin/assets.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.engine.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := make([]AssetResponse, 0, len(records))
	for _, record := range records {
		resp = append(resp, FromRecord(record))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleDescribe handles GET /admin/assets/{assetID}. It reads the catalog,
// not the live keeper, so records survive process restarts with a persistent
// registry store.
func (h *Handler) HandleDescribe(w http.ResponseWriter, r *http.Request) {
	assetID, err := id.ParseAssetID(chi.URLParam(r, "assetID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	record, err := h.engine.Describe(r.Context(), assetID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecord(record))
}

// HandleRestrict handles PUT /admin/denylist/{holder}.
func (h *Handler) HandleRestrict(w http.ResponseWriter, r *http.Request) {
	holder, err := id.ParseAddress(chi.URLParam(r, "holder"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.restricted.Restrict(r.Context(), holder); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to restrict holder"))
		return
	}
	h.logger.InfoContext(r.Context(), "holder restricted", "holder", holder)
	w.WriteHeader(http.StatusNoContent)
}

// HandleClearRestriction handles DELETE /admin/denylist/{holder}.
func (h *Handler) HandleClearRestriction(w http.ResponseWriter, r *http.Request) {
	holder, err := id.ParseAddress(chi.URLParam(r, "holder"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.restricted.Clear(r.Context(), holder); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear restriction"))
		return
	}
	h.logger.InfoContext(r.Context(), "holder restriction cleared", "holder", holder)
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetAsset handles GET /assets/{assetID}.
func (h *Handler) HandleGetAsset(w http.ResponseWriter, r *http.Request) {
	asset, ok := h.asset(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromAsset(asset, asset.Core().Gateway.CurrentName()))
}

// HandleMint handles POST /assets/{assetID}/mint.
func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, asset, req, ok := prepare[MintRequest](h, w, r)
	if !ok {
		return
	}

	var resp MintResponse
	var err error
	switch {
	case asset.Fungible != nil:
		err = asset.Fungible.Mint(ctx, caller, req.parsedTo, req.Amount)
	case asset.Unique != nil:
		var tokenID uint64
		if req.URI != "" {
			tokenID, err = asset.Unique.MintWithMetadata(ctx, caller, req.parsedTo, req.URI)
		} else {
			tokenID, err = asset.Unique.Mint(ctx, caller, req.parsedTo)
		}
		resp.TokenID = &tokenID
	default:
		if req.TypeID == nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "type_id is required"))
			return
		}
		err = asset.Multi.Mint(ctx, caller, req.parsedTo, *req.TypeID, req.Amount, req.Data)
		resp.TypeID = req.TypeID
	}
	if err != nil {
		h.logOperationFailure(r, asset, "mint", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleMintBatch handles POST /assets/{assetID}/mint-batch (multi-balance).
func (h *Handler) HandleMintBatch(w http.ResponseWriter, r *http.Request) {
	caller, asset, req, ok := prepare[BatchRequest](h, w, r)
	if !ok {
		return
	}
	if asset.Multi == nil {
		httputil.WriteError(w, errWrongKind)
		return
	}
	if err := asset.Multi.MintBatch(r.Context(), caller, req.parsedTo, req.TypeIDs, req.Amounts, req.Data); err != nil {
		h.logOperationFailure(r, asset, "mint_batch", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTransfer handles POST /assets/{assetID}/transfer.
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, asset, req, ok := prepare[TransferRequest](h, w, r)
	if !ok {
		return
	}

	var err error
	switch {
	case asset.Fungible != nil:
		if req.parsedFrom.IsNull() {
			err = asset.Fungible.Transfer(ctx, caller, req.parsedTo, req.Amount)
		} else {
			err = asset.Fungible.TransferFrom(ctx, caller, req.parsedFrom, req.parsedTo, req.Amount)
		}
	case asset.Unique != nil:
		if req.TokenID == nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "token_id is required"))
			return
		}
		err = asset.Unique.Transfer(ctx, caller, req.parsedTo, *req.TokenID)
	default:
		if req.TypeID == nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "type_id is required"))
			return
		}
		from := req.parsedFrom
		if from.IsNull() {
			from = caller
		}
		err = asset.Multi.Transfer(ctx, caller, from, req.parsedTo, *req.TypeID, req.Amount, req.Data)
	}
	if err != nil {
		h.logOperationFailure(r, asset, "transfer", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTransferBatch handles POST /assets/{assetID}/transfer-batch.
func (h *Handler) HandleTransferBatch(w http.ResponseWriter, r *http.Request) {
	caller, asset, req, ok := prepare[BatchRequest](h, w, r)
	if !ok {
		return
	}
	if asset.Multi == nil {
		httputil.WriteError(w, errWrongKind)
		return
	}
	from := req.parsedFrom
	if from.IsNull() {
		from = caller
	}
	if err := asset.Multi.TransferBatch(r.Context(), caller, from, req.parsedTo, req.TypeIDs, req.Amounts, req.Data); err != nil {
		h.logOperationFailure(r, asset, "transfer_batch", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleBurn handles POST /assets/{assetID}/burn.
func (h *Handler) HandleBurn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, asset, req, ok := prepare[BurnRequest](h, w, r)
	if !ok {
		return
	}

	holder := req.parsedHolder
	if holder.IsNull() {
		holder = caller
	}

	var err error
	switch {
	case asset.Fungible != nil:
		err = asset.Fungible.Burn(ctx, caller, holder, req.Amount)
	case asset.Unique != nil:
		if req.TokenID == nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "token_id is required"))
			return
		}
		err = asset.Unique.Burn(ctx, caller, *req.TokenID)
	default:
		if req.TypeID == nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "type_id is required"))
			return
		}
		err = asset.Multi.Burn(ctx, caller, holder, *req.TypeID, req.Amount, req.Data)
	}
	if err != nil {
		h.logOperationFailure(r, asset, "burn", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleBurnBatch handles POST /assets/{assetID}/burn-batch.
func (h *Handler) HandleBurnBatch(w http.ResponseWriter, r *http.Request) {
	caller, asset, req, ok := prepare[BatchRequest](h, w, r)
	if !ok {
		return
	}
	if asset.Multi == nil {
		httputil.WriteError(w, errWrongKind)
		return
	}
	holder := req.parsedHolder
	if holder.IsNull() {
		holder = caller
	}
	if err := asset.Multi.BurnBatch(r.Context(), caller, holder, req.TypeIDs, req.Amounts, req.Data); err != nil {
		h.logOperationFailure(r, asset, "burn_batch", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleApprove handles POST /assets/{assetID}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, asset, req, ok := prepare[ApproveRequest](h, w, r)
	if !ok {
		return
	}

	var err error
	switch {
	case asset.Fungible != nil:
		if req.parsedSpender.IsNull() {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "spender must be a valid holder address"))
			return
		}
		err = asset.Fungible.Approve(ctx, caller, req.parsedSpender, req.Amount)
	case asset.Unique != nil:
		if req.TokenID == nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "token_id is required"))
			return
		}
		err = asset.Unique.Approve(ctx, caller, req.parsedSpender, *req.TokenID)
	default:
		httputil.WriteError(w, errWrongKind)
		return
	}
	if err != nil {
		h.logOperationFailure(r, asset, "approve", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleApproveAll handles POST /assets/{assetID}/approve-all.
func (h *Handler) HandleApproveAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, asset, req, ok := prepare[ApproveAllRequest](h, w, r)
	if !ok {
		return
	}

	var err error
	switch {
	case asset.Unique != nil:
		err = asset.Unique.SetApprovalForAll(ctx, caller, req.parsedOperator, req.Approved)
	case asset.Multi != nil:
		err = asset.Multi.SetApprovalForAll(ctx, caller, req.parsedOperator, req.Approved)
	default:
		httputil.WriteError(w, errWrongKind)
		return
	}
	if err != nil {
		h.logOperationFailure(r, asset, "approve_all", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateType handles POST /assets/{assetID}/types.
func (h *Handler) HandleCreateType(w http.ResponseWriter, r *http.Request) {
	caller, asset, req, ok := prepare[CreateTypeRequest](h, w, r)
	if !ok {
		return
	}
	if asset.Multi == nil {
		httputil.WriteError(w, errWrongKind)
		return
	}
	typeID, err := asset.Multi.CreateType(r.Context(), caller, req.parsedTo, req.InitialAmount, req.Data)
	if err != nil {
		h.logOperationFailure(r, asset, "create_type", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, MintResponse{TypeID: &typeID})
}

// HandleFreeze handles POST /assets/{assetID}/freeze.
func (h *Handler) HandleFreeze(w http.ResponseWriter, r *http.Request) {
	h.handleFreezeToggle(w, r, true)
}

// HandleUnfreeze handles POST /assets/{assetID}/unfreeze.
func (h *Handler) HandleUnfreeze(w http.ResponseWriter, r *http.Request) {
	h.handleFreezeToggle(w, r, false)
}

func (h *Handler) handleFreezeToggle(w http.ResponseWriter, r *http.Request, freeze bool) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	asset, ok := h.asset(w, r)
	if !ok {
		return
	}

	flag := asset.Core().Freeze
	var err error
	if freeze {
		err = flag.Freeze(ctx, caller)
	} else {
		err = flag.Unfreeze(ctx, caller)
	}
	if err != nil {
		h.logOperationFailure(r, asset, "freeze_toggle", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGrant handles POST /assets/{assetID}/capabilities/grant.
func (h *Handler) HandleGrant(w http.ResponseWriter, r *http.Request) {
	h.handleCapabilityChange(w, r, true)
}

// HandleRevoke handles POST /assets/{assetID}/capabilities/revoke.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	h.handleCapabilityChange(w, r, false)
}

func (h *Handler) handleCapabilityChange(w http.ResponseWriter, r *http.Request, grant bool) {
	ctx := r.Context()
	caller, asset, req, ok := prepare[CapabilityRequest](h, w, r)
	if !ok {
		return
	}

	table := asset.Core().Table
	var err error
	if grant {
		err = table.Grant(ctx, caller, req.parsedCapability, req.parsedHolder)
	} else {
		err = table.Revoke(ctx, caller, req.parsedCapability, req.parsedHolder)
	}
	if err != nil {
		h.logOperationFailure(r, asset, "capability_change", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleReplaceValidator handles PUT /assets/{assetID}/validator.
func (h *Handler) HandleReplaceValidator(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, asset, req, ok := prepare[ReplaceValidatorRequest](h, w, r)
	if !ok {
		return
	}

	v, name := h.buildValidator(req.Validator)
	if err := asset.Core().Gateway.Replace(ctx, caller, v, name); err != nil {
		h.logOperationFailure(r, asset, "validator_replace", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetBaseURI handles PUT /assets/{assetID}/base-uri.
func (h *Handler) HandleSetBaseURI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, asset, req, ok := prepare[SetURIRequest](h, w, r)
	if !ok {
		return
	}

	var err error
	switch {
	case asset.Unique != nil:
		err = asset.Unique.SetBaseURI(ctx, caller, req.URI)
	case asset.Multi != nil:
		err = asset.Multi.SetBaseURI(ctx, caller, req.URI)
	default:
		httputil.WriteError(w, errWrongKind)
		return
	}
	if err != nil {
		h.logOperationFailure(r, asset, "set_base_uri", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetTokenURI handles PUT /assets/{assetID}/tokens/{tokenID}/uri.
func (h *Handler) HandleSetTokenURI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, asset, req, ok := prepare[SetURIRequest](h, w, r)
	if !ok {
		return
	}
	if asset.Unique == nil {
		httputil.WriteError(w, errWrongKind)
		return
	}
	tokenID, ok := h.pathID(w, r, "tokenID")
	if !ok {
		return
	}
	if err := asset.Unique.SetTokenURI(ctx, caller, tokenID, req.URI); err != nil {
		h.logOperationFailure(r, asset, "set_token_uri", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetTypeURI handles PUT /assets/{assetID}/types/{typeID}/uri.
func (h *Handler) HandleSetTypeURI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, asset, req, ok := prepare[SetURIRequest](h, w, r)
	if !ok {
		return
	}
	if asset.Multi == nil {
		httputil.WriteError(w, errWrongKind)
		return
	}
	typeID, ok := h.pathID(w, r, "typeID")
	if !ok {
		return
	}
	if err := asset.Multi.SetTypeURI(ctx, caller, typeID, req.URI); err != nil {
		h.logOperationFailure(r, asset, "set_type_uri", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleBalance handles GET /assets/{assetID}/balances/{holder}. Multi-balance
// assets take the type identifier via the type query parameter.
func (h *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	asset, ok := h.asset(w, r)
	if !ok {
		return
	}
	holder, err := id.ParseAddress(chi.URLParam(r, "holder"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := BalanceResponse{Holder: holder.String()}
	switch {
	case asset.Fungible != nil:
		resp.Balance = asset.Fungible.BalanceOf(holder)
	case asset.Multi != nil:
		typeID, err := strconv.ParseUint(r.URL.Query().Get("type"), 10, 64)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "type query parameter is required"))
			return
		}
		resp.Balance = asset.Multi.BalanceOf(holder, typeID)
		resp.TypeID = &typeID
	default:
		httputil.WriteError(w, errWrongKind)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleAllowance handles GET /assets/{assetID}/allowance (fungible).
func (h *Handler) HandleAllowance(w http.ResponseWriter, r *http.Request) {
	asset, ok := h.asset(w, r)
	if !ok {
		return
	}
	if asset.Fungible == nil {
		httputil.WriteError(w, errWrongKind)
		return
	}
	holder, err := id.ParseAddress(r.URL.Query().Get("holder"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	spender, err := id.ParseAddress(r.URL.Query().Get("spender"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AllowanceResponse{
		Holder:    holder.String(),
		Spender:   spender.String(),
		Allowance: asset.Fungible.Allowance(holder, spender),
	})
}

// HandleGetToken handles GET /assets/{assetID}/tokens/{tokenID} (unique).
func (h *Handler) HandleGetToken(w http.ResponseWriter, r *http.Request) {
	asset, ok := h.asset(w, r)
	if !ok {
		return
	}
	if asset.Unique == nil {
		httputil.WriteError(w, errWrongKind)
		return
	}
	tokenID, ok := h.pathID(w, r, "tokenID")
	if !ok {
		return
	}

	resp := TokenResponse{
		TokenID:  tokenID,
		Owner:    asset.Unique.OwnerOf(tokenID).String(),
		Approved: asset.Unique.ApprovedFor(tokenID).String(),
	}
	if uri, err := asset.Unique.MetadataURI(tokenID); err == nil {
		resp.URI = uri
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleGetType handles GET /assets/{assetID}/types/{typeID} (multi-balance).
func (h *Handler) HandleGetType(w http.ResponseWriter, r *http.Request) {
	asset, ok := h.asset(w, r)
	if !ok {
		return
	}
	if asset.Multi == nil {
		httputil.WriteError(w, errWrongKind)
		return
	}
	typeID, ok := h.pathID(w, r, "typeID")
	if !ok {
		return
	}

	resp := TypeResponse{
		TypeID:      typeID,
		Exists:      asset.Multi.Exists(typeID),
		TotalSupply: asset.Multi.TotalSupply(typeID),
	}
	if uri, err := asset.Multi.URI(typeID); err == nil {
		resp.URI = uri
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

var errWrongKind = dErrors.New(dErrors.CodeInvalidInput, "operation not supported for this asset kind")

// prepare resolves the caller, the asset, and the decoded request body in the
// order every mutating handler needs them.
func prepare[T any, PT interface {
	*T
	httputil.Validatable
}](h *Handler, w http.ResponseWriter, r *http.Request) (id.Address, *service.Asset, PT, bool) {
	caller, ok := h.caller(w, r)
	if !ok {
		return id.NullHolder, nil, nil, false
	}
	asset, ok := h.asset(w, r)
	if !ok {
		return id.NullHolder, nil, nil, false
	}
	req, ok := httputil.DecodeAndPrepare[T, PT](w, r, h.logger, r.Context(), requestcontext.RequestID(r.Context()))
	if !ok {
		return id.NullHolder, nil, nil, false
	}
	return caller, asset, req, true
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (id.Address, bool) {
	caller := requestcontext.Caller(r.Context())
	if caller.IsNull() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.NullHolder, false
	}
	return caller, true
}

func (h *Handler) asset(w http.ResponseWriter, r *http.Request) (*service.Asset, bool) {
	assetID, err := id.ParseAssetID(chi.URLParam(r, "assetID"))
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	asset, err := h.engine.Get(assetID)
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	return asset, true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	value, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeInvalidInput, "%s must be a decimal identifier", name))
		return 0, false
	}
	return value, true
}

func (h *Handler) buildValidator(selector string) (validator.Validator, string) {
	if selector == ValidatorDenylist {
		return denylist.New(h.restricted), ValidatorDenylist
	}
	return nil, ValidatorNone
}

func (h *Handler) logOperationFailure(r *http.Request, asset *service.Asset, operation string, err error) {
	h.logger.WarnContext(r.Context(), "asset operation failed",
		"request_id", requestcontext.RequestID(r.Context()),
		"asset_id", asset.Record.ID,
		"operation", operation,
		"error", err,
	)
}
