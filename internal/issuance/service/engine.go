// Package service implements the issuance engine: it constructs ledger
// instances from an IssuanceConfig, seeds their capability tables, installs
// the optional validator, performs the genesis mint through the classified
// gateway path, and catalogs the result in the registry.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"assetgate/internal/asset/core"
	"assetgate/internal/asset/fungible"
	assetmetrics "assetgate/internal/asset/metrics"
	assetmodels "assetgate/internal/asset/models"
	"assetgate/internal/asset/multibalance"
	"assetgate/internal/asset/unique"
	"assetgate/internal/asset/validator"
	"assetgate/internal/events"
	"assetgate/internal/issuance/models"
	id "assetgate/pkg/domain"
	dErrors "assetgate/pkg/domain-errors"
	"assetgate/pkg/platform/sentinel"
	"assetgate/pkg/requestcontext"
)

// RegistryStore is the append-only asset catalog.
type RegistryStore interface {
	Create(ctx context.Context, record models.AssetRecord) error
	FindByID(ctx context.Context, assetID id.AssetID) (models.AssetRecord, error)
	List(ctx context.Context) ([]models.AssetRecord, error)
}

// Asset is one live issued asset: its catalog record plus exactly one ledger
// variant.
type Asset struct {
	Record   models.AssetRecord
	Fungible *fungible.Ledger
	Unique   *unique.Ledger
	Multi    *multibalance.Ledger
}

// Core returns the asset's shared component set regardless of variant.
func (a *Asset) Core() *core.Core {
	switch {
	case a.Fungible != nil:
		return a.Fungible.Core()
	case a.Unique != nil:
		return a.Unique.Core()
	default:
		return a.Multi.Core()
	}
}

// Engine issues assets and keeps the live ledger instances. Issuance is
// permissionless: any caller may issue; privileges over the issued asset
// belong to its admin, not to the engine.
type Engine struct {
	origin   string
	registry RegistryStore

	publisher events.Publisher
	logger    *slog.Logger
	metrics   *assetmetrics.Metrics
	budget    time.Duration

	mu   sync.RWMutex
	live map[id.AssetID]*Asset
}

// Option configures an Engine.
type Option func(*Engine)

func WithPublisher(p events.Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithMetrics(m *assetmetrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithValidationBudget bounds each external validator call on issued assets.
func WithValidationBudget(d time.Duration) Option {
	return func(e *Engine) { e.budget = d }
}

// NewEngine builds an engine. origin is recorded as IssuerOrigin on every
// asset it issues.
func NewEngine(origin string, registry RegistryStore, opts ...Option) *Engine {
	e := &Engine{
		origin:   origin,
		registry: registry,
		logger:   slog.Default(),
		budget:   validator.DefaultBudget,
		live:     make(map[id.AssetID]*Asset),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Issue constructs one asset. The optional validator v (with a descriptive
// name) is installed before the genesis mint, and every capability grant is
// finalized before that mint's gateway dispatch: a hostile validator consulted
// for the genesis mint observes a fully formed capability table.
func (e *Engine) Issue(ctx context.Context, cfg models.IssuanceConfig, v validator.Validator, validatorName string) (*Asset, error) {
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.Symbol = strings.TrimSpace(cfg.Symbol)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	assetID := id.NewAssetID()
	assetCfg := assetmodels.Config{
		Name:         cfg.Name,
		Symbol:       cfg.Symbol,
		Decimals:     cfg.Decimals,
		Mintable:     cfg.Mintable,
		Burnable:     cfg.Burnable,
		Freezable:    cfg.Freezable,
		IssuerOrigin: e.origin,
		BaseURI:      cfg.BaseURI,
	}
	if err := assetCfg.Validate(); err != nil {
		return nil, err
	}

	c := core.New(assetID, assetCfg,
		core.WithPublisher(e.publisher),
		core.WithLogger(e.logger),
		core.WithMetrics(e.metrics),
		core.WithValidationBudget(e.budget),
	)

	// Capability grants are sealed before anything can run through the
	// gateway.
	c.Table.Seed(id.CapabilityOwner, cfg.Admin)
	if cfg.Mintable {
		c.Table.Seed(id.CapabilityIssuer, cfg.Admin)
	}
	if cfg.Freezable {
		c.Table.Seed(id.CapabilityFreezeController, cfg.Admin)
	}
	if cfg.Kind != id.AssetKindFungible {
		c.Table.Seed(id.CapabilityMetadataController, cfg.Admin)
	}
	if v != nil {
		c.Gateway.Install(v, validatorName)
	}

	asset := &Asset{}
	switch cfg.Kind {
	case id.AssetKindFungible:
		asset.Fungible = fungible.New(c)
	case id.AssetKindUnique:
		asset.Unique = unique.New(c)
	case id.AssetKindMultiBalance:
		asset.Multi = multibalance.New(c)
	}

	if err := e.genesisMint(ctx, asset, cfg); err != nil {
		return nil, err
	}

	record := models.AssetRecord{
		ID:           assetID,
		Kind:         cfg.Kind,
		Name:         cfg.Name,
		Symbol:       cfg.Symbol,
		Decimals:     cfg.Decimals,
		Mintable:     cfg.Mintable,
		Burnable:     cfg.Burnable,
		Freezable:    cfg.Freezable,
		IssuerOrigin: e.origin,
		Admin:        cfg.Admin,
		Royalty:      cfg.Royalty,
		CreatedAt:    requestcontext.Now(ctx),
	}
	asset.Record = record

	if err := e.registry.Create(ctx, record); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "asset id already cataloged")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to catalog asset")
	}

	e.mu.Lock()
	e.live[assetID] = asset
	e.mu.Unlock()

	c.Emitter.Emit(ctx, events.Event{
		AssetID: assetID,
		Action:  events.ActionAssetIssued,
		Actor:   cfg.Admin,
	})
	return asset, nil
}

// genesisMint seeds the initial balance through the same gateway path as a
// runtime mint. A validator rejection fails the whole issuance.
func (e *Engine) genesisMint(ctx context.Context, asset *Asset, cfg models.IssuanceConfig) error {
	if cfg.InitialSupply == 0 || cfg.InitialHolder.IsNull() {
		return nil
	}
	switch {
	case asset.Fungible != nil:
		return asset.Fungible.GenesisMint(ctx, cfg.Admin, cfg.InitialHolder, cfg.InitialSupply)
	case asset.Unique != nil:
		return asset.Unique.GenesisMint(ctx, cfg.Admin, cfg.InitialHolder, cfg.InitialSupply)
	default:
		_, err := asset.Multi.GenesisType(ctx, cfg.Admin, cfg.InitialHolder, cfg.InitialSupply)
		return err
	}
}

// Get returns a live asset by ID.
func (e *Engine) Get(assetID id.AssetID) (*Asset, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	asset, ok := e.live[assetID]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "asset not found")
	}
	return asset, nil
}

// Describe returns the catalog record for an asset, live or not.
func (e *Engine) Describe(ctx context.Context, assetID id.AssetID) (models.AssetRecord, error) {
	record, err := e.registry.FindByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.AssetRecord{}, dErrors.New(dErrors.CodeNotFound, "asset not found")
		}
		return models.AssetRecord{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load asset record")
	}
	return record, nil
}

// List returns all cataloged assets in issuance order.
func (e *Engine) List(ctx context.Context) ([]models.AssetRecord, error) {
	records, err := e.registry.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list assets")
	}
	return records, nil
}
