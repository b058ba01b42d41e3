// Package core bundles the components every ledger variant composes: the
// immutable configuration, the capability table, the validator gateway, the
// freeze flag, the reentrancy guard, and the event emitter. Nothing is
// inherited; ledgers delegate to these parts explicitly.
package core

import (
	"context"
	"log/slog"
	"time"

	"assetgate/internal/asset/capability"
	"assetgate/internal/asset/freeze"
	"assetgate/internal/asset/guard"
	"assetgate/internal/asset/metrics"
	"assetgate/internal/asset/models"
	"assetgate/internal/asset/validator"
	"assetgate/internal/events"
	id "assetgate/pkg/domain"
	dErrors "assetgate/pkg/domain-errors"
)

// Core is the per-asset component set shared by all three ledger variants.
type Core struct {
	AssetID id.AssetID
	Config  models.Config
	Guard   *guard.Guard
	Table   *capability.Table
	Gateway *validator.Gateway
	Freeze  *freeze.Flag
	Emitter *events.Emitter
	Metrics *metrics.Metrics
}

// Option configures a Core.
type Option func(*options)

type options struct {
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	budget    time.Duration
}

func WithPublisher(p events.Publisher) Option {
	return func(o *options) { o.publisher = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithValidationBudget bounds each external validator call.
func WithValidationBudget(d time.Duration) Option {
	return func(o *options) { o.budget = d }
}

// New wires a fresh component set for one asset. The capability table is
// empty and the validator slot unset; the issuance engine seeds both before
// the asset becomes reachable.
func New(assetID id.AssetID, cfg models.Config, opts ...Option) *Core {
	o := &options{budget: validator.DefaultBudget}
	for _, opt := range opts {
		opt(o)
	}

	g := guard.New()
	emitter := events.NewEmitter(o.publisher, o.logger)
	table := capability.NewTable(assetID, g, emitter)
	gw := validator.NewGateway(assetID, g, table, emitter,
		validator.WithBudget(o.budget),
		validator.WithMetrics(o.metrics),
	)
	return &Core{
		AssetID: assetID,
		Config:  cfg,
		Guard:   g,
		Table:   table,
		Gateway: gw,
		Freeze:  freeze.NewFlag(assetID, cfg.Freezable, g, table, emitter),
		Emitter: emitter,
		Metrics: o.metrics,
	}
}

// Enter acquires the asset guard, counting reentrant aborts.
func (c *Core) Enter() error {
	if err := c.Guard.Enter(); err != nil {
		c.Metrics.IncrementReentrantAborts()
		return err
	}
	return nil
}

// RequireIssuer checks the Issuer capability.
func (c *Core) RequireIssuer(caller id.Address) error {
	if !c.Table.Has(id.CapabilityIssuer, caller) {
		return dErrors.New(dErrors.CodeUnauthorized, "caller does not hold issuer")
	}
	return nil
}

// RequireMetadataController checks the MetadataController capability.
func (c *Core) RequireMetadataController(caller id.Address) error {
	if !c.Table.Has(id.CapabilityMetadataController, caller) {
		return dErrors.New(dErrors.CodeUnauthorized, "caller does not hold metadata_controller")
	}
	return nil
}

// RequireMintable checks the immutable mintable flag.
func (c *Core) RequireMintable() error {
	if !c.Config.Mintable {
		return dErrors.New(dErrors.CodeFeatureDisabled, "asset is not mintable")
	}
	return nil
}

// RequireBurnable checks the immutable burnable flag.
func (c *Core) RequireBurnable() error {
	if !c.Config.Burnable {
		return dErrors.New(dErrors.CodeFeatureDisabled, "asset is not burnable")
	}
	return nil
}

// EmitTransferred publishes the per-mutation event.
func (c *Core) EmitTransferred(ctx context.Context, classification id.Classification, operator, from, to id.Address, itemID, amount uint64) {
	c.Emitter.Emit(ctx, events.Event{
		AssetID:        c.AssetID,
		Action:         events.ActionTransferred,
		Actor:          operator,
		Classification: classification,
		From:           from,
		To:             to,
		ItemID:         itemID,
		Amount:         amount,
	})
}

// ObserveOutcome records the operation metric for a finished operation.
func (c *Core) ObserveOutcome(kind id.AssetKind, classification id.Classification, err error) {
	outcome := metrics.OutcomeApplied
	switch {
	case err == nil:
	case dErrors.HasCode(err, dErrors.CodeValidationAborted):
		outcome = metrics.OutcomeAborted
	case dErrors.HasCode(err, dErrors.CodeValidationRejected):
		outcome = metrics.OutcomeRejected
	default:
		outcome = metrics.OutcomeError
	}
	c.Metrics.IncrementOperation(kind.String(), classification.String(), outcome)
}
