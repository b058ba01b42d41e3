package validator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"assetgate/internal/asset/capability"
	"assetgate/internal/asset/guard"
	"assetgate/internal/asset/metrics"
	"assetgate/internal/events"
	id "assetgate/pkg/domain"
	dErrors "assetgate/pkg/domain-errors"
)

// DefaultBudget bounds a single validator call. Exhaustion is a rejection
// (validation_aborted), never a retry.
const DefaultBudget = 2 * time.Second

// ref models the validator slot as an explicit none/some, not a nil-sentinel
// comparison scattered through call sites.
type ref struct {
	v    Validator
	name string
}

func (r ref) isNone() bool { return r.v == nil }

// Gateway wraps one asset's optional validator reference. All three ledger
// variants funnel every mutation through Validate before touching state.
// The reference is weak: the gateway never manages the validator's lifecycle.
type Gateway struct {
	assetID id.AssetID
	guard   *guard.Guard
	table   *capability.Table
	emitter *events.Emitter
	metrics *metrics.Metrics
	budget  time.Duration

	mu  sync.RWMutex
	ref ref
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithBudget overrides the per-call validator budget.
func WithBudget(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.budget = d
		}
	}
}

// WithMetrics attaches validation metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// NewGateway builds a gateway with no validator configured.
func NewGateway(assetID id.AssetID, gd *guard.Guard, table *capability.Table, emitter *events.Emitter, opts ...Option) *Gateway {
	g := &Gateway{
		assetID: assetID,
		guard:   gd,
		table:   table,
		emitter: emitter,
		budget:  DefaultBudget,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Install sets the validator without authorization checks or events. Only the
// issuance engine calls this, before the asset is reachable.
func (g *Gateway) Install(v Validator, name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ref = ref{v: v, name: name}
}

// Replace swaps the validator slot. Requires the caller to hold Owner and is
// covered by the asset guard, so a validator cannot swap itself out from
// inside its own invocation. A nil validator clears the slot (default-allow).
func (g *Gateway) Replace(ctx context.Context, caller id.Address, v Validator, name string) error {
	if err := g.guard.Enter(); err != nil {
		return err
	}
	defer g.guard.Exit()

	if !g.table.Has(id.CapabilityOwner, caller) {
		return dErrors.New(dErrors.CodeUnauthorized, "caller does not hold owner")
	}

	g.mu.Lock()
	old := g.ref
	g.ref = ref{v: v, name: name}
	g.mu.Unlock()

	g.emitter.Emit(ctx, events.Event{
		AssetID:      g.assetID,
		Action:       events.ActionValidatorReplaced,
		Actor:        caller,
		OldValidator: old.name,
		NewValidator: name,
	})
	return nil
}

// Current returns the configured validator, or nil and false when the slot is
// empty.
func (g *Gateway) Current() (Validator, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.ref.isNone() {
		return nil, false
	}
	return g.ref.v, true
}

// CurrentName returns the configured validator's name, or "none" when the
// slot is empty.
func (g *Gateway) CurrentName() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.ref.isNone() {
		return "none"
	}
	return g.ref.name
}

// Validate dispatches the call to the configured validator under the
// operation's classification. With no validator configured it allows
// immediately with zero external-call overhead.
//
// The caller (a ledger) holds the asset guard across this call and its apply
// step; Validate itself never touches the guard. The validator therefore runs
// while the guard is held, and any callback into a mutating entry point fails
// with a reentrant error.
//
// Errors: validation_rejected with the validator's reason; validation_aborted
// when the call exceeds its budget or panics.
func (g *Gateway) Validate(ctx context.Context, classification id.Classification, call Call) error {
	g.mu.RLock()
	current := g.ref
	g.mu.RUnlock()

	if current.isNone() {
		return nil
	}

	start := time.Now()
	err := g.dispatch(ctx, current.v, classification, call)
	g.metrics.ObserveValidationDuration(time.Since(start).Seconds())

	switch {
	case err == nil:
		g.metrics.IncrementValidation(classification.String(), metrics.OutcomeAllowed)
		return nil
	case dErrors.HasCode(err, dErrors.CodeValidationAborted):
		g.metrics.IncrementValidation(classification.String(), metrics.OutcomeAborted)
		return err
	default:
		g.metrics.IncrementValidation(classification.String(), metrics.OutcomeRejected)
		return dErrors.Wrap(err, dErrors.CodeValidationRejected, "validator rejected "+classification.String())
	}
}

// dispatch runs the classified validator entry point under the budget,
// converting panics and budget exhaustion into validation_aborted.
func (g *Gateway) dispatch(ctx context.Context, v Validator, classification id.Classification, call Call) error {
	ctx, cancel := context.WithTimeout(ctx, g.budget)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- dErrors.Newf(dErrors.CodeValidationAborted, "validator panicked: %v", r)
			}
		}()
		switch classification {
		case id.ClassificationMint:
			done <- v.OnMint(ctx, call)
		case id.ClassificationTransfer:
			done <- v.OnTransfer(ctx, call)
		case id.ClassificationBurn:
			done <- v.OnBurn(ctx, call)
		case id.ClassificationApproval:
			done <- v.OnApproval(ctx, call)
		default:
			done <- fmt.Errorf("unknown classification %q", classification)
		}
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// The goroutine is abandoned here: it runs the validator to
		// completion and its late result lands in the buffered channel.
		// The validator sees the canceled ctx and is expected to bail out.
		return dErrors.Wrap(ctx.Err(), dErrors.CodeValidationAborted, "validator budget exhausted")
	}
}
