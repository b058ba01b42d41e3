package denylist

import (
	"context"
	"log/slog"
	"sync"
	"time"

	id "assetgate/pkg/domain"
	dErrors "assetgate/pkg/domain-errors"
	"assetgate/pkg/platform/circuit"
)

// probeInterval is how often an open breaker lets one lookup through to test
// whether the backend recovered.
const probeInterval = 10 * time.Second

// BreakerStore wraps a RestrictedStore with a circuit breaker on lookups.
// When the backing store keeps failing, lookups fail fast instead of waiting
// on a dead backend. The denylist validator is fail-closed either way, so an
// open breaker rejects operations rather than allowing them unchecked.
type BreakerStore struct {
	inner   RestrictedStore
	breaker *circuit.Breaker
	logger  *slog.Logger

	mu        sync.Mutex
	lastProbe time.Time
}

func NewBreakerStore(inner RestrictedStore, breaker *circuit.Breaker, logger *slog.Logger) *BreakerStore {
	return &BreakerStore{
		inner:   inner,
		breaker: breaker,
		logger:  logger,
	}
}

func (s *BreakerStore) IsRestricted(ctx context.Context, holder id.Address) (bool, error) {
	if s.breaker.IsOpen() && !s.shouldProbe() {
		return false, dErrors.Newf(dErrors.CodeInternal, "denylist backend unavailable (breaker %s open)", s.breaker.Name())
	}

	restricted, err := s.inner.IsRestricted(ctx, holder)
	if err != nil {
		if _, change := s.breaker.RecordFailure(); change.Opened {
			s.logger.ErrorContext(ctx, "denylist breaker opened",
				"breaker", s.breaker.Name(),
				"error", err,
			)
		}
		return false, err
	}
	if _, change := s.breaker.RecordSuccess(); change.Closed {
		s.logger.InfoContext(ctx, "denylist breaker closed", "breaker", s.breaker.Name())
	}
	return restricted, nil
}

// shouldProbe lets one lookup per probeInterval reach the backend while the
// breaker is open, so sustained traffic can close it again after recovery.
func (s *BreakerStore) shouldProbe() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if time.Since(s.lastProbe) < probeInterval {
		return false
	}
	s.lastProbe = time.Now()
	return true
}

// Restrict and Clear pass through: admin writes should surface backend errors
// directly.
func (s *BreakerStore) Restrict(ctx context.Context, holder id.Address) error {
	return s.inner.Restrict(ctx, holder)
}

func (s *BreakerStore) Clear(ctx context.Context, holder id.Address) error {
	return s.inner.Clear(ctx, holder)
}
