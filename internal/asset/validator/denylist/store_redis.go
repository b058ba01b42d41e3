package denylist

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	id "assetgate/pkg/domain"
)

var isRestrictedDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "assetgate_restricted_lookup_duration_ms",
	Help:    "Latency of restricted-holder lookups in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

// Redis key prefix for restricted holders.
const restrictedKeyPrefix = "denylist:holder:"

// RedisStore is a Redis-backed RestrictedStore. This is the recommended
// implementation for distributed deployments where multiple instances need to
// share the restricted set.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) IsRestricted(ctx context.Context, holder id.Address) (bool, error) {
	start := time.Now()
	defer func() {
		isRestrictedDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	err := s.client.Get(ctx, restrictedKeyPrefix+holder.String()).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Restrict adds a holder to the restricted set. No TTL: restrictions are
// cleared explicitly, never by expiry.
func (s *RedisStore) Restrict(ctx context.Context, holder id.Address) error {
	return s.client.Set(ctx, restrictedKeyPrefix+holder.String(), "1", 0).Err()
}

func (s *RedisStore) Clear(ctx context.Context, holder id.Address) error {
	return s.client.Del(ctx, restrictedKeyPrefix+holder.String()).Err()
}
