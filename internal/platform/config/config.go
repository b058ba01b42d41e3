// Package config builds service configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "assetgate/pkg/platform/strings"
)

// Config is the full service configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// IssuerOrigin names this deployment; recorded on every issued asset.
	IssuerOrigin string
	// AdminTokenHash is the bcrypt hash of the admin API token. Empty
	// disables the admin surface.
	AdminTokenHash string
	// ValidationBudget bounds a single external validator call.
	ValidationBudget time.Duration

	JWT      JWTConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
}

// JWTConfig configures operator bearer-token validation.
type JWTConfig struct {
	SigningKey string
	Issuer     string
	Audience   string
}

// RedisConfig configures the optional Redis-backed denylist store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the optional persistent asset registry.
type PostgresConfig struct {
	DSN string
}

// KafkaConfig configures the optional event publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Config from environment variables. Every backend is
// optional: with no Redis, Postgres, or Kafka configured the service runs
// fully in memory.
func FromEnv() Config {
	cfg := Config{
		Addr:             envOr("ASSETGATE_ADDR", ":8080"),
		LogLevel:         envOr("ASSETGATE_LOG_LEVEL", "info"),
		IssuerOrigin:     envOr("ASSETGATE_ORIGIN", "assetgate-dev"),
		AdminTokenHash:   os.Getenv("ASSETGATE_ADMIN_TOKEN_HASH"),
		ValidationBudget: envDuration("ASSETGATE_VALIDATION_BUDGET", 2*time.Second),
		JWT: JWTConfig{
			SigningKey: envOr("ASSETGATE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:     envOr("ASSETGATE_JWT_ISSUER", "assetgate"),
			Audience:   envOr("ASSETGATE_JWT_AUDIENCE", "assetgate-operators"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("ASSETGATE_REDIS_URL"),
			PoolSize:     envInt("ASSETGATE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("ASSETGATE_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("ASSETGATE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("ASSETGATE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("ASSETGATE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("ASSETGATE_POSTGRES_DSN"),
		},
		Kafka: KafkaConfig{
			Topic: envOr("ASSETGATE_KAFKA_TOPIC", "assetgate.events"),
		},
	}
	if brokers := os.Getenv("ASSETGATE_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = platformstrings.DedupeAndTrim(strings.Split(brokers, ","))
	}
	return cfg
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
