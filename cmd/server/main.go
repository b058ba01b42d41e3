// Command server runs the asset gateway: issuance API, per-asset operation
// API, and the compliance-gated ledger core behind them. main only wires
// dependencies; business logic lives in the internal packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	assetmetrics "assetgate/internal/asset/metrics"
	"assetgate/internal/asset/validator/denylist"
	"assetgate/internal/events"
	"assetgate/internal/issuance/handler"
	"assetgate/internal/issuance/service"
	"assetgate/internal/issuance/store"
	"assetgate/internal/platform/config"
	"assetgate/internal/platform/httpserver"
	"assetgate/internal/platform/logger"
	"assetgate/internal/platform/metrics"
	platformredis "assetgate/internal/platform/redis"
	"assetgate/internal/platform/token"
	httptransport "assetgate/internal/transport/http"
	"assetgate/pkg/platform/circuit"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Registry: Postgres when configured, otherwise in memory.
	var registry service.RegistryStore = store.NewMemory()
	if cfg.Postgres.DSN != "" {
		db, err := sql.Open("postgres", cfg.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
		registry = store.NewPostgres(db)
		log.Info("asset registry backed by postgres")
	}

	// Denylist: Redis when configured, otherwise in memory.
	var restricted denylist.RestrictedStore = denylist.NewInMemoryStore()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		breaker := circuit.New("denylist-redis",
			circuit.WithFailureThreshold(5),
			circuit.WithSuccessThreshold(2),
		)
		restricted = denylist.NewBreakerStore(denylist.NewRedisStore(redisClient.Client), breaker, log)
		log.Info("denylist backed by redis")
	}

	// Events: Kafka when configured, otherwise dropped.
	var publisher events.Publisher = events.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := events.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		defer kafka.Close()
		publisher = kafka
		log.Info("events published to kafka", "topic", cfg.Kafka.Topic)
	}

	engine := service.NewEngine(cfg.IssuerOrigin, registry,
		service.WithPublisher(publisher),
		service.WithLogger(log),
		service.WithMetrics(assetmetrics.New()),
		service.WithValidationBudget(cfg.ValidationBudget),
	)

	tokens := token.NewService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience)
	router := httptransport.NewRouter(httptransport.RouterConfig{
		Assets:         handler.New(engine, restricted, log),
		TokenValidator: tokens,
		AdminTokenHash: cfg.AdminTokenHash,
		HTTPMetrics:    metrics.New(),
		Logger:         log,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting assetgate", "addr", cfg.Addr, "origin", cfg.IssuerOrigin)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
