// Package httptransport assembles the HTTP router. It is a thin layer:
// feature handlers register their own routes, this package only decides which
// middleware covers which route group.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"assetgate/internal/issuance/handler"
	"assetgate/internal/platform/metrics"
	"assetgate/internal/platform/middleware"
)

// RouterConfig carries the router's dependencies.
type RouterConfig struct {
	Assets         *handler.Handler
	TokenValidator middleware.TokenValidator
	AdminTokenHash string
	HTTPMetrics    *metrics.Metrics
	Logger         *slog.Logger
}

// NewRouter wires all endpoints. The admin surface (issuance, catalog,
// denylist) sits behind the admin token; asset operations sit behind operator
// bearer tokens; health and metrics are open.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(cfg.AdminTokenHash, cfg.Logger))
		cfg.Assets.RegisterAdmin(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireOperator(cfg.TokenValidator, cfg.Logger))
		cfg.Assets.RegisterOperations(r)
	})

	return r
}
