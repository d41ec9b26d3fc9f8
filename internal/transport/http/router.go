package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"soulmint/internal/platform/metrics"
	"soulmint/internal/platform/middleware"
	dErrors "soulmint/pkg/domain-errors"
	"soulmint/pkg/platform/httputil"
	"soulmint/pkg/platform/middleware/requesttime"
)

const readinessTimeout = 2 * time.Second

// Registrar mounts a module's routes.
type Registrar interface {
	Register(r chi.Router)
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// RouterConfig carries the process-wide pieces every route shares.
type RouterConfig struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Checks   map[string]ReadinessCheck
	// Tracing wraps the router in otelhttp so request spans parent the issuance spans.
	Tracing bool
}

// NewRouter wires global middleware, health endpoints, /metrics and the module routes.
func NewRouter(cfg RouterConfig, modules ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Heartbeat("/livez"))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Recovery(cfg.Logger, cfg.Metrics))
	r.Use(middleware.Logger(cfg.Logger, cfg.Metrics))

	r.Get("/readyz", readiness(cfg.Checks, cfg.Logger))
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	for _, m := range modules {
		m.Register(r)
	}

	if cfg.Tracing {
		return otelhttp.NewHandler(r, "soulmint.http",
			otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
				return req.Method + " " + req.URL.Path
			}),
		)
	}
	return r
}

func readiness(checks map[string]ReadinessCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		status := map[string]string{}
		ready := true
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.WarnContext(ctx, "readiness check failed", "check", name, "error", err)
				status[name] = "unavailable"
				ready = false
				continue
			}
			status[name] = "ok"
		}
		if !ready {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "dependencies unavailable"))
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"status": "ready", "checks": status})
	}
}
