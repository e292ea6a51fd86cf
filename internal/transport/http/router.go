package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"africonnect/internal/platform/metrics"
	"africonnect/pkg/platform/httputil"
	adminmw "africonnect/pkg/platform/middleware/admin"
	authmw "africonnect/pkg/platform/middleware/auth"
	"africonnect/pkg/platform/middleware/metadata"
	"africonnect/pkg/platform/middleware/request"
	"africonnect/pkg/platform/middleware/requesttime"
)

// RouteRegistrar is implemented by every feature handler.
type RouteRegistrar interface {
	Register(r chi.Router)
	RegisterAdmin(r chi.Router)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Config struct {
	Logger    *slog.Logger
	Validator authmw.JWTValidator
	Metrics   *metrics.Metrics
	Clock     func() time.Time
	// Named dependency checks reported by /health
	Health    map[string]HealthCheck
	// RateLimit runs after authentication so budgets can be per user.
	RateLimit func(http.Handler) http.Handler
	Handlers  []RouteRegistrar
}

// NewRouter wires the public probes, the authenticated API and the admin API.
func NewRouter(cfg Config) http.Handler {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.MiddlewareWithClock(clock))
	r.Use(metadata.ClientMetadata)
	r.Use(request.Recover(cfg.Logger))
	r.Use(instrument(cfg.Metrics))

	r.Get("/health", healthHandler(cfg.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(api chi.Router) {
		api.Use(authmw.RequireAuth(cfg.Validator, cfg.Logger))
		if cfg.RateLimit != nil {
			api.Use(cfg.RateLimit)
		}
		for _, h := range cfg.Handlers {
			h.Register(api)
		}

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(adminmw.RequireAdmin(cfg.Logger))
			for _, h := range cfg.Handlers {
				h.RegisterAdmin(admin)
			}
		})
	})

	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		httputil.WriteJSON(w, status, map[string]any{"status": overall, "checks": results})
	}
}

// instrument records request metrics keyed by the matched route pattern so
// path parameters do not explode label cardinality.
func instrument(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveRequest(r.Method, route, status, time.Since(start))
		})
	}
}
