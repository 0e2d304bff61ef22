package httptransport

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"studiogate/internal/platform/metrics"
	"studiogate/pkg/platform/httputil"
)

// HealthCheck probes one backing dependency for /healthz.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// RouterConfig collects the handlers and cross-cutting pieces the router
// mounts.
type RouterConfig struct {
	Sessions     *SessionHandler
	Eligibility  *EligibilityHandler
	Admin        *AdminHandler
	Metrics      *metrics.Metrics
	HealthChecks []HealthCheck
}

// NewRouter wires all public endpoints.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(Metadata)
	if cfg.Metrics != nil {
		r.Use(instrument(cfg.Metrics))
	}

	if cfg.Sessions != nil {
		cfg.Sessions.Register(r)
	}
	if cfg.Eligibility != nil {
		cfg.Eligibility.Register(r)
	}
	if cfg.Admin != nil {
		cfg.Admin.Register(r)
	}

	r.Get("/healthz", healthHandler(cfg.HealthChecks))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}

// instrument records request counts and latency per chi route pattern.
func instrument(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			m.RequestsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
			m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}

func healthHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for _, check := range checks {
			if err := check.Check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body[check.Name] = err.Error()
				continue
			}
			body[check.Name] = "ok"
		}
		httputil.WriteJSON(w, status, body)
	}
}
