// Package httptransport assembles the HTTP surface of the service. It mounts
// domain handlers and the operational endpoints; business logic stays in the
// domain services.
package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"driveops/internal/transport/http/shared"
)

// Registrar is implemented by domain handlers that attach their routes to
// the router.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports readiness of a backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// NewRouter mounts every domain handler plus health and metrics endpoints.
func NewRouter(checks map[string]HealthChecker, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth(checks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, h := range handlers {
		h.Register(r)
	}
	return r
}

func handleHealth(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		status := http.StatusOK
		dependencies := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check.Health(ctx); err != nil {
				dependencies[name] = "unhealthy"
				status = http.StatusServiceUnavailable
				continue
			}
			dependencies[name] = "ok"
		}

		body := map[string]any{"status": "ok"}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		if len(dependencies) > 0 {
			body["dependencies"] = dependencies
		}
		shared.WriteJSON(w, status, body)
	}
}
