// Package httptransport assembles the local terminal API consumed by the
// presentation layer.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	dErrors "clicker/pkg/domain-errors"
	"clicker/pkg/platform/httputil"
	"clicker/pkg/platform/middleware/admin"
	"clicker/pkg/platform/middleware/request"
	"clicker/pkg/platform/middleware/requesttime"
)

// Registrar mounts public endpoints.
type Registrar interface {
	Register(r chi.Router)
}

// AdminRegistrar mounts endpoints that require the staff token.
type AdminRegistrar interface {
	RegisterAdmin(r chi.Router)
}

type Config struct {
	AdminToken string
	// AdminTokenHash is a bcrypt hash of the staff token and wins over
	// AdminToken when set.
	AdminTokenHash string
	// Metrics is served on /metrics when set.
	Metrics http.Handler
	// Health backs /healthz; nil always reports healthy.
	Health func(ctx context.Context) error
}

// NewRouter wires the middleware chain and mounts every handler under /v1.
// A handler implementing AdminRegistrar also gets a guarded group.
func NewRouter(logger *slog.Logger, cfg Config, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(request.AccessLog(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthHandler(cfg.Health))
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		for _, h := range handlers {
			h.Register(r)
		}
		r.Group(func(r chi.Router) {
			r.Use(adminGuard(cfg, logger))
			for _, h := range handlers {
				if a, ok := h.(AdminRegistrar); ok {
					a.RegisterAdmin(r)
				}
			}
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	return r
}

func adminGuard(cfg Config, logger *slog.Logger) func(http.Handler) http.Handler {
	if cfg.AdminTokenHash != "" {
		return admin.RequireAdminTokenHash(cfg.AdminTokenHash, logger)
	}
	return admin.RequireAdminToken(cfg.AdminToken, logger)
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "dependency unhealthy"))
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
