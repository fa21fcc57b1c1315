// Package httptransport assembles the public HTTP surface: domain routers,
// platform middleware, and the operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recordhub/internal/platform/middleware"
	"recordhub/internal/transport/http/shared"
)

// DomainRouter is implemented by each domain handler.
type DomainRouter interface {
	Register(r chi.Router)
}

// Counter reports how many live records a domain currently holds. The health
// endpoint uses it as a cheap liveness probe that also exercises each store.
type Counter func() int

type Deps struct {
	Logger  *slog.Logger
	Catalog DomainRouter
	Blog    DomainRouter
	Medical DomainRouter

	ItemCount    Counter
	UserCount    Counter
	PatientCount Counter
}

// NewRouter wires middleware and mounts every domain. Middleware order
// matters: recovery outermost, then request identity and time so the logger
// and handlers observe a consistent request context.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.ContentTypeJSON)

	d.Catalog.Register(r)
	d.Blog.Register(r)
	d.Medical.Register(r)

	r.Get("/", handleIndex)
	r.Get("/health", handleHealth(d))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func handleIndex(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"service": "recordhub",
		"domains": []string{"catalog", "blog", "medical"},
		"endpoints": map[string]string{
			"items":    "/api/items",
			"users":    "/api/users",
			"posts":    "/api/posts",
			"comments": "/api/comments",
			"patients": "/api/patients",
			"health":   "/health",
			"metrics":  "/metrics",
		},
	})
}

func handleHealth(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		shared.WriteJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"records": map[string]int{
				"items":    d.ItemCount(),
				"users":    d.UserCount(),
				"patients": d.PatientCount(),
			},
		})
	}
}
