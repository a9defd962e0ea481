package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GetRouter initialises a new http router and applies all routes
func GetRouter(runner *Runner) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	return applyRoutes(r, &handler{runner: runner})
}

func applyRoutes(r chi.Router, h *handler) chi.Router {
	r.Route("/", func(r chi.Router) {
		r.Get("/run-ranking", h.getRunRanking)
		r.Get("/healthz", getHealth)
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	})

	return r
}
