package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// API represents the main API structure.
type API struct {
	Router chi.Router
	Huma   huma.API
}

// NewAPI creates a new API instance. Prometheus metrics are served at /metrics.
func NewAPI() *API {
	router := chi.NewMux()
	router.Use(middleware.Recoverer)
	router.Handle("/metrics", promhttp.Handler())

	config := huma.DefaultConfig("Bookmark Sync API", "1.0.0")
	humaAPI := humachi.New(router, config)

	return &API{
		Router: router,
		Huma:   humaAPI,
	}
}

// Server returns an HTTP server for the API on addr.
func (a *API) Server(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
