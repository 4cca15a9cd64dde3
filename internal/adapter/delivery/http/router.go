// Package http provides the HTTP delivery layer of the phrase shortener service.
// It contains the handlers creating links, redirecting phrases to their target
// URLs and reporting visit statistics.
package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vadimbarashkov/phrase-shortener/pkg/middleware/metrics"
)

// NewRouter initializes and returns a new Chi router configured with middleware and routes.
// If reg is not nil, request metrics are recorded in it and exposed on /metrics.
func NewRouter(logger *httplog.Logger, linkUseCase linkUseCase, reg *prometheus.Registry) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"POST", "GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	if reg != nil {
		r.Use(metrics.New(reg).Handler)
		r.Method("GET", "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}

	r.Get("/ping", handlePing)

	h := newLinkHandler(linkUseCase, validator.New())

	r.Get("/{phrase}", h.redirect)

	r.Route("/api/links", func(r chi.Router) {
		r.Post("/", h.createLink)
		r.Get("/{phrase}/stats", h.getLinkStats)
	})

	return r
}
