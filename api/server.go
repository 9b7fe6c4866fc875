/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the staff frontend

ROUTE GROUPS:
  /api/bookings/*     Sessions, consultations, confirmation, sequence
  /api/services/*     Purchases, quota, per-service adjustments
  /api/adjustments/*  Adjustment edit/delete/import
  /api/clients/*      Mirrored client directory
  /api/definitions    Quota catalog
  /metrics            Prometheus scrape endpoint

SECURITY NOTE:
  Identity is trusted from the X-Actor-* headers set by the upstream
  proxy. No authentication happens here.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Actor-ID", "X-Actor-Role"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Booking routes
		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", h.CreateBooking)
			r.Post("/confirm", h.ConfirmBookings)
			r.Get("/{id}", h.GetBooking)
			r.Patch("/{id}", h.UpdateBooking)
			r.Get("/{id}/sequence", h.GetSequence)
		})

		// Service routes
		r.Route("/services", func(r chi.Router) {
			r.Post("/", h.CreateService)
			r.Get("/{id}", h.GetService)
			r.Get("/{id}/quota", h.GetQuota)
			r.Post("/{id}/adjustments", h.CreateAdjustment)
			r.Get("/{id}/adjustments", h.ListAdjustments)
		})

		// Adjustment routes
		r.Route("/adjustments", func(r chi.Router) {
			r.Put("/{id}", h.UpdateAdjustment)
			r.Delete("/{id}", h.DeleteAdjustment)
			r.Post("/import", h.ImportAdjustments)
		})

		// Client directory routes
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.ListClients)
			r.Post("/", h.CreateClient)
			r.Get("/{id}", h.GetClient)
			r.Get("/{id}/services", h.ListClientServices)
		})

		// Catalog routes
		r.Route("/definitions", func(r chi.Router) {
			r.Get("/", h.ListDefinitions)
			r.Post("/", h.LoadCatalog)
		})
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
