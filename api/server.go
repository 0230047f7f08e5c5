/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the back-office frontend

ROUTE GROUPS:
  /api/companies/{companyID}/*   Per-company loans, contracts, repayments
  /api/repayments/edit           Stateless snapshot editing
  /metrics                       Prometheus scrape endpoint
  /healthz                       Liveness probe

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public;
  deploy behind the platform gateway which terminates auth.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
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
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/companies/{companyID}", func(r chi.Router) {
			// Loan balances (synced from the loan ledger)
			r.Route("/loans", func(r chi.Router) {
				r.Get("/", h.ListLoans)
				r.Put("/", h.SaveLoan)
				r.Get("/{loanID}", h.GetLoan)
			})

			// Contract terms
			r.Route("/contracts", func(r chi.Router) {
				r.Get("/", h.ListContracts)
				r.Post("/", h.CreateContract)
			})

			// Repayment flow
			r.Route("/repayments", func(r chi.Router) {
				r.Get("/", h.ListRepayments)
				r.Post("/", h.ConfirmRepayment)
				r.Post("/propose", h.ProposeRepayment)
			})

			// Settlement and fee schedules
			r.Get("/settlement-date", h.GetSettlementDate)
			r.Route("/fee-schedule", func(r chi.Router) {
				r.Get("/", h.GetFeeSchedule)
				r.Get("/range", h.GetFeeScheduleRange)
			})

			// Forward simulation
			r.Post("/projection", h.RunProjection)
		})

		// Snapshot editing is stateless; no company scope needed.
		r.Post("/repayments/edit", h.EditAllocation)
	})

	// Observability
	r.Method(http.MethodGet, "/metrics", h.Metrics.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
