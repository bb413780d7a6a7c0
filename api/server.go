/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/data            Refreshed view (snapshot + derived values)
  /api/balance-sheet   Derived financial position
  /api/purchases/*     Purchase invoices (create/update/delete)
  /api/roasts          Roasting batches
  /api/transfers       Roasted -> store transfers
  /api/blends          Blend production
  /api/sales           Sales invoices
  /api/assets          Asset records
  /api/bank-accounts   Bank accounts (+ mirrored asset)
  /api/expenses        Manual operating expenses
  /api/store-items/*   Store item maintenance
  /api/settings        Company settings

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
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

	r.Route("/api", func(r chi.Router) {
		r.Get("/data", h.GetData)
		r.Get("/balance-sheet", h.GetBalanceSheet)

		r.Route("/purchases", func(r chi.Router) {
			r.Post("/", h.CreatePurchase)
			r.Put("/{id}", h.UpdatePurchase)
			r.Delete("/{id}", h.DeletePurchase)
		})

		r.Post("/roasts", h.CreateRoast)
		r.Post("/transfers", h.TransferToStore)
		r.Post("/blends", h.CreateBlend)
		r.Post("/sales", h.CreateSale)
		r.Post("/assets", h.CreateAsset)
		r.Post("/bank-accounts", h.CreateBankAccount)
		r.Post("/expenses", h.CreateExpense)

		r.Route("/store-items", func(r chi.Router) {
			r.Post("/manual-stock", h.SetManualStock)
			r.Put("/{id}", h.UpdateStoreItem)
			r.Delete("/{id}", h.DeleteStoreItem)
		})

		r.Put("/settings", h.SaveSettings)
	})

	return r
}
