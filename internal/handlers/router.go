package handlers

import (
	"net/http"

	"ledger/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/v1", func(r chi.Router) {
		r.Post("/transfers", h.CreateTransfer)
		r.Post("/accounts", h.CreateAccount)
		r.With(middleware.RateLimit(h.limiter)).Get("/accounts/{id}/balance", h.GetBalance)
		r.Get("/accounts/{id}/transfers", h.ListTransfers)
	})
	router.Get("/ws/accounts/{id}", h.WSAccount)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
