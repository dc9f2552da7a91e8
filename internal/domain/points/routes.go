package points

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes registers points routes. readMiddlewares wrap the read-only routes only:
// a write cut off by a timeout would still commit to the ledger.
func (h *Handler) Routes(readMiddlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/transaction", h.AddTransaction)
	r.Post("/spend", h.Spend)

	r.Group(func(r chi.Router) {
		r.Use(readMiddlewares...)
		r.Get("/balances", h.Balances)
		r.Get("/transactions", h.Transactions)
	})

	return r
}
