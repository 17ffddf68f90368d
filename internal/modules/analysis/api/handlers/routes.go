package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all analysis routes
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/analysis", func(r chi.Router) {
		r.Get("/{symbol}", h.HandleGetAnalysis)            // Full valuation report
		r.Get("/{symbol}/chart", h.HandleGetChart)         // Price history + fair-value band
		r.Get("/{symbol}/narrative", h.HandleGetNarrative) // Lynch-style analyst text
		r.Delete("/{symbol}", h.HandleInvalidateCache)
	})
}
