// Package handlers provides HTTP handlers for the analysis API.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/lynchlens/internal/modules/analysis"
)

// Handlers provides HTTP handlers for the analysis module
type Handlers struct {
	service *analysis.Service
	log     zerolog.Logger
}

// NewHandlers creates a new analysis handlers instance
func NewHandlers(service *analysis.Service, log zerolog.Logger) *Handlers {
	return &Handlers{
		service: service,
		log:     log.With().Str("module", "analysis_handlers").Logger(),
	}
}

// HandleGetAnalysis handles GET /api/analysis/{symbol}
// Returns the full valuation report for a symbol. ?refresh=1 drops the
// cached artifacts first so the report is rebuilt from the provider.
func (h *Handlers) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	if r.URL.Query().Get("refresh") == "1" {
		if err := h.service.Invalidate(symbol); err != nil {
			h.log.Error().Err(err).Str("symbol", symbol).Msg("Cache invalidation failed")
			h.writeError(w, err.Error(), statusFor(err))
			return
		}
	}

	report, err := h.service.Analyze(symbol)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Analysis failed")
		h.writeError(w, err.Error(), statusFor(err))
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

// HandleGetChart handles GET /api/analysis/{symbol}/chart
// Returns the price history with the fair-value band and period stats.
func (h *Handlers) HandleGetChart(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	chart, err := h.service.Chart(symbol)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Chart build failed")
		h.writeError(w, err.Error(), statusFor(err))
		return
	}

	h.writeJSON(w, http.StatusOK, chart)
}

// NarrativeResponse wraps the generated analyst text
type NarrativeResponse struct {
	Symbol    string `json:"symbol"`
	Narrative string `json:"narrative"`
}

// HandleGetNarrative handles GET /api/analysis/{symbol}/narrative
// Returns the Lynch-style analyst narrative for a symbol.
func (h *Handlers) HandleGetNarrative(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	narrative, err := h.service.Narrative(symbol)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Narrative generation failed")
		h.writeError(w, err.Error(), statusFor(err))
		return
	}

	h.writeJSON(w, http.StatusOK, NarrativeResponse{
		Symbol:    strings.ToUpper(strings.TrimSpace(symbol)),
		Narrative: narrative,
	})
}

// HandleInvalidateCache handles DELETE /api/analysis/{symbol}
// Drops all cached data for a symbol so the next request refetches.
func (h *Handlers) HandleInvalidateCache(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	if err := h.service.Invalidate(symbol); err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Cache invalidation failed")
		h.writeError(w, err.Error(), statusFor(err))
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "symbol is required"):
		return http.StatusBadRequest
	case strings.Contains(msg, "not configured"):
		return http.StatusServiceUnavailable
	case strings.Contains(msg, "no quote summary data"),
		strings.Contains(msg, "no chart data"):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// writeJSON writes a JSON response with status code
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handlers) writeError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
