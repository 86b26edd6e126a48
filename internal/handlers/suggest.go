package handlers

import (
	"net/http"

	"github.com/diewo77/consignation-app/internal/httpx"
	"github.com/diewo77/consignation-app/internal/markdown"
	"github.com/diewo77/consignation-app/internal/suggest"
)

// Suggestions: GET /api/suggestions?kind=equipment|dangers&q=...
// Queries under two characters return empty results, not errors.
func Suggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	switch r.URL.Query().Get("kind") {
	case "dangers":
		items := suggest.QueryDangers(q)
		if items == nil {
			items = []suggest.DangerSuggestion{}
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"items": items})
	case "equipment", "":
		groups := suggest.QueryEquipment(q)
		if groups == nil {
			groups = []suggest.EquipmentGroup{}
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"groups": groups})
	default:
		httpx.JSONError(w, http.StatusBadRequest, "unknown_catalog", "", nil)
	}
}

// PreviewMarkdown: POST /api/preview/markdown with {text}; returns the safe
// HTML used for the on-screen risk-analysis preview.
func PreviewMarkdown(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decode(w, r, &req) {
		return
	}
	html, err := markdown.Render(req.Text)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "render_failed", "", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"html": string(html)})
}
