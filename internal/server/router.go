package server

import (
	"net/http"

	"github.com/diewo77/consignation-app/internal/handlers"
	"github.com/diewo77/consignation-app/internal/httpx"
	"github.com/diewo77/consignation-app/internal/pdf"
	"github.com/diewo77/consignation-app/internal/services"
	"github.com/diewo77/consignation-app/internal/store"
)

// New constructs the root http.Handler with all routes applied.
func New(svc *services.ProcedureService, st *store.Store, renderer *pdf.Renderer) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if st == nil || st.Ping() != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	ph := handlers.NewProcedureHandler(svc)
	th := handlers.NewTransferHandler(svc, renderer)

	mux.HandleFunc("/api/procedure", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "", nil)
			return
		}
		ph.Get(w, r)
	})
	mux.HandleFunc("/api/procedure/info", requireMethod(http.MethodPut, ph.SetInfo))
	mux.HandleFunc("/api/procedure/analysis", requireMethod(http.MethodPut, ph.SetAnalysis))
	mux.HandleFunc("/api/procedure/materials", ph.Materials)
	mux.HandleFunc("/api/procedure/references", ph.References)
	mux.HandleFunc("/api/procedure/references/sort", requireMethod(http.MethodPost, ph.SortReferences))
	mux.HandleFunc("/api/procedure/equipment", ph.Equipment)
	mux.HandleFunc("/api/procedure/dangers", ph.Dangers)
	mux.HandleFunc("/api/procedure/improvements", ph.Improvements)
	mux.HandleFunc("/api/procedure/steps", ph.Steps)
	mux.HandleFunc("/api/procedure/steps/move", requireMethod(http.MethodPost, ph.MoveStep))
	mux.HandleFunc("/api/procedure/steps/field", requireMethod(http.MethodPut, ph.UpdateStepField))
	mux.HandleFunc("/api/procedure/steps/photo", requireMethod(http.MethodPost, ph.UploadPhoto))
	mux.HandleFunc("/api/procedure/clear", requireMethod(http.MethodPost, ph.Clear))

	mux.HandleFunc("/api/procedure/export", requireMethod(http.MethodGet, th.Export))
	mux.HandleFunc("/api/procedure/import", requireMethod(http.MethodPost, th.Import))
	mux.HandleFunc("/api/procedure/pdf", requireMethod(http.MethodGet, th.PDF))

	mux.HandleFunc("/api/suggestions", requireMethod(http.MethodGet, handlers.Suggestions))
	mux.HandleFunc("/api/preview/markdown", requireMethod(http.MethodPost, handlers.PreviewMarkdown))

	return mux
}

func requireMethod(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "", nil)
			return
		}
		next(w, r)
	}
}
