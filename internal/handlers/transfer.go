package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/diewo77/consignation-app/internal/httpx"
	"github.com/diewo77/consignation-app/internal/pdf"
	"github.com/diewo77/consignation-app/internal/services"
	"github.com/diewo77/consignation-app/internal/store"
)

// importing a whole document; generous but bounded
const maxImportBytes = 8 << 20

// TransferHandler covers the whole-document surfaces: JSON export/import and
// PDF rendering. A nil Renderer means the PDF collaborator is unavailable and
// clients fall back to the browser print dialog.
type TransferHandler struct {
	Svc      *services.ProcedureService
	Renderer *pdf.Renderer
}

func NewTransferHandler(svc *services.ProcedureService, renderer *pdf.Renderer) *TransferHandler {
	return &TransferHandler{Svc: svc, Renderer: renderer}
}

// Export: GET /api/procedure/export – pretty JSON download named from the
// sanitized procedure number and the current date.
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	name, data, err := store.ExportFile(h.Svc.Snapshot(), time.Now())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "export_failed", "", nil)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if _, err := w.Write(data); err != nil {
		_ = err
	}
}

// Import: POST /api/procedure/import – multipart field "file" (or a raw JSON
// body). On a format error the current document is left untouched.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	var data []byte
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		data, err = io.ReadAll(io.LimitReader(file, maxImportBytes))
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "file_format_error", msg(r, "file_format_error"), nil)
			return
		}
	} else {
		var rerr error
		data, rerr = io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
		if rerr != nil {
			httpx.JSONError(w, http.StatusBadRequest, "file_format_error", msg(r, "file_format_error"), nil)
			return
		}
	}

	doc, err := store.ImportFile(data)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "file_format_error", msg(r, "file_format_error"), nil)
		return
	}
	if err := h.Svc.Replace(doc); err != nil {
		// replaced in memory; only the persist failed
		httpx.JSONWarning(w, "storage_unavailable", msg(r, "storage_unavailable"))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"message":   msg(r, "procedure_loaded"),
		"procedure": h.Svc.Snapshot(),
	})
}

// PDF: GET /api/procedure/pdf – renders the current snapshot. When the
// renderer is missing or fails, the 503 tells the client to use the native
// print flow instead; nothing here is fatal.
func (h *TransferHandler) PDF(w http.ResponseWriter, r *http.Request) {
	if h.Renderer == nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "pdf_unavailable", msg(r, "pdf_unavailable"), nil)
		return
	}
	data, err := h.Renderer.Render(h.Svc.Snapshot())
	if err != nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "pdf_unavailable", msg(r, "pdf_unavailable"), nil)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdf.Filename(time.Now())))
	if _, err := w.Write(data); err != nil {
		_ = err
	}
}
