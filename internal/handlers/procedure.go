package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/diewo77/consignation-app/internal/httpx"
	"github.com/diewo77/consignation-app/internal/i18n"
	"github.com/diewo77/consignation-app/internal/models"
	"github.com/diewo77/consignation-app/internal/services"
	"github.com/diewo77/consignation-app/internal/store"
	"github.com/diewo77/consignation-app/internal/validation"
)

// ProcedureHandler translates UI events into Mutation API calls. It owns no
// state of its own; the service is the single writer of the document.
type ProcedureHandler struct {
	Svc *services.ProcedureService
}

func NewProcedureHandler(svc *services.ProcedureService) *ProcedureHandler {
	return &ProcedureHandler{Svc: svc}
}

// msg resolves a user-facing message in the request's language.
func msg(r *http.Request, code string) string {
	return i18n.T(i18n.DetectLanguage(r.Header.Get("Accept-Language")), code)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", msg(r, "invalid_json"), nil)
		return false
	}
	return true
}

func queryIndex(r *http.Request) (int, bool) {
	i, err := strconv.Atoi(r.URL.Query().Get("index"))
	return i, err == nil
}

// requiredDetails re-checks the submitted fields so a validation 400 carries
// the per-field violations the form highlights alongside the error code.
// A clean check yields an untyped nil so details is omitted from the body.
func requiredDetails(fields map[string]string) any {
	v := validation.Violations{}
	for field, value := range fields {
		validation.Required(field, value, v)
	}
	if v.Empty() {
		return nil
	}
	return v
}

// respond maps a mutation outcome to the wire. Validation failures are 400s;
// duplicate pushes and storage degradation are warnings on a 200 — the
// operation either applied or was a deliberate no-op, never a fatal error.
func (h *ProcedureHandler) respond(w http.ResponseWriter, r *http.Request, err error) {
	h.respondDetails(w, r, err, nil)
}

func (h *ProcedureHandler) respondDetails(w http.ResponseWriter, r *http.Request, err error, details any) {
	switch {
	case err == nil:
		httpx.JSON(w, http.StatusOK, map[string]any{"ok": true})
	case errors.Is(err, store.ErrStorage):
		// the in-memory mutation applied; advise a manual export
		httpx.JSONWarning(w, "storage_unavailable", msg(r, "storage_unavailable"))
	case errors.Is(err, services.ErrDuplicateEquipment):
		httpx.JSONWarning(w, "duplicate_equipment", msg(r, "duplicate_equipment"))
	case errors.Is(err, services.ErrDuplicateDanger):
		httpx.JSONWarning(w, "duplicate_danger", msg(r, "duplicate_danger"))
	case errors.Is(err, services.ErrUnsupportedMedia):
		httpx.JSONError(w, http.StatusUnsupportedMediaType, "unsupported_media", msg(r, "unsupported_media"), nil)
	case errors.Is(err, services.ErrPhotoTooLarge):
		httpx.JSONError(w, http.StatusRequestEntityTooLarge, "photo_too_large", msg(r, "photo_too_large"), nil)
	case errors.Is(err, models.ErrFileFormat):
		httpx.JSONError(w, http.StatusBadRequest, "file_format_error", msg(r, "file_format_error"), nil)
	default:
		code := err.Error()
		httpx.JSONError(w, http.StatusBadRequest, code, msg(r, code), details)
	}
}

// Get: GET /api/procedure – full snapshot plus the computed materials total.
func (h *ProcedureHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc := h.Svc.Snapshot()
	httpx.JSON(w, http.StatusOK, map[string]any{
		"procedure":      doc,
		"materialsTotal": doc.MaterialsTotal(),
	})
}

// SetInfo: PUT /api/procedure/info
func (h *ProcedureHandler) SetInfo(w http.ResponseWriter, r *http.Request) {
	var info models.Info
	if !decode(w, r, &info) {
		return
	}
	h.respond(w, r, h.Svc.SetInfo(info))
}

// SetAnalysis: PUT /api/procedure/analysis
func (h *ProcedureHandler) SetAnalysis(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.respond(w, r, h.Svc.SetRiskAnalysis(req.Text))
}

// Materials: POST (add) / DELETE (remove by index) on /api/procedure/materials.
// Quantity and price stay raw strings end to end; parsing defaults live in
// the Mutation API, not here.
func (h *ProcedureHandler) Materials(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			Designation string `json:"designation"`
			Quantity    string `json:"quantity"`
			Price       string `json:"price"`
		}
		if !decode(w, r, &req) {
			return
		}
		h.respondDetails(w, r, h.Svc.AddMaterial(req.Designation, req.Quantity, req.Price),
			requiredDetails(map[string]string{"designation": req.Designation}))
	case http.MethodDelete:
		i, ok := queryIndex(r)
		if !ok {
			httpx.JSONError(w, http.StatusBadRequest, "index_out_of_range", msg(r, "index_out_of_range"), nil)
			return
		}
		h.respond(w, r, h.Svc.RemoveMaterial(i))
	default:
		methodNotAllowed(w, r, "POST,DELETE")
	}
}

// References: POST / DELETE on /api/procedure/references.
func (h *ProcedureHandler) References(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			Document string `json:"document"`
			Page     string `json:"page"`
			Type     string `json:"type"`
		}
		if !decode(w, r, &req) {
			return
		}
		h.respondDetails(w, r, h.Svc.AddReference(req.Document, req.Page, req.Type),
			requiredDetails(map[string]string{"document": req.Document, "type": req.Type}))
	case http.MethodDelete:
		i, ok := queryIndex(r)
		if !ok {
			httpx.JSONError(w, http.StatusBadRequest, "index_out_of_range", msg(r, "index_out_of_range"), nil)
			return
		}
		h.respond(w, r, h.Svc.RemoveReference(i))
	default:
		methodNotAllowed(w, r, "POST,DELETE")
	}
}

// SortReferences: POST /api/procedure/references/sort
func (h *ProcedureHandler) SortReferences(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.SortReferences(); err != nil {
		h.respond(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"message":    msg(r, "references_sorted"),
		"references": h.Svc.Snapshot().References,
	})
}

// Equipment: POST / DELETE on /api/procedure/equipment.
func (h *ProcedureHandler) Equipment(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			Name     string `json:"name"`
			Type     string `json:"type"`
			Category string `json:"category"`
		}
		if !decode(w, r, &req) {
			return
		}
		h.respondDetails(w, r, h.Svc.AddEquipment(req.Name,
			models.ParseEquipmentType(req.Type),
			models.ParseEquipmentCategory(req.Category)),
			requiredDetails(map[string]string{"name": req.Name}))
	case http.MethodDelete:
		i, ok := queryIndex(r)
		if !ok {
			httpx.JSONError(w, http.StatusBadRequest, "index_out_of_range", msg(r, "index_out_of_range"), nil)
			return
		}
		h.respond(w, r, h.Svc.RemoveEquipment(i))
	default:
		methodNotAllowed(w, r, "POST,DELETE")
	}
}

// Dangers: POST / DELETE on /api/procedure/dangers.
func (h *ProcedureHandler) Dangers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			Name  string `json:"name"`
			Color string `json:"color"`
			Value string `json:"value"`
		}
		if !decode(w, r, &req) {
			return
		}
		h.respondDetails(w, r, h.Svc.AddDanger(req.Name, models.ParseDangerColor(req.Color), req.Value),
			requiredDetails(map[string]string{"name": req.Name}))
	case http.MethodDelete:
		i, ok := queryIndex(r)
		if !ok {
			httpx.JSONError(w, http.StatusBadRequest, "index_out_of_range", msg(r, "index_out_of_range"), nil)
			return
		}
		h.respond(w, r, h.Svc.RemoveDanger(i))
	default:
		methodNotAllowed(w, r, "POST,DELETE")
	}
}

// Improvements: POST / DELETE on /api/procedure/improvements.
func (h *ProcedureHandler) Improvements(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			Text string `json:"text"`
		}
		if !decode(w, r, &req) {
			return
		}
		h.respond(w, r, h.Svc.AddImprovement(req.Text))
	case http.MethodDelete:
		i, ok := queryIndex(r)
		if !ok {
			httpx.JSONError(w, http.StatusBadRequest, "index_out_of_range", msg(r, "index_out_of_range"), nil)
			return
		}
		h.respond(w, r, h.Svc.RemoveImprovement(i))
	default:
		methodNotAllowed(w, r, "POST,DELETE")
	}
}

// Clear: POST /api/procedure/clear
func (h *ProcedureHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Clear(); err != nil {
		h.respond(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ok": true, "message": msg(r, "procedure_cleared")})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allow string) {
	w.Header().Set("Allow", allow)
	httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", msg(r, "method_not_allowed"), nil)
}
