package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/consignation-app/internal/httpx"
	"github.com/diewo77/consignation-app/internal/services"
)

// Photo reads suspend on the uploaded body; cap how long a step edit can
// stay in flight.
const photoReadTimeout = 30 * time.Second

// maxUploadMemory bounds multipart buffering; the service enforces the real
// photo size limit.
const maxUploadMemory = 4 << 20

// Steps: POST (create) / DELETE (remove by id) on /api/procedure/steps.
func (h *ProcedureHandler) Steps(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		step, err := h.Svc.AddStep()
		if err != nil {
			h.respond(w, r, err)
			return
		}
		httpx.JSON(w, http.StatusCreated, step)
	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			httpx.JSONError(w, http.StatusBadRequest, "step_not_found", msg(r, "step_not_found"), nil)
			return
		}
		h.respond(w, r, h.Svc.RemoveStep(id))
	default:
		methodNotAllowed(w, r, "POST,DELETE")
	}
}

// MoveStep: POST /api/procedure/steps/move with {index, direction}.
func (h *ProcedureHandler) MoveStep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index     int `json:"index"`
		Direction int `json:"direction"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.respond(w, r, h.Svc.MoveStep(req.Index, req.Direction))
}

// UpdateStepField: PUT /api/procedure/steps/field with {id, field, value}.
func (h *ProcedureHandler) UpdateStepField(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID    string `json:"id"`
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.respond(w, r, h.Svc.UpdateStepField(req.ID, req.Field, req.Value))
}

// UploadPhoto: POST /api/procedure/steps/photo, multipart with fields "id"
// and "photo". The read is asynchronous in the service; this handler waits
// for the single result with a timeout so a stalled body cannot pin the
// request forever.
func (h *ProcedureHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", msg(r, "invalid_json"), nil)
		return
	}
	id := r.FormValue("id")
	file, header, err := r.FormFile("photo")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "unsupported_media", msg(r, "unsupported_media"), nil)
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), photoReadTimeout)
	defer cancel()

	ch, err := h.Svc.UploadStepPhoto(ctx, id, services.PhotoUpload{
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	})
	if err != nil {
		h.respond(w, r, err)
		return
	}
	res := <-ch
	if res.Err != nil {
		h.respond(w, r, res.Err)
		return
	}
	httpx.JSON(w, http.StatusOK, res.Step)
}
