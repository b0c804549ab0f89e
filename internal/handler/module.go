package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/lms-admin/internal/apperror"
	"github.com/sakif/lms-admin/internal/service"
)

// ModuleHandler creates, lists and deletes modules.
type ModuleHandler struct {
	modules *service.ModuleService
}

// NewModuleHandler returns a handler over the module service.
func NewModuleHandler(modules *service.ModuleService) *ModuleHandler {
	return &ModuleHandler{modules: modules}
}

// moduleCreatedResponse is the create reply; it uses short keys, unlike
// the listing which returns stored column names.
type moduleCreatedResponse struct {
	ID          int64   `json:"module_id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// HTTP: GET /api/modules
func (h *ModuleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	modules, err := h.modules.List(r.Context(), claims.InstitutionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, modules)
}

// HTTP: POST /api/modules
// REQUEST BODY: {"code": "CS101", "name": "Intro", "description": "optional"}
func (h *ModuleHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in service.CreateModuleInput
	if err := decodeJSON(r, w, &in); err != nil {
		writeError(w, r, err)
		return
	}

	m, err := h.modules.Create(r.Context(), claims.InstitutionID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, moduleCreatedResponse{
		ID:          m.ID,
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
	})
}

// HTTP: DELETE /api/modules/{module_id}
func (h *ModuleHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "module_id"), 10, 64)
	if err != nil {
		writeError(w, r, apperror.ValidationFailed("module_id", service.MsgInvalidModuleID))
		return
	}

	if err := h.modules.Delete(r.Context(), claims.InstitutionID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Module deleted"})
}
