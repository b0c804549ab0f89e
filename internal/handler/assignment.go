package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/lms-admin/internal/apperror"
	"github.com/sakif/lms-admin/internal/service"
)

// AssignmentHandler serves tutor-to-module assignments.
type AssignmentHandler struct {
	assignments *service.AssignmentService
}

// NewAssignmentHandler returns a handler over the assignment service.
func NewAssignmentHandler(assignments *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// HTTP: GET /api/assignments
func (h *AssignmentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.assignments.List(r.Context(), claims.InstitutionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

// HTTP: POST /api/assignments
// REQUEST BODY: {"moduleId": 1, "tutorId": 2}
func (h *AssignmentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in service.CreateAssignmentInput
	if err := decodeJSON(r, w, &in); err != nil {
		writeError(w, r, err)
		return
	}

	a, err := h.assignments.Create(r.Context(), claims.InstitutionID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, a)
}

// HTTP: DELETE /api/assignments/{assignment_id}
func (h *AssignmentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "assignment_id"), 10, 64)
	if err != nil {
		writeError(w, r, apperror.ValidationFailed("assignment_id", service.MsgInvalidAssignmentID))
		return
	}

	if err := h.assignments.Delete(r.Context(), claims.InstitutionID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Assignment deleted"})
}
