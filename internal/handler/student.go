package handler

import (
	"net/http"

	"github.com/sakif/lms-admin/internal/service"
)

// StudentHandler serves the student roster of the caller's institution.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler returns a handler over the student service.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// HTTP: GET /api/students
func (h *StudentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	students, err := h.students.List(r.Context(), claims.InstitutionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, students)
}

// HTTP: POST /api/students
// REQUEST BODY: {"firstName", "lastName", "email"}
func (h *StudentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in service.CreateStudentInput
	if err := decodeJSON(r, w, &in); err != nil {
		writeError(w, r, err)
		return
	}

	st, err := h.students.Create(r.Context(), claims.InstitutionID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, st)
}
