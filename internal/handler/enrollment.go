package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/lms-admin/internal/apperror"
	"github.com/sakif/lms-admin/internal/service"
)

// EnrollmentHandler serves student enrollments and their grades.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentHandler returns a handler over the enrollment service.
func NewEnrollmentHandler(enrollments *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// HTTP: GET /api/enrollments
func (h *EnrollmentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.enrollments.List(r.Context(), claims.InstitutionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, list)
}

// HTTP: POST /api/enrollments
// REQUEST BODY: {"studentId": 1, "moduleId": 2, "grade": "optional"}
func (h *EnrollmentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in service.CreateEnrollmentInput
	if err := decodeJSON(r, w, &in); err != nil {
		writeError(w, r, err)
		return
	}

	e, err := h.enrollments.Create(r.Context(), claims.InstitutionID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, e)
}

// HTTP: PATCH /api/enrollments/{enrollment_id}
// REQUEST BODY: {"grade": "B+"} or {"grade": null}
func (h *EnrollmentHandler) HandleGrade(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, ok := enrollmentID(w, r)
	if !ok {
		return
	}
	var in service.GradeInput
	if err := decodeJSON(r, w, &in); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.enrollments.SetGrade(r.Context(), claims.InstitutionID, id, in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Grade updated"})
}

// HTTP: DELETE /api/enrollments/{enrollment_id}
func (h *EnrollmentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, ok := enrollmentID(w, r)
	if !ok {
		return
	}

	if err := h.enrollments.Delete(r.Context(), claims.InstitutionID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Enrollment deleted"})
}

// enrollmentID parses the path id, writing the 400 itself when it is not
// a number.
func enrollmentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "enrollment_id"), 10, 64)
	if err != nil {
		writeError(w, r, apperror.ValidationFailed("enrollment_id", service.MsgInvalidEnrollmentID))
		return 0, false
	}
	return id, true
}
