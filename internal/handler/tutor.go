package handler

import (
	"net/http"

	"github.com/sakif/lms-admin/internal/service"
)

// TutorHandler registers and lists tutors.
type TutorHandler struct {
	tutors *service.TutorService
}

// NewTutorHandler returns a handler over the tutor service.
func NewTutorHandler(tutors *service.TutorService) *TutorHandler {
	return &TutorHandler{tutors: tutors}
}

type tutorRegisteredResponse struct {
	Message string `json:"message"`
	TutorID int64  `json:"tutorId"`
}

// HandleRegister creates a tutor in the caller's institution.
//
// HTTP: POST /api/tutors/register
// REQUEST BODY: {"firstName", "lastName", "email", "password"}
func (h *TutorHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in service.RegisterTutorInput
	if err := decodeJSON(r, w, &in); err != nil {
		writeError(w, r, err)
		return
	}

	tutor, err := h.tutors.Register(r.Context(), claims.InstitutionID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, tutorRegisteredResponse{
		Message: "Tutor registered successfully",
		TutorID: tutor.ID,
	})
}

// HTTP: GET /api/tutors
func (h *TutorHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFrom(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tutors, err := h.tutors.List(r.Context(), claims.InstitutionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, tutors)
}
