package handler

// Every error response has the same shape:
//
//	{"error": "conflict", "message": "A tutor with this email already exists"}
//
// so clients can always read both fields regardless of status.

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/sakif/lms-admin/internal/apperror"
	"github.com/sakif/lms-admin/internal/auth"
)

const (
	MsgInvalidBody   = "Invalid JSON body"
	MsgInternalError = "An internal error occurred"
	MsgTimeout       = "Request timed out"
)

// maxBodyBytes bounds request bodies; every payload here is a handful of fields.
const maxBodyBytes = 1 << 20

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are already sent
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode JSON response")
	}
}

// writeError maps an error kind to its HTTP status. Errors that are not an
// *apperror.AppError never reach the client: they are logged and replaced
// by a generic 500. A server-side failure after the request deadline is
// reported as 504, since the cancelled query is the likely cause.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperror.AppError
	isAppErr := errors.As(err, &appErr)

	serverSide := !isAppErr || errors.Is(err, apperror.ErrInternal)
	if serverSide && errors.Is(r.Context().Err(), context.DeadlineExceeded) {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("request deadline exceeded")
		writeJSON(w, r, http.StatusGatewayTimeout, ErrorResponse{Error: "timeout", Message: MsgTimeout})
		return
	}

	if !isAppErr {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("unhandled error")
		writeJSON(w, r, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: MsgInternalError,
		})
		return
	}

	status := http.StatusInternalServerError
	kind := "internal_error"
	switch {
	case errors.Is(err, apperror.ErrValidation):
		status, kind = http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperror.ErrUnauthorized):
		status, kind = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperror.ErrNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, apperror.ErrConflict):
		status, kind = http.StatusConflict, "conflict"
	}

	writeJSON(w, r, status, ErrorResponse{Error: kind, Message: appErr.Message})
}

// decodeJSON reads a single JSON object from the body into dst. Any failure,
// including an empty body, is reported as a validation error.
func decodeJSON(r *http.Request, w http.ResponseWriter, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("invalid request body")
		return apperror.ValidationFailed("body", MsgInvalidBody)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperror.ValidationFailed("body", MsgInvalidBody)
	}
	return nil
}

// claimsFrom returns the verified caller. Routes behind auth.RequireAuth
// always have claims; a missing value means the route was mounted wrongly.
func claimsFrom(r *http.Request) (*auth.Claims, error) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return nil, apperror.Unauthorized(auth.MsgTokenMissing)
	}
	return claims, nil
}
