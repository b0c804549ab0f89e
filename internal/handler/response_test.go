package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/lms-admin/internal/apperror"
)

func TestWriteError_MapsKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
		wantMsg    string
	}{
		{"validation", apperror.ValidationFailed("code", "Module code and name are required"), 400, "validation_error", "Module code and name are required"},
		{"unauthorized", apperror.Unauthorized("Invalid email or password"), 401, "unauthorized", "Invalid email or password"},
		{"not found", apperror.NotFound("Module or tutor not found"), 404, "not_found", "Module or tutor not found"},
		{"conflict", apperror.Conflict("A tutor with this email already exists"), 409, "conflict", "A tutor with this email already exists"},
		{"internal", apperror.Internal("Failed to fetch tutors"), 500, "internal_error", "Failed to fetch tutors"},
		{"wrapped", fmt.Errorf("outer: %w", apperror.Conflict("dup")), 409, "conflict", "dup"},
		{"unknown", errors.New("pq: relation \"tutor\" does not exist"), 500, "internal_error", MsgInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, tt.wantKind, body.Error)
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestWriteError_AfterDeadline(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/modules", nil).WithContext(ctx)

	rr := httptest.NewRecorder()
	writeError(rr, req, apperror.Internal("Failed to load modules"))
	assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "timeout", body.Error)
	assert.Equal(t, MsgTimeout, body.Message)

	// client errors keep their status
	rr = httptest.NewRecorder()
	writeError(rr, req, apperror.ValidationFailed("code", "Module code and name are required"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Code string `json:"code"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"code":"CS101"}`, false},
		{"empty", ``, true},
		{"truncated", `{"code":`, true},
		{"trailing value", `{"code":"a"}{"code":"b"}`, true},
		{"wrong type", `{"code":12}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst payload
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			err := decodeJSON(r, httptest.NewRecorder(), &dst)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "CS101", dst.Code)
				return
			}
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestClaimsFrom_Missing(t *testing.T) {
	_, err := claimsFrom(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
