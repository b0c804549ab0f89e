package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const readinessTimeout = 3 * time.Second

// Pinger reports whether the database answers a trivial query.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness checks. redis may be nil
// when token revocation is disabled.
type HealthHandler struct {
	db    Pinger
	redis *redis.Client
}

// NewHealthHandler checks db and, when non-nil, rdb.
func NewHealthHandler(db Pinger, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// HandleHealth is the liveness check. It never touches a dependency.
//
// HTTP: GET /health
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]bool{"ok": true})
}

// HandleReady checks the database and, when configured, Redis. Both are
// required: the auth gate rejects every token while Redis is unreachable.
//
// HTTP: GET /health/ready
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	status, code := "ok", http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		deps["database"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		status, code = "unhealthy", http.StatusServiceUnavailable
	} else {
		deps["database"] = dependencyStatus{Status: "ok"}
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			status, code = "unhealthy", http.StatusServiceUnavailable
		} else {
			deps["redis"] = dependencyStatus{Status: "ok"}
		}
	}

	writeJSON(w, r, code, readinessResponse{Status: status, Dependencies: deps})
}
