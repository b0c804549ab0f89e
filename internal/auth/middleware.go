package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Messages written by the gate. Both are 401s; the second covers every
// verification failure so callers learn nothing about why a token failed.
const (
	MsgTokenMissing = "Authorization token missing"
	MsgTokenInvalid = "Invalid or expired token"
)

const bearerPrefix = "Bearer "

// contextKey is unexported so no other package can read or shadow the
// claims stored by this one.
type contextKey string

const claimsKey contextKey = "claims"

// WithClaims returns a copy of ctx carrying c.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromContext returns the claims stored by RequireAuth, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}

// RequireAuth rejects requests without a valid "Authorization: Bearer <token>"
// header. The scheme match is exact and case-sensitive. On success the
// verified claims are placed in the request context for downstream handlers.
//
// A failing revocation lookup rejects the request: the gate fails closed.
func RequireAuth(tokens TokenVerifier, revocations RevocationStore, logger zerolog.Logger) func(http.Handler) http.Handler {
	if revocations == nil {
		revocations = NoRevocations{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				writeUnauthorized(w, MsgTokenMissing)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
			if raw == "" {
				writeUnauthorized(w, MsgTokenMissing)
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				logger.Debug().Err(err).Str("path", r.URL.Path).Msg("token rejected")
				writeUnauthorized(w, MsgTokenInvalid)
				return
			}

			revoked, err := revocations.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				logger.Error().Err(err).Str("jti", claims.ID).Msg("revocation lookup failed")
				writeUnauthorized(w, MsgTokenInvalid)
				return
			}
			if revoked {
				writeUnauthorized(w, MsgTokenInvalid)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}
