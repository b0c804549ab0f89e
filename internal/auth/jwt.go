// Package auth issues and verifies admin access tokens, hashes passwords,
// and gates protected routes.
//
// TOKEN FORMAT:
// Tokens are HS256 JWTs carrying the admin's Identity plus the registered
// claims iss, sub (admin id), iat, exp and jti:
//
//	HEADER.PAYLOAD.SIGNATURE
//	{"alg":"HS256","typ":"JWT"}.{"admin_id":7,"institution_id":1,...,"exp":...}.HMAC
//
// Verification needs only the shared secret, no database lookup. The jti lets
// a single token be revoked on logout before it expires.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const (
	DefaultTokenTTL = time.Hour
	DefaultIssuer   = "lms-admin"

	minSecretLength = 16
)

var (
	ErrMissingSecret = errors.New("auth: JWT secret is not configured")
	ErrInvalidToken  = errors.New("auth: invalid token")
	ErrTokenExpired  = fmt.Errorf("%w: token expired", ErrInvalidToken)
)

// Identity is the admin information carried inside a token and returned by
// the login endpoint.
type Identity struct {
	AdminID       int64  `json:"admin_id"`
	InstitutionID int64  `json:"institution_id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"admin_email"`
}

// Claims is the full JWT payload.
type Claims struct {
	Identity
	jwt.RegisteredClaims
}

// TokenVerifier is what the request gate depends on.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// TokenService signs and verifies tokens with a single HMAC secret.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

var _ TokenVerifier = (*TokenService)(nil)

// NewTokenService fails when secret is empty or too short to be safe. A zero
// ttl or empty issuer fall back to the defaults.
//
// Generate a secret with: openssl rand -hex 32
func NewTokenService(secret, issuer string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("auth: JWT secret must be at least %d characters", minSecretLength)
	}
	if issuer == "" {
		issuer = DefaultIssuer
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for id that expires after the configured TTL.
func (s *TokenService) Issue(id Identity) (string, error) {
	return s.IssueWithDuration(id, s.ttl)
}

// IssueWithDuration signs a token with an explicit lifetime. Tests use a
// negative duration to mint already-expired tokens.
func (s *TokenService) IssueWithDuration(id Identity, d time.Duration) (string, error) {
	now := time.Now()

	c := Claims{
		Identity: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(id.AdminID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			ID:        xid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses tokenStr and returns its claims. Every failure wraps
// ErrInvalidToken; expiry additionally matches ErrTokenExpired.
//
// The algorithm is pinned to HS256 so a token declaring "none" or an
// asymmetric algorithm is rejected before the signature is checked.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: unexpected claims", ErrInvalidToken)
	}
	if c.AdminID <= 0 || c.InstitutionID <= 0 {
		return nil, fmt.Errorf("%w: missing identity", ErrInvalidToken)
	}
	if c.Subject != strconv.FormatInt(c.AdminID, 10) {
		return nil, fmt.Errorf("%w: subject mismatch", ErrInvalidToken)
	}

	return c, nil
}
