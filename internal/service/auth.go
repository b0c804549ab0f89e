package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sakif/lms-admin/internal/apperror"
	"github.com/sakif/lms-admin/internal/auth"
	"github.com/sakif/lms-admin/internal/metrics"
	"github.com/sakif/lms-admin/internal/repository"
)

const (
	MsgLoginRequired        = "Email and password required"
	MsgInvalidCredentials   = "Invalid email or password"
	MsgAdminPasswordMissing = "Admin password missing"
	MsgLoginFailed          = "Login failed"
	MsgLogoutFailed         = "Failed to log out"
)

const dummyPassword = "lms-admin-timing-equaliser"

// TokenIssuer signs access tokens for a verified admin.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned on success; Admin echoes the token's identity.
type LoginResult struct {
	Token string        `json:"token"`
	Admin auth.Identity `json:"admin"`
}

// AuthService authenticates admins and ends their sessions.
type AuthService struct {
	admins      repository.AdminRepository
	tokens      TokenIssuer
	passwords   *auth.PasswordService
	revocations auth.RevocationStore
	metrics     *metrics.Metrics
	logger      zerolog.Logger

	// bcrypt hash compared against when the email is unknown, so both
	// failure paths cost one bcrypt comparison
	dummyHash string
}

// NewAuthService hashes the timing dummy up front. revocations may be nil,
// which leaves logout without effect.
func NewAuthService(
	admins repository.AdminRepository,
	tokens TokenIssuer,
	passwords *auth.PasswordService,
	revocations auth.RevocationStore,
	m *metrics.Metrics,
	logger zerolog.Logger,
) (*AuthService, error) {
	dummy, err := passwords.Hash(dummyPassword)
	if err != nil {
		return nil, err
	}
	if revocations == nil {
		revocations = auth.NoRevocations{}
	}
	return &AuthService{
		admins:      admins,
		tokens:      tokens,
		passwords:   passwords,
		revocations: revocations,
		metrics:     m,
		logger:      logger.With().Str("component", "auth").Logger(),
		dummyHash:   dummy,
	}, nil
}

// Login checks credentials and issues a token.
//
// An unknown email and a wrong password produce the same 401 so the
// response never reveals whether an account exists. A stored hash that is
// NULL or empty is a data-integrity problem and reported as a 500.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := checkInput(in, MsgLoginRequired); err != nil {
		s.metrics.LoginAttempt(metrics.LoginInvalid)
		return nil, err
	}

	admin, err := s.admins.GetAdminByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			_ = s.passwords.Verify(s.dummyHash, in.Password)
			s.metrics.LoginAttempt(metrics.LoginFailure)
			return nil, apperror.Unauthorized(MsgInvalidCredentials)
		}
		s.logger.Error().Err(err).Msg("admin lookup failed")
		s.metrics.LoginAttempt(metrics.LoginServerError)
		return nil, apperror.Internal(MsgLoginFailed)
	}

	if !admin.PasswordHash.Valid || admin.PasswordHash.String == "" {
		s.logger.Error().Int64("admin_id", admin.ID).Msg("admin has no password hash")
		s.metrics.LoginAttempt(metrics.LoginServerError)
		return nil, apperror.Internal(MsgAdminPasswordMissing)
	}

	if err := s.passwords.Verify(admin.PasswordHash.String, in.Password); err != nil {
		s.metrics.LoginAttempt(metrics.LoginFailure)
		return nil, apperror.Unauthorized(MsgInvalidCredentials)
	}

	identity := auth.Identity{
		AdminID:       admin.ID,
		InstitutionID: admin.InstitutionID,
		FirstName:     admin.FirstName,
		LastName:      admin.LastName,
		Email:         admin.Email,
	}
	token, err := s.tokens.Issue(identity)
	if err != nil {
		s.logger.Error().Err(err).Int64("admin_id", admin.ID).Msg("issuing token failed")
		s.metrics.LoginAttempt(metrics.LoginServerError)
		return nil, apperror.Internal(MsgLoginFailed)
	}

	s.metrics.LoginAttempt(metrics.LoginSuccess)
	s.logger.Info().Int64("admin_id", admin.ID).Int64("institution_id", admin.InstitutionID).Msg("admin logged in")

	return &LoginResult{Token: token, Admin: identity}, nil
}

// Logout revokes the presented token until it expires.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return apperror.Unauthorized(auth.MsgTokenInvalid)
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.logger.Error().Err(err).Str("jti", claims.ID).Msg("revoking token failed")
		return apperror.Internal(MsgLogoutFailed)
	}
	s.logger.Info().Int64("admin_id", claims.AdminID).Msg("admin logged out")
	return nil
}
