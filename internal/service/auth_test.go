package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/sakif/lms-admin/internal/apperror"
	"github.com/sakif/lms-admin/internal/auth"
	"github.com/sakif/lms-admin/internal/model"
)

const testSecret = "test-secret-at-least-16-chars!!"

type authFixture struct {
	svc       *AuthService
	admins    *fakeAdminRepo
	tokens    *auth.TokenService
	passwords *auth.PasswordService
}

func newAuthFixture(t *testing.T, revocations auth.RevocationStore) *authFixture {
	t.Helper()

	ts, err := auth.NewTokenService(testSecret, auth.DefaultIssuer, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	ps := auth.NewPasswordServiceForTest(4)

	hash, err := ps.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	admins := newFakeAdminRepo(
		&model.Admin{
			ID: 1, InstitutionID: 10, FirstName: "Ada", LastName: "Lovelace",
			Email: "ada@school.test", PasswordHash: sql.NullString{String: hash, Valid: true},
		},
		&model.Admin{
			ID: 2, InstitutionID: 10, FirstName: "No", LastName: "Hash",
			Email: "nohash@school.test",
		},
	)

	svc, err := NewAuthService(admins, ts, ps, revocations, nil, nopLogger)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return &authFixture{svc: svc, admins: admins, tokens: ts, passwords: ps}
}

// =========================================================================
// Login TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	f := newAuthFixture(t, nil)

	res, err := f.svc.Login(context.Background(), LoginInput{Email: "ada@school.test", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if res.Token == "" {
		t.Fatal("Login() returned empty token")
	}
	if res.Admin.AdminID != 1 || res.Admin.InstitutionID != 10 {
		t.Errorf("Admin = %+v, want admin 1 of institution 10", res.Admin)
	}

	claims, err := f.tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Email != "ada@school.test" || claims.FirstName != "Ada" {
		t.Errorf("claims identity = %+v", claims.Identity)
	}
}

func TestLogin_EmailIsCaseInsensitive(t *testing.T) {
	f := newAuthFixture(t, nil)

	if _, err := f.svc.Login(context.Background(), LoginInput{Email: "  ADA@School.Test ", Password: "correct horse"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		in   LoginInput
	}{
		{"no email", LoginInput{Password: "x"}},
		{"no password", LoginInput{Email: "ada@school.test"}},
		{"blank email", LoginInput{Email: "   ", Password: "x"}},
		{"empty", LoginInput{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t, nil)

			_, err := f.svc.Login(context.Background(), tt.in)
			ae := appErr(t, err)
			if !errors.Is(ae, apperror.ErrValidation) || ae.Message != MsgLoginRequired {
				t.Errorf("err = %v, want validation %q", err, MsgLoginRequired)
			}
			if f.admins.calls != 0 {
				t.Errorf("repository called %d times, want 0", f.admins.calls)
			}
		})
	}
}

func TestLogin_UnknownEmailAndWrongPasswordLookTheSame(t *testing.T) {
	f := newAuthFixture(t, nil)
	ctx := context.Background()

	_, unknown := f.svc.Login(ctx, LoginInput{Email: "ghost@school.test", Password: "correct horse"})
	_, wrong := f.svc.Login(ctx, LoginInput{Email: "ada@school.test", Password: "wrong"})

	u, w := appErr(t, unknown), appErr(t, wrong)
	if !errors.Is(u, apperror.ErrUnauthorized) || !errors.Is(w, apperror.ErrUnauthorized) {
		t.Fatalf("want unauthorized for both, got %v / %v", unknown, wrong)
	}
	if u.Message != w.Message || u.Message != MsgInvalidCredentials {
		t.Errorf("messages differ: %q vs %q", u.Message, w.Message)
	}
}

func TestLogin_MissingHashIsServerError(t *testing.T) {
	f := newAuthFixture(t, nil)

	_, err := f.svc.Login(context.Background(), LoginInput{Email: "nohash@school.test", Password: "anything"})
	ae := appErr(t, err)
	if !errors.Is(ae, apperror.ErrInternal) || ae.Message != MsgAdminPasswordMissing {
		t.Errorf("err = %v, want internal %q", err, MsgAdminPasswordMissing)
	}
}

func TestLogin_RepositoryError(t *testing.T) {
	f := newAuthFixture(t, nil)
	f.admins.getErr = errDBDown

	_, err := f.svc.Login(context.Background(), LoginInput{Email: "ada@school.test", Password: "correct horse"})
	ae := appErr(t, err)
	if !errors.Is(ae, apperror.ErrInternal) || ae.Message != MsgLoginFailed {
		t.Errorf("err = %v, want internal %q", err, MsgLoginFailed)
	}
	if errors.Is(err, errDBDown) {
		t.Error("driver error leaked through the service boundary")
	}
}

// =========================================================================
// Logout TESTS
// =========================================================================

func TestLogout_RevokesToken(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	revocations := auth.NewRedisRevocations(client)

	f := newAuthFixture(t, revocations)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, LoginInput{Email: "ada@school.test", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	claims, err := f.tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if err := f.svc.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	revoked, err := revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		t.Fatalf("IsRevoked() error = %v", err)
	}
	if !revoked {
		t.Error("token should be revoked after logout")
	}
}

func TestLogout_NilClaims(t *testing.T) {
	f := newAuthFixture(t, nil)

	err := f.svc.Logout(context.Background(), nil)
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("Logout(nil) = %v, want unauthorized", err)
	}
}

func TestLogout_StoreFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := newAuthFixture(t, auth.NewRedisRevocations(client))
	res, err := f.svc.Login(context.Background(), LoginInput{Email: "ada@school.test", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	claims, _ := f.tokens.Verify(res.Token)

	mr.Close()

	err = f.svc.Logout(context.Background(), claims)
	ae := appErr(t, err)
	if !errors.Is(ae, apperror.ErrInternal) || ae.Message != MsgLogoutFailed {
		t.Errorf("err = %v, want internal %q", err, MsgLogoutFailed)
	}
}
