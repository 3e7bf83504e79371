package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgAuth "github.com/daghlis/gallery-backend/pkg/auth"
	"github.com/daghlis/gallery-backend/pkg/auth/session"
	"github.com/daghlis/gallery-backend/pkg/config"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
	"github.com/daghlis/gallery-backend/pkg/security"
)

var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8 * 1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "secret",
		Issuer:                 "daghlis-gallery",
		ExpirationMinutes:      30,
		RefreshTokenTTLMinutes: 60,
	}
}

type stubSessionManager struct {
	generated map[string]string
	revoked   []string
	rotateErr error
}

func (s *stubSessionManager) Generate(_ context.Context, accessID, subject string) (string, error) {
	if s.generated == nil {
		s.generated = map[string]string{}
	}
	s.generated[accessID] = subject
	return "refresh-" + accessID, nil
}

func (s *stubSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (session.Issued, error) {
	if s.rotateErr != nil {
		return session.Issued{}, s.rotateErr
	}
	if provided != "refresh-"+oldAccessID {
		return session.Issued{}, session.ErrInvalidRefreshToken
	}
	return session.Issued{AccessID: "rotated", RefreshToken: "refresh-rotated", Subject: s.generated[oldAccessID]}, nil
}

func (s *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func buildTestService(t *testing.T, password string) (Service, *stubSessionManager) {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	mgr := &stubSessionManager{}
	svc, err := NewService(ServiceParams{
		Admin:          config.AdminConfig{Username: "admin", PasswordHash: hash},
		JWTConfig:      testJWTConfig(),
		SessionManager: mgr,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, mgr
}

func TestLoginIssuesAdminToken(t *testing.T) {
	svc, mgr := buildTestService(t, "s3cret-pass")

	resp, err := svc.Login(context.Background(), LoginRequest{Username: " Admin ", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != pkgAuth.RoleAdmin || claims.Subject != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if mgr.generated[claims.ID] != "admin" || resp.RefreshToken != "refresh-"+claims.ID {
		t.Fatalf("refresh session not tied to the token jti")
	}
	if resp.TokenType != "Bearer" || resp.ExpiresIn != 1800 {
		t.Fatalf("unexpected token metadata %+v", resp)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, mgr := buildTestService(t, "s3cret-pass")
	for _, req := range []LoginRequest{
		{Username: "admin", Password: "wrong"},
		{Username: "curator", Password: "s3cret-pass"},
		{Username: "", Password: ""},
	} {
		_, err := svc.Login(context.Background(), req)
		if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			t.Fatalf("expected unauthorized for %+v, got %v", req, err)
		}
	}
	if len(mgr.generated) != 0 {
		t.Fatalf("failed logins must not create sessions")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, mgr := buildTestService(t, "s3cret-pass")
	resp, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(context.Background(), resp.AccessToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(mgr.revoked) != 1 {
		t.Fatalf("expected one revoked session, got %v", mgr.revoked)
	}
	if err := svc.Logout(context.Background(), "garbage"); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for garbage token, got %v", err)
	}
}

func TestRefreshRotates(t *testing.T) {
	svc, mgr := buildTestService(t, "s3cret-pass")
	resp, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), resp.AccessToken, "stolen"); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for wrong refresh token, got %v", err)
	}

	next, err := svc.Refresh(context.Background(), resp.AccessToken, resp.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), next.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.ID != "rotated" || next.RefreshToken != "refresh-rotated" {
		t.Fatalf("unexpected rotation result %+v", next)
	}

	mgr.rotateErr = errors.New("redis down")
	if _, err := svc.Refresh(context.Background(), resp.AccessToken, resp.RefreshToken); !pkgerrors.IsCode(err, pkgerrors.CodeInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestRefreshAcceptsExpiredAccessToken(t *testing.T) {
	hash, _ := security.HashPassword("s3cret-pass", testPasswordConfig)
	mgr := &stubSessionManager{}
	past := time.Now().Add(-2 * time.Hour)
	svc, err := NewService(ServiceParams{
		Admin:          config.AdminConfig{Username: "admin", PasswordHash: hash},
		JWTConfig:      testJWTConfig(),
		SessionManager: mgr,
		Now:            func() time.Time { return past },
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	resp, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken); err == nil {
		t.Fatalf("token minted two hours ago should be expired")
	}
	if _, err := svc.Refresh(context.Background(), resp.AccessToken, resp.RefreshToken); err != nil {
		t.Fatalf("refresh with expired access token: %v", err)
	}
}

func TestNewServiceRequiresHash(t *testing.T) {
	if _, err := NewService(ServiceParams{Admin: config.AdminConfig{Username: "admin"}, SessionManager: &stubSessionManager{}}); err == nil {
		t.Fatalf("expected error without password hash")
	}
}
