package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/daghlis/gallery-backend/pkg/auth"
	"github.com/daghlis/gallery-backend/pkg/auth/session"
	"github.com/daghlis/gallery-backend/pkg/config"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
	"github.com/daghlis/gallery-backend/pkg/logger"
	"github.com/daghlis/gallery-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the admin auth controllers.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	Logout(ctx context.Context, accessToken string) error
	Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenResponse, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID, subject string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (session.Issued, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Admin          config.AdminConfig
	JWTConfig      config.JWTConfig
	SessionManager sessionManager
	Logger         *logger.Logger
	Now            func() time.Time
}

type service struct {
	admin   config.AdminConfig
	jwtCfg  config.JWTConfig
	session sessionManager
	logg    *logger.Logger
	now     func() time.Time
}

// NewService constructs the admin auth service. The admin account is the
// single configured username plus its argon2id hash.
func NewService(params ServiceParams) (Service, error) {
	if strings.TrimSpace(params.Admin.Username) == "" {
		return nil, fmt.Errorf("admin username is required")
	}
	if strings.TrimSpace(params.Admin.PasswordHash) == "" {
		return nil, fmt.Errorf("admin password hash is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		admin:   params.Admin,
		jwtCfg:  params.JWTConfig,
		session: params.SessionManager,
		logg:    params.Logger,
		now:     params.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	username := strings.TrimSpace(req.Username)
	usernameOK := security.ConstantTimeEqual(strings.ToLower(username), strings.ToLower(s.admin.Username))

	// The hash is verified even for unknown usernames so both paths cost the same.
	valid, err := security.VerifyPassword(req.Password, s.admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !usernameOK || !valid {
		s.logg.Warn(s.logg.WithField(ctx, "username", username), "auth.login_failed")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	accessID := session.NewAccessID()
	refreshToken, err := s.session.Generate(ctx, accessID, s.admin.Username)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}
	resp, err := s.issue(accessID, s.admin.Username, refreshToken)
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithAdminID(ctx, s.admin.Username), "auth.login")
	return resp, nil
}

// Logout revokes the refresh session behind the access token. Expired
// tokens are accepted so a stale client can still sign out.
func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	if err := s.session.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	s.logg.Info(s.logg.WithAdminID(ctx, claims.Subject), "auth.logout")
	return nil
}

// Refresh rotates the refresh token and mints a new access token.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*TokenResponse, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	issued, err := s.session.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}
	return s.issue(issued.AccessID, issued.Subject, issued.RefreshToken)
}

func (s *service) issue(accessID, subject, refreshToken string) (*TokenResponse, error) {
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgAuth.AccessTokenPayload{
		Subject: subject,
		Role:    pkgAuth.RoleAdmin,
		JTI:     accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.jwtCfg.AccessTokenTTL().Seconds()),
	}, nil
}
