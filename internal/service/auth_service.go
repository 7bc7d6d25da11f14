package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/phishsim/internal/auth"
	"github.com/spec-kit/phishsim/internal/config"
	"github.com/spec-kit/phishsim/internal/domain"
	"github.com/spec-kit/phishsim/internal/repository"
	apperrors "github.com/spec-kit/phishsim/pkg/util"
)

// AuthService handles admin login for the control API.
type AuthService struct {
	admins repository.AdminRepository
	tokens *auth.TokenManager
	cfg    config.AuthConfig
	logger *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, admins repository.AdminRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		admins: admins,
		tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		cfg:    cfg,
		logger: logger,
	}
}

// TokenManager exposes the shared token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login verifies admin credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Admin, string, time.Time, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}

	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(admin.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return admin, token, expiresAt, nil
}

// SeedAdmin creates the initial operator account when none exists.
func (s *AuthService) SeedAdmin(ctx context.Context) error {
	count, err := s.admins.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if s.cfg.SeedAdminPassword == "" {
		s.logger.Warn("no admin accounts and AUTH_SEED_ADMIN_PASSWORD unset; admin API unusable")
		return nil
	}

	hash, err := auth.HashPassword(s.cfg.SeedAdminPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.Admin{Email: s.cfg.SeedAdminEmail, PasswordHash: hash}
	if err := s.admins.Create(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("seeded admin account", zap.String("email", admin.Email))
	return nil
}
