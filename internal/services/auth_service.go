package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/bidpoint/backend/internal/auth"
	"github.com/bidpoint/backend/internal/models"
	pkgauth "github.com/bidpoint/backend/pkg/auth"
	pkglogger "github.com/bidpoint/backend/pkg/logger"
)

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	IssuePair(user *models.User) (*auth.TokenPair, error)
	ValidateToken(tokenString, wantType string) (*models.TokenClaims, error)
}

// dummyHash is compared against when the username is unknown so that
// unknown and known usernames take similar time.
var dummyHash, _ = pkgauth.HashPassword("timing-equalizer-1")

// AuthService handles authentication business logic
type AuthService struct {
	users  UserRepository
	tokens TokenIssuer
	audit  *pkglogger.AuditLogger
	logger *slog.Logger
}

func NewAuthService(users UserRepository, tokens TokenIssuer, audit *pkglogger.AuditLogger, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, audit: audit, logger: logger}
}

// Login verifies the credentials and returns a token pair. Unapproved users
// with correct credentials get ErrUserNotApproved.
func (s *AuthService) Login(ctx context.Context, username, password, ip string) (*auth.TokenPair, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, models.ErrUnauthorized
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Error("failed to get user by username", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		_ = pkgauth.ComparePassword(dummyHash, password)
		s.loginFailed(ctx, username, ip, "invalid_credentials")
		return nil, models.ErrUnauthorized
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.loginFailed(ctx, username, ip, "invalid_credentials")
		return nil, models.ErrUnauthorized
	}

	if !user.Approved {
		s.loginFailed(ctx, username, ip, "not_approved")
		return nil, models.ErrUserNotApproved
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		s.logger.Error("failed to issue tokens", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	s.audit.Log(ctx, pkglogger.AuditEvent{Type: pkglogger.EventLogin, Subject: username, IPAddress: ip, Success: true})
	return pair, nil
}

func (s *AuthService) loginFailed(ctx context.Context, username, ip, reason string) {
	s.logger.Info("login failed", slog.String("reason", reason))
	s.audit.Log(ctx, pkglogger.AuditEvent{
		Type:          pkglogger.EventLogin,
		Subject:       username,
		IPAddress:     ip,
		FailureReason: reason,
	})
}

// Refresh exchanges a refresh token for a new pair. The user is reloaded so
// current roles and approval apply.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	if refreshToken = strings.TrimSpace(refreshToken); refreshToken == "" {
		return nil, models.ErrUnauthorized
	}

	claims, err := s.tokens.ValidateToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		s.logger.Info("refresh rejected", slog.Any("error", err))
		return nil, models.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to get user", slog.String("user_id", claims.UserID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if !user.Approved {
		return nil, models.ErrUserNotApproved
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		s.logger.Error("failed to issue tokens", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return pair, nil
}
