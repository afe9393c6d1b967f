package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bidpoint/backend/internal/models"
	"github.com/bidpoint/backend/pkg/auth"
	pkglogger "github.com/bidpoint/backend/pkg/logger"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	SetApproved(ctx context.Context, id string, approved bool) error
	AddRole(ctx context.Context, userID, roleID string) error
	RemoveRole(ctx context.Context, userID, roleID string) error
}

// RoleRepository defines the interface for role data access
type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*models.Role, error)
	Create(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context) ([]*models.Role, error)
}

// UserService handles user accounts, approval and role membership
type UserService struct {
	users  UserRepository
	roles  RoleRepository
	audit  *pkglogger.AuditLogger
	logger *slog.Logger
}

func NewUserService(users UserRepository, roles RoleRepository, audit *pkglogger.AuditLogger, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		roles:  roles,
		audit:  audit,
		logger: logger,
	}
}

// CreateUser hashes password and stores the user with the named roles.
// Role names that do not exist are ignored.
func (s *UserService) CreateUser(ctx context.Context, user *models.User, password string, roleNames []string) (*models.User, error) {
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	if err := auth.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrBadRequest, err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	user.PasswordHash = hash
	user.Roles = roleNames

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Info("username or email already taken", slog.String("username", user.Username))
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user created", slog.String("user_id", created.ID), slog.Any("roles", created.Roles))
	s.audit.Log(ctx, pkglogger.AuditEvent{
		Type:     pkglogger.EventRegister,
		Subject:  created.Username,
		Success:  true,
		Metadata: map[string]string{"email": pkglogger.MaskEmail(created.Email)},
	})
	return created, nil
}

func (s *UserService) GetUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("username", username), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return user, nil
}

func (s *UserService) GetUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return users, nil
}

// ApproveUser marks the user as approved. Approving twice is a no-op.
func (s *UserService) ApproveUser(ctx context.Context, actor, username string) error {
	user, err := s.GetUser(ctx, username)
	if err != nil {
		return err
	}

	if err := s.users.SetApproved(ctx, user.ID, true); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to approve user", slog.String("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.audit.Log(ctx, pkglogger.AuditEvent{Type: pkglogger.EventApprove, Actor: actor, Subject: username, Success: true})
	return nil
}

func (s *UserService) IsApproved(ctx context.Context, username string) (bool, error) {
	user, err := s.GetUser(ctx, username)
	if err != nil {
		return false, err
	}
	return user.Approved, nil
}

// AddRoleToUser grants the role. Granting a held role is a no-op.
func (s *UserService) AddRoleToUser(ctx context.Context, actor, username, roleName string) error {
	user, role, err := s.userAndRole(ctx, username, roleName)
	if err != nil {
		return err
	}

	if err := s.users.AddRole(ctx, user.ID, role.ID); err != nil {
		s.logger.Error("failed to add role", slog.String("user_id", user.ID), slog.String("role", role.Name), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.audit.Log(ctx, pkglogger.AuditEvent{
		Type:     pkglogger.EventRoleGrant,
		Actor:    actor,
		Subject:  username,
		Success:  true,
		Metadata: map[string]string{"role": role.Name},
	})
	return nil
}

// RemoveRoleFromUser revokes the role. Revoking a role the user lacks is a no-op.
func (s *UserService) RemoveRoleFromUser(ctx context.Context, actor, username, roleName string) error {
	user, role, err := s.userAndRole(ctx, username, roleName)
	if err != nil {
		return err
	}

	if err := s.users.RemoveRole(ctx, user.ID, role.ID); err != nil {
		s.logger.Error("failed to remove role", slog.String("user_id", user.ID), slog.String("role", role.Name), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.audit.Log(ctx, pkglogger.AuditEvent{
		Type:     pkglogger.EventRoleRevoke,
		Actor:    actor,
		Subject:  username,
		Success:  true,
		Metadata: map[string]string{"role": role.Name},
	})
	return nil
}

func (s *UserService) userAndRole(ctx context.Context, username, roleName string) (*models.User, *models.Role, error) {
	user, err := s.GetUser(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	role, err := s.roles.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil, models.ErrRoleNotFound
		}
		s.logger.Error("failed to get role", slog.String("role", roleName), slog.Any("error", err))
		return nil, nil, models.ErrInternalServer
	}

	return user, role, nil
}

// EnsureAdmin creates an approved administrator if username is free, and
// otherwise makes sure the existing account is approved and holds ROLE_ADMIN.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	existing, err := s.GetUser(ctx, username)
	switch {
	case errors.Is(err, models.ErrNotFound):
		if email == "" {
			email = username + "@localhost"
		}
		_, err := s.CreateUser(ctx, &models.User{
			Username: username,
			Email:    email,
			Name:     username,
			Approved: true,
		}, password, []string{models.RoleAdmin, models.RoleUser})
		return err
	case err != nil:
		return err
	}

	if !existing.Approved {
		if err := s.ApproveUser(ctx, "system", username); err != nil {
			return err
		}
	}
	if !existing.HasRole(models.RoleAdmin) {
		return s.AddRoleToUser(ctx, "system", username, models.RoleAdmin)
	}
	return nil
}
