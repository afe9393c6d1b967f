package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/bidpoint/backend/internal/models"
	pkglogger "github.com/bidpoint/backend/pkg/logger"
)

type RoleService struct {
	roles  RoleRepository
	audit  *pkglogger.AuditLogger
	logger *slog.Logger
}

func NewRoleService(roles RoleRepository, audit *pkglogger.AuditLogger, logger *slog.Logger) *RoleService {
	return &RoleService{roles: roles, audit: audit, logger: logger}
}

// CreateRole stores a new role. Names are upper-cased.
func (s *RoleService) CreateRole(ctx context.Context, actor, name string) (*models.Role, error) {
	name = strings.ToUpper(strings.TrimSpace(name))

	role, err := s.roles.Create(ctx, name)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrRoleAlreadyExists
		}
		s.logger.Error("failed to create role", slog.String("role", name), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.audit.Log(ctx, pkglogger.AuditEvent{Type: pkglogger.EventRoleCreate, Actor: actor, Subject: name, Success: true})
	return role, nil
}

func (s *RoleService) ListRoles(ctx context.Context) ([]*models.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		s.logger.Error("failed to list roles", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return roles, nil
}
