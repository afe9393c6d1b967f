package handlers

import (
	"context"
	"net/http"

	"github.com/bidpoint/backend/internal/models"
	pkghttp "github.com/bidpoint/backend/pkg/http"
)

type RoleService interface {
	CreateRole(ctx context.Context, actor, name string) (*models.Role, error)
	ListRoles(ctx context.Context) ([]*models.Role, error)
}

type RoleHandler struct {
	service RoleService
}

func NewRoleHandler(service RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

type CreateRoleRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

type RoleResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateRole answers 201 with the new role, or 208 when it already exists.
func (h *RoleHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req CreateRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	role, err := h.service.CreateRole(r.Context(), actorName(r), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, RoleResponse{ID: role.ID, Name: role.Name})
}

func (h *RoleHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		resp = append(resp, RoleResponse{ID: role.ID, Name: role.Name})
	}
	pkghttp.WriteJSON(w, http.StatusOK, resp)
}
