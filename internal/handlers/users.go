package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bidpoint/backend/internal/auth"
	"github.com/bidpoint/backend/internal/models"
	pkghttp "github.com/bidpoint/backend/pkg/http"
	"github.com/go-chi/chi/v5"
)

// UserService defines the interface for user business logic
type UserService interface {
	CreateUser(ctx context.Context, user *models.User, password string, roleNames []string) (*models.User, error)
	GetUser(ctx context.Context, username string) (*models.User, error)
	GetUsers(ctx context.Context) ([]*models.User, error)
	ApproveUser(ctx context.Context, actor, username string) error
	IsApproved(ctx context.Context, username string) (bool, error)
	AddRoleToUser(ctx context.Context, actor, username, roleName string) error
	RemoveRoleFromUser(ctx context.Context, actor, username, roleName string) error
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	service UserService
}

func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterUserRequest is the public sign-up body.
type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required"`
}

// UserResponse represents a user in the HTTP response
type UserResponse struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Approved  bool     `json:"approved"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

type ListUsersResponse struct {
	Users []*UserResponse `json:"users"`
	Total int             `json:"total"`
}

type ApprovedResponse struct {
	Username string `json:"username"`
	Approved bool   `json:"approved"`
}

func userModelToResponse(user *models.User) *UserResponse {
	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Name:      user.Name,
		Approved:  user.Approved,
		Roles:     roles,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

// Register creates an unapproved account holding ROLE_USER.
//
// @Router /users [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user, err := h.service.CreateUser(r.Context(), &models.User{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
	}, req.Password, []string{models.RoleUser})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, userModelToResponse(user))
}

// GetUser returns the named user.
//
// @Router /users/{username} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}

// ListUsers returns every user ordered by username.
//
// @Router /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := ListUsersResponse{Users: make([]*UserResponse, 0, len(users)), Total: len(users)}
	for _, u := range users {
		resp.Users = append(resp.Users, userModelToResponse(u))
	}
	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// IsApproved reports the approval state of the named user.
//
// @Router /users/{username}/approved [get]
func (h *UserHandler) IsApproved(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	approved, err := h.service.IsApproved(r.Context(), username)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, ApprovedResponse{Username: username, Approved: approved})
}

// Approve marks the named user approved.
//
// @Router /users/{username}/approve [put]
func (h *UserHandler) Approve(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ApproveUser(r.Context(), actorName(r), chi.URLParam(r, "username")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddRole grants {role} to {username}.
//
// @Router /users/{username}/roles/{role} [post]
func (h *UserHandler) AddRole(w http.ResponseWriter, r *http.Request) {
	err := h.service.AddRoleToUser(r.Context(), actorName(r), chi.URLParam(r, "username"), chi.URLParam(r, "role"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveRole revokes {role} from {username}.
//
// @Router /users/{username}/roles/{role} [delete]
func (h *UserHandler) RemoveRole(w http.ResponseWriter, r *http.Request) {
	err := h.service.RemoveRoleFromUser(r.Context(), actorName(r), chi.URLParam(r, "username"), chi.URLParam(r, "role"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func actorName(r *http.Request) string {
	if claims := auth.GetUserFromContext(r); claims != nil {
		return claims.Username
	}
	return ""
}
