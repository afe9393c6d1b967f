package handlers

import (
	"context"
	"net/http"

	"github.com/bidpoint/backend/internal/auth"
	pkghttp "github.com/bidpoint/backend/pkg/http"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Login(ctx context.Context, username, password, ip string) (*auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service  AuthService
	ipConfig *pkghttp.IPConfig
}

func NewAuthHandler(service AuthService, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{service: service, ipConfig: ipConfig}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=72"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Login exchanges credentials for a token pair.
//
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	pair, err := h.service.Login(r.Context(), req.Username, req.Password, pkghttp.ExtractClientIP(r, h.ipConfig))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, pair)
}

// Refresh exchanges a refresh token for a new pair.
//
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, pair)
}
