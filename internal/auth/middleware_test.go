package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bidpoint/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUserRepo struct {
	GetByIDFunc func(ctx context.Context, id string) (*models.User, error)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func okHandler(t *testing.T, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if claims := GetUserFromContext(r); claims != nil {
			w.Header().Set("X-User", claims.Username)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Minute, time.Hour)
	pair, err := tm.IssuePair(testUser())
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCalled bool
	}{
		{"missing header", "", http.StatusUnauthorized, false},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, false},
		{"empty token", "Bearer ", http.StatusUnauthorized, false},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized, false},
		{"refresh token rejected", "Bearer " + pair.RefreshToken, http.StatusUnauthorized, false},
		{"valid access token", "Bearer " + pair.AccessToken, http.StatusOK, true},
		{"lowercase scheme", "bearer " + pair.AccessToken, http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := AuthMiddleware(tm)(okHandler(t, &called))

			req := httptest.NewRequest(http.MethodGet, "/items", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantCalled {
				assert.Equal(t, "alice", w.Header().Get("X-User"))
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	claims := &models.TokenClaims{UserID: "u1", Username: "alice"}

	tests := []struct {
		name       string
		claims     *models.TokenClaims
		user       *models.User
		repoErr    error
		wantStatus int
	}{
		{name: "no claims", wantStatus: http.StatusUnauthorized},
		{name: "user gone", claims: claims, repoErr: models.ErrNotFound, wantStatus: http.StatusUnauthorized},
		{name: "repo failure", claims: claims, repoErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
		{name: "missing role", claims: claims, user: &models.User{ID: "u1", Roles: []string{models.RoleUser}}, wantStatus: http.StatusForbidden},
		{name: "has role", claims: claims, user: &models.User{ID: "u1", Roles: []string{models.RoleUser, models.RoleAdmin}}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepo{GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
				assert.Equal(t, "u1", id)
				return tt.user, tt.repoErr
			}}

			called := false
			h := RequireRole(repo, models.RoleAdmin)(okHandler(t, &called))

			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tt.claims != nil {
				req = req.WithContext(WithClaims(req.Context(), tt.claims))
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, called)
		})
	}
}
