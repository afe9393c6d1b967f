package handlers_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/bidpoint/backend/internal/auth"
	"github.com/bidpoint/backend/internal/handlers"
	"github.com/bidpoint/backend/internal/models"
	pkghttp "github.com/bidpoint/backend/pkg/http"
	"github.com/stretchr/testify/assert"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]string
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "success", body: map[string]string{"username": "alice", "password": "pw"}, wantStatus: 200},
		{name: "bad credentials", body: map[string]string{"username": "alice", "password": "x"}, err: models.ErrUnauthorized, wantStatus: 401, wantError: "unauthorized"},
		{name: "not approved", body: map[string]string{"username": "alice", "password": "pw"}, err: models.ErrUserNotApproved, wantStatus: 403, wantError: "forbidden"},
		{name: "missing password", body: map[string]string{"username": "alice"}, wantStatus: 400, wantError: "bad_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotIP string
			svc := &handlers.MockAuthService{
				LoginFunc: func(ctx context.Context, username, password, ip string) (*auth.TokenPair, error) {
					gotIP = ip
					if tt.err != nil {
						return nil, tt.err
					}
					return &auth.TokenPair{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900}, nil
				},
			}
			h := handlers.NewAuthHandler(svc, &pkghttp.IPConfig{})

			req := handlers.NewTestRequest(t, "POST", "/auth/login", tt.body)
			req.RemoteAddr = "198.51.100.7:4321"
			w := httptest.NewRecorder()
			h.Login(w, req)

			if tt.wantError != "" {
				handlers.AssertErrorResponse(t, w, tt.wantStatus, tt.wantError)
				return
			}
			var resp auth.TokenPair
			handlers.AssertJSONResponse(t, w, 200, &resp)
			assert.Equal(t, "a", resp.AccessToken)
			assert.Equal(t, int64(900), resp.ExpiresIn)
			assert.Equal(t, "198.51.100.7", gotIP)
		})
	}
}

func TestRefresh(t *testing.T) {
	svc := &handlers.MockAuthService{
		RefreshFunc: func(ctx context.Context, token string) (*auth.TokenPair, error) {
			if token == "good" {
				return &auth.TokenPair{AccessToken: "a2", RefreshToken: "r2"}, nil
			}
			return nil, models.ErrUnauthorized
		},
	}
	h := handlers.NewAuthHandler(svc, nil)

	w := httptest.NewRecorder()
	h.Refresh(w, handlers.NewTestRequest(t, "POST", "/auth/refresh", map[string]string{"refresh_token": "good"}))
	var resp auth.TokenPair
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "a2", resp.AccessToken)

	w = httptest.NewRecorder()
	h.Refresh(w, handlers.NewTestRequest(t, "POST", "/auth/refresh", map[string]string{"refresh_token": "bad"}))
	handlers.AssertErrorResponse(t, w, 401, "unauthorized")

	w = httptest.NewRecorder()
	h.Refresh(w, handlers.NewTestRequest(t, "POST", "/auth/refresh", map[string]string{}))
	handlers.AssertErrorResponse(t, w, 400, "bad_request")
}
