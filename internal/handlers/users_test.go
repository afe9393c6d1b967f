package handlers_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bidpoint/backend/internal/handlers"
	"github.com/bidpoint/backend/internal/models"
	pkgauth "github.com/bidpoint/backend/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	var gotRoles []string
	var gotPassword string
	svc := &handlers.MockUserService{
		CreateUserFunc: func(ctx context.Context, user *models.User, password string, roles []string) (*models.User, error) {
			gotRoles, gotPassword = roles, password
			created := *user
			created.ID = "u1"
			created.PasswordHash = "hash"
			created.Roles = roles
			created.CreatedAt = time.Now()
			return &created, nil
		},
	}
	h := handlers.NewUserHandler(svc)

	req := handlers.NewTestRequest(t, "POST", "/users", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"name":     "Alice",
		"password": "password123",
	})
	w := httptest.NewRecorder()
	h.Register(w, req)

	var resp handlers.UserResponse
	handlers.AssertJSONResponse(t, w, 201, &resp)
	assert.Equal(t, "u1", resp.ID)
	assert.False(t, resp.Approved)
	assert.Equal(t, []string{models.RoleUser}, gotRoles)
	assert.Equal(t, "password123", gotPassword)
	assert.NotContains(t, w.Body.String(), "hash")
}

func TestRegister_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]string
		svcErr     error
		wantStatus int
		wantError  string
	}{
		{"bad email", map[string]string{"username": "alice", "email": "nope", "name": "A", "password": "password123"}, nil, 400, "bad_request"},
		{"short username", map[string]string{"username": "al", "email": "a@b.co", "name": "A", "password": "password123"}, nil, 400, "bad_request"},
		{"username with symbols", map[string]string{"username": "al ice", "email": "a@b.co", "name": "A", "password": "password123"}, nil, 400, "bad_request"},
		{"weak password", map[string]string{"username": "alice", "email": "a@b.co", "name": "A", "password": "short"}, pkgauth.ErrWeakPassword, 400, "bad_request"},
		{"duplicate", map[string]string{"username": "alice", "email": "a@b.co", "name": "A", "password": "password123"}, models.ErrConflict, 409, "conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &handlers.MockUserService{
				CreateUserFunc: func(ctx context.Context, user *models.User, password string, roles []string) (*models.User, error) {
					return nil, tt.svcErr
				},
			}
			h := handlers.NewUserHandler(svc)

			w := httptest.NewRecorder()
			h.Register(w, handlers.NewTestRequest(t, "POST", "/users", tt.body))
			handlers.AssertErrorResponse(t, w, tt.wantStatus, tt.wantError)
		})
	}
}

func TestGetUser(t *testing.T) {
	svc := &handlers.MockUserService{
		GetUserFunc: func(ctx context.Context, username string) (*models.User, error) {
			if username == "alice" {
				return &models.User{ID: "u1", Username: "alice", Roles: nil}, nil
			}
			return nil, models.ErrNotFound
		},
	}
	h := handlers.NewUserHandler(svc)

	req := handlers.WithURLParams(httptest.NewRequest("GET", "/users/alice", nil), map[string]string{"username": "alice"})
	w := httptest.NewRecorder()
	h.GetUser(w, req)

	var resp handlers.UserResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "alice", resp.Username)
	assert.NotNil(t, resp.Roles)

	req = handlers.WithURLParams(httptest.NewRequest("GET", "/users/bob", nil), map[string]string{"username": "bob"})
	w = httptest.NewRecorder()
	h.GetUser(w, req)
	handlers.AssertErrorResponse(t, w, 404, "not_found")
}

func TestListUsers(t *testing.T) {
	svc := &handlers.MockUserService{
		GetUsersFunc: func(ctx context.Context) ([]*models.User, error) {
			return []*models.User{{Username: "alice"}, {Username: "bob"}}, nil
		},
	}
	h := handlers.NewUserHandler(svc)

	w := httptest.NewRecorder()
	h.ListUsers(w, httptest.NewRequest("GET", "/users", nil))

	var resp handlers.ListUsersResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "bob", resp.Users[1].Username)
}

func TestIsApproved(t *testing.T) {
	svc := &handlers.MockUserService{
		IsApprovedFunc: func(ctx context.Context, username string) (bool, error) {
			return username == "alice", nil
		},
	}
	h := handlers.NewUserHandler(svc)

	req := handlers.WithURLParams(httptest.NewRequest("GET", "/users/alice/approved", nil), map[string]string{"username": "alice"})
	w := httptest.NewRecorder()
	h.IsApproved(w, req)

	var resp handlers.ApprovedResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.True(t, resp.Approved)
}

func TestApprove(t *testing.T) {
	var actor, subject string
	svc := &handlers.MockUserService{
		ApproveUserFunc: func(ctx context.Context, a, u string) error {
			actor, subject = a, u
			return nil
		},
	}
	h := handlers.NewUserHandler(svc)

	req := httptest.NewRequest("PUT", "/users/bob/approve", nil)
	req = handlers.WithAuthContext(req, "admin-id", "root")
	req = handlers.WithURLParams(req, map[string]string{"username": "bob"})
	w := httptest.NewRecorder()
	h.Approve(w, req)

	assert.Equal(t, 204, w.Code)
	assert.Equal(t, "root", actor)
	assert.Equal(t, "bob", subject)
}

func TestRoleMembership(t *testing.T) {
	tests := []struct {
		name       string
		remove     bool
		err        error
		wantStatus int
	}{
		{name: "grant", wantStatus: 204},
		{name: "revoke", remove: true, wantStatus: 204},
		{name: "unknown role", err: models.ErrRoleNotFound, wantStatus: 400},
		{name: "unknown user", remove: true, err: models.ErrNotFound, wantStatus: 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			record := func(ctx context.Context, actor, username, role string) error {
				got = []string{actor, username, role}
				return tt.err
			}
			h := handlers.NewUserHandler(&handlers.MockUserService{
				AddRoleToUserFunc:      record,
				RemoveRoleFromUserFunc: record,
			})

			req := httptest.NewRequest("POST", "/users/bob/roles/ROLE_ADMIN", nil)
			req = handlers.WithAuthContext(req, "admin-id", "root")
			req = handlers.WithURLParams(req, map[string]string{"username": "bob", "role": "ROLE_ADMIN"})
			w := httptest.NewRecorder()
			if tt.remove {
				h.RemoveRole(w, req)
			} else {
				h.AddRole(w, req)
			}

			require.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, []string{"root", "bob", "ROLE_ADMIN"}, got)
		})
	}
}
