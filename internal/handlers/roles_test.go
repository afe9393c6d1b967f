package handlers_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/bidpoint/backend/internal/handlers"
	"github.com/bidpoint/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCreateRole(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		err        error
		wantStatus int
		wantError  string
	}{
		{name: "created", body: map[string]string{"name": "ROLE_MODERATOR"}, wantStatus: 201},
		{name: "already exists", body: map[string]string{"name": "ROLE_ADMIN"}, err: models.ErrRoleAlreadyExists, wantStatus: 208, wantError: "already_reported"},
		{name: "missing name", body: map[string]string{}, wantStatus: 400, wantError: "bad_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &handlers.MockRoleService{
				CreateRoleFunc: func(ctx context.Context, actor, name string) (*models.Role, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &models.Role{ID: "r3", Name: name}, nil
				},
			}
			h := handlers.NewRoleHandler(svc)

			w := httptest.NewRecorder()
			h.CreateRole(w, handlers.NewTestRequest(t, "POST", "/roles", tt.body))

			if tt.wantError != "" {
				handlers.AssertErrorResponse(t, w, tt.wantStatus, tt.wantError)
				return
			}
			var resp handlers.RoleResponse
			handlers.AssertJSONResponse(t, w, tt.wantStatus, &resp)
			assert.Equal(t, "ROLE_MODERATOR", resp.Name)
		})
	}
}

func TestListRoles(t *testing.T) {
	svc := &handlers.MockRoleService{
		ListRolesFunc: func(ctx context.Context) ([]*models.Role, error) {
			return []*models.Role{{ID: "1", Name: models.RoleAdmin}, {ID: "2", Name: models.RoleUser}}, nil
		},
	}
	h := handlers.NewRoleHandler(svc)

	w := httptest.NewRecorder()
	h.ListRoles(w, httptest.NewRequest("GET", "/roles", nil))

	var resp []handlers.RoleResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, models.RoleAdmin, resp[0].Name)
}
