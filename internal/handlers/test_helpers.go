package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bidpoint/backend/internal/auth"
	"github.com/bidpoint/backend/internal/models"
	"github.com/bidpoint/backend/internal/search"
	pkghttp "github.com/bidpoint/backend/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext adds access-token claims to the request context
func WithAuthContext(req *http.Request, userID, username string) *http.Request {
	return req.WithContext(auth.WithClaims(req.Context(), &models.TokenClaims{
		Type:     auth.TokenTypeAccess,
		UserID:   userID,
		Username: username,
	}))
}

// WithURLParams sets chi route parameters on the request
func WithURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	if target != nil {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), target), "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message)
}

// MockUserService implements UserService for testing
type MockUserService struct {
	CreateUserFunc         func(ctx context.Context, user *models.User, password string, roleNames []string) (*models.User, error)
	GetUserFunc            func(ctx context.Context, username string) (*models.User, error)
	GetUsersFunc           func(ctx context.Context) ([]*models.User, error)
	ApproveUserFunc        func(ctx context.Context, actor, username string) error
	IsApprovedFunc         func(ctx context.Context, username string) (bool, error)
	AddRoleToUserFunc      func(ctx context.Context, actor, username, roleName string) error
	RemoveRoleFromUserFunc func(ctx context.Context, actor, username, roleName string) error
}

func (m *MockUserService) CreateUser(ctx context.Context, user *models.User, password string, roleNames []string) (*models.User, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, user, password, roleNames)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserService) GetUser(ctx context.Context, username string) (*models.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, username)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserService) GetUsers(ctx context.Context) ([]*models.User, error) {
	if m.GetUsersFunc != nil {
		return m.GetUsersFunc(ctx)
	}
	return []*models.User{}, nil
}

func (m *MockUserService) ApproveUser(ctx context.Context, actor, username string) error {
	if m.ApproveUserFunc != nil {
		return m.ApproveUserFunc(ctx, actor, username)
	}
	return nil
}

func (m *MockUserService) IsApproved(ctx context.Context, username string) (bool, error) {
	if m.IsApprovedFunc != nil {
		return m.IsApprovedFunc(ctx, username)
	}
	return false, models.ErrNotFound
}

func (m *MockUserService) AddRoleToUser(ctx context.Context, actor, username, roleName string) error {
	if m.AddRoleToUserFunc != nil {
		return m.AddRoleToUserFunc(ctx, actor, username, roleName)
	}
	return nil
}

func (m *MockUserService) RemoveRoleFromUser(ctx context.Context, actor, username, roleName string) error {
	if m.RemoveRoleFromUserFunc != nil {
		return m.RemoveRoleFromUserFunc(ctx, actor, username, roleName)
	}
	return nil
}

// MockRoleService implements RoleService for testing
type MockRoleService struct {
	CreateRoleFunc func(ctx context.Context, actor, name string) (*models.Role, error)
	ListRolesFunc  func(ctx context.Context) ([]*models.Role, error)
}

func (m *MockRoleService) CreateRole(ctx context.Context, actor, name string) (*models.Role, error) {
	if m.CreateRoleFunc != nil {
		return m.CreateRoleFunc(ctx, actor, name)
	}
	return nil, models.ErrInternalServer
}

func (m *MockRoleService) ListRoles(ctx context.Context) ([]*models.Role, error) {
	if m.ListRolesFunc != nil {
		return m.ListRolesFunc(ctx)
	}
	return []*models.Role{}, nil
}

// MockItemService implements ItemService for testing
type MockItemService struct {
	CreateItemFunc     func(ctx context.Context, ownerUsername string, item *models.Item, categoryNames []string) (*models.Item, error)
	GetItemFunc        func(ctx context.Context, id string) (*models.Item, error)
	ListCategoriesFunc func(ctx context.Context) ([]models.Category, error)
	SearchItemsFunc    func(ctx context.Context, c search.Criteria, page search.PageRequest) (*search.Result, error)
}

func (m *MockItemService) CreateItem(ctx context.Context, ownerUsername string, item *models.Item, categoryNames []string) (*models.Item, error) {
	if m.CreateItemFunc != nil {
		return m.CreateItemFunc(ctx, ownerUsername, item, categoryNames)
	}
	return nil, models.ErrInternalServer
}

func (m *MockItemService) GetItem(ctx context.Context, id string) (*models.Item, error) {
	if m.GetItemFunc != nil {
		return m.GetItemFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockItemService) ListCategories(ctx context.Context) ([]models.Category, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx)
	}
	return []models.Category{}, nil
}

func (m *MockItemService) SearchItems(ctx context.Context, c search.Criteria, page search.PageRequest) (*search.Result, error) {
	if m.SearchItemsFunc != nil {
		return m.SearchItemsFunc(ctx, c, page)
	}
	return &search.Result{Items: []*models.Item{}, Page: page.Page, Size: page.Size}, nil
}

// MockAuthService implements AuthService for testing
type MockAuthService struct {
	LoginFunc   func(ctx context.Context, username, password, ip string) (*auth.TokenPair, error)
	RefreshFunc func(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
}

func (m *MockAuthService) Login(ctx context.Context, username, password, ip string) (*auth.TokenPair, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password, ip)
	}
	return nil, models.ErrUnauthorized
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return nil, models.ErrUnauthorized
}
