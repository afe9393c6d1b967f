package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/bidpoint/backend/internal/auth"
	"github.com/bidpoint/backend/internal/models"
	"github.com/bidpoint/backend/internal/search"
	pkglogger "github.com/bidpoint/backend/pkg/logger"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc       func(ctx context.Context, id string) (*models.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
	ListFunc          func(ctx context.Context) ([]*models.User, error)
	CreateFunc        func(ctx context.Context, user *models.User) (*models.User, error)
	SetApprovedFunc   func(ctx context.Context, id string, approved bool) error
	AddRoleFunc       func(ctx context.Context, userID, roleID string) error
	RemoveRoleFunc    func(ctx context.Context, userID, roleID string) error
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	if m.SetApprovedFunc != nil {
		return m.SetApprovedFunc(ctx, id, approved)
	}
	return nil
}

func (m *MockUserRepository) AddRole(ctx context.Context, userID, roleID string) error {
	if m.AddRoleFunc != nil {
		return m.AddRoleFunc(ctx, userID, roleID)
	}
	return nil
}

func (m *MockUserRepository) RemoveRole(ctx context.Context, userID, roleID string) error {
	if m.RemoveRoleFunc != nil {
		return m.RemoveRoleFunc(ctx, userID, roleID)
	}
	return nil
}

// MockRoleRepository implements RoleRepository for testing
type MockRoleRepository struct {
	GetByNameFunc func(ctx context.Context, name string) (*models.Role, error)
	CreateFunc    func(ctx context.Context, name string) (*models.Role, error)
	ListFunc      func(ctx context.Context) ([]*models.Role, error)
}

func (m *MockRoleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	return nil, models.ErrNotFound
}

func (m *MockRoleRepository) Create(ctx context.Context, name string) (*models.Role, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, name)
	}
	return nil, models.ErrInternalServer
}

func (m *MockRoleRepository) List(ctx context.Context) ([]*models.Role, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Role{}, nil
}

// MockItemRepository implements ItemRepository for testing
type MockItemRepository struct {
	GetByIDFunc        func(ctx context.Context, id string) (*models.Item, error)
	CreateFunc         func(ctx context.Context, item *models.Item) (*models.Item, error)
	ListCategoriesFunc func(ctx context.Context) ([]models.Category, error)
}

func (m *MockItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockItemRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, item)
	}
	return nil, models.ErrInternalServer
}

func (m *MockItemRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx)
	}
	return []models.Category{}, nil
}

// MockItemSearcher implements ItemSearcher for testing
type MockItemSearcher struct {
	SearchFunc func(ctx context.Context, c search.Criteria, page search.PageRequest) (*search.Result, error)
}

func (m *MockItemSearcher) Search(ctx context.Context, c search.Criteria, page search.PageRequest) (*search.Result, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, c, page)
	}
	return &search.Result{Items: []*models.Item{}, Page: page.Page, Size: page.Size}, nil
}

// MockTokenIssuer implements TokenIssuer for testing
type MockTokenIssuer struct {
	IssuePairFunc     func(user *models.User) (*auth.TokenPair, error)
	ValidateTokenFunc func(tokenString, wantType string) (*models.TokenClaims, error)
}

func (m *MockTokenIssuer) IssuePair(user *models.User) (*auth.TokenPair, error) {
	if m.IssuePairFunc != nil {
		return m.IssuePairFunc(user)
	}
	return &auth.TokenPair{AccessToken: "access-" + user.ID, RefreshToken: "refresh-" + user.ID}, nil
}

func (m *MockTokenIssuer) ValidateToken(tokenString, wantType string) (*models.TokenClaims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(tokenString, wantType)
	}
	return nil, models.ErrUnauthorized
}

// NewTestUser creates an approved test user holding ROLE_USER.
func NewTestUser(id, username string) *models.User {
	return &models.User{
		ID:       id,
		Username: username,
		Email:    username + "@example.com",
		Name:     username,
		Approved: true,
		Roles:    []string{models.RoleUser},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func discardAudit() *pkglogger.AuditLogger {
	return pkglogger.NewAuditLogger(discardLogger())
}
