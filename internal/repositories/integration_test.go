//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/bidpoint/backend/internal/database"
	"github.com/bidpoint/backend/internal/models"
	"github.com/bidpoint/backend/internal/search"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDatabase starts a PostgreSQL container and applies migrations.
func setupTestDatabase(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("bidpoint"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	db := database.New(pool, nil)
	require.NoError(t, db.Migrate(ctx))
	return db
}

func seedUser(t *testing.T, repo *UserRepository, username string) *models.User {
	t.Helper()
	user, err := repo.Create(context.Background(), &models.User{
		Username:     username,
		Email:        username + "@example.com",
		Name:         username,
		PasswordHash: "hash",
		Approved:     true,
		Roles:        []string{models.RoleUser, "ROLE_UNKNOWN"},
	})
	require.NoError(t, err)
	return user
}

func seedItem(t *testing.T, repo *ItemRepository, owner *models.User, name string, active bool, ends time.Time, categories ...string) *models.Item {
	t.Helper()
	cs := make([]models.Category, len(categories))
	for i, c := range categories {
		cs[i] = models.Category{Name: c}
	}
	item, err := repo.Create(context.Background(), &models.Item{
		Name:          name,
		Description:   name + " description",
		StartingPrice: 10,
		Active:        active,
		DateEnds:      ends,
		OwnerID:       owner.ID,
		Categories:    cs,
	})
	require.NoError(t, err)
	return item
}

func TestIntegration_UserRoles(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	roles := NewRoleRepository(db)

	alice := seedUser(t, users, "alice")
	assert.Equal(t, []string{models.RoleUser}, alice.Roles)

	_, err := users.Create(ctx, &models.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, models.ErrConflict)

	admin, err := roles.GetByName(ctx, models.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, users.AddRole(ctx, alice.ID, admin.ID))
	require.NoError(t, users.AddRole(ctx, alice.ID, admin.ID))

	reloaded, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleAdmin, models.RoleUser}, reloaded.Roles)

	require.NoError(t, users.RemoveRole(ctx, alice.ID, admin.ID))
	reloaded, err = users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleUser}, reloaded.Roles)

	_, err = roles.Create(ctx, models.RoleUser)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestIntegration_ItemSearch(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	items := NewItemRepository(db)

	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")
	now := time.Now()

	a := seedItem(t, items, alice, "Blue Vase", true, now.Add(48*time.Hour), "Art")
	b := seedItem(t, items, bob, "Red Vase", false, now.Add(-48*time.Hour), "Art", "Home")
	c := seedItem(t, items, alice, "Chair", true, now.Add(-time.Hour), "Home")

	searcher := search.NewSearcher(items)
	page := search.PageRequest{Page: 0, Size: 10, Sort: []search.SortOrder{{Field: search.FieldName, Direction: search.Asc}}}

	result, err := searcher.Search(ctx, search.Criteria{Categories: []string{"Art"}, SearchTerm: "vase", Active: search.FilterTrue}, page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	require.Len(t, result.Items, 1)
	assert.Equal(t, a.ID, result.Items[0].ID)
	assert.Equal(t, "alice", result.Items[0].OwnerUsername)

	result, err = searcher.Search(ctx, search.Criteria{IsEnded: search.FilterTrue}, page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)

	result, err = searcher.Search(ctx, search.Criteria{Categories: []string{"Art", "Home"}}, page)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, b.ID, result.Items[0].ID)
	assert.Len(t, result.Items[0].Categories, 2)

	result, err = searcher.Search(ctx, search.Criteria{Username: "alice"}, page)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, a.ID, result.Items[0].ID)
	assert.Equal(t, c.ID, result.Items[1].ID)

	result, err = searcher.Search(ctx, search.Criteria{}, search.PageRequest{Page: 3, Size: 2})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, int64(3), result.Total)

	categories, err := items.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}
