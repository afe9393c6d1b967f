package repositories

import (
	"context"
	"fmt"

	"github.com/bidpoint/backend/internal/database"
	"github.com/bidpoint/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RoleRepository handles role data access
type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(db *database.DB) *RoleRepository {
	return &RoleRepository{pool: db.Pool}
}

func scanRoleRow(row rowScanner) (*models.Role, error) {
	var role models.Role
	if err := row.Scan(&role.ID, &role.Name, &role.CreatedAt); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &role, nil
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	return scanRoleRow(r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM roles WHERE name = $1`, name))
}

// Create inserts a role. A duplicate name yields models.ErrConflict.
func (r *RoleRepository) Create(ctx context.Context, name string) (*models.Role, error) {
	return scanRoleRow(r.pool.QueryRow(ctx, `
		INSERT INTO roles (id, name) VALUES ($1, $2)
		RETURNING id, name, created_at
	`, uuid.New().String(), name))
}

func (r *RoleRepository) List(ctx context.Context) ([]*models.Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	roles := make([]*models.Role, 0)
	for rows.Next() {
		role, err := scanRoleRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role rows: %w", err)
	}

	return roles, nil
}
