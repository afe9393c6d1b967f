package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/bidpoint/backend/internal/database"
	"github.com/bidpoint/backend/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db   *database.DB
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db, pool: db.Pool}
}

// rowScanner interface for scanning rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

const selectUser = `
	SELECT u.id, u.username, u.email, u.name, u.password_hash, u.approved,
	       COALESCE(array_agg(r.name ORDER BY r.name) FILTER (WHERE r.name IS NOT NULL), '{}') AS roles,
	       u.created_at, u.updated_at
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.id
	LEFT JOIN roles r ON r.id = ur.role_id
`

// scanUserRow populates a User model, including its role names, from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User

	err := scanner.Scan(
		&user.ID, &user.Username, &user.Email, &user.Name, &user.PasswordHash, &user.Approved,
		&user.Roles, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &user, nil
}

func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)

	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := selectUser + ` WHERE u.id = $1 GROUP BY u.id`
	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := selectUser + ` WHERE u.username = $1 GROUP BY u.id`
	return scanUserRow(r.pool.QueryRow(ctx, query, username))
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	query := selectUser + ` GROUP BY u.id ORDER BY u.username`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return scanUserRows(rows)
}

// Create inserts the user and links the roles named in user.Roles.
// Role names with no matching role row are ignored.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New().String()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, username, email, name, password_hash, approved, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, user.ID, user.Username, user.Email, user.Name, user.PasswordHash, user.Approved, user.CreatedAt, user.UpdatedAt)
		if err != nil {
			return database.MapPostgresError(err)
		}

		if len(user.Roles) == 0 {
			return nil
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id)
			SELECT $1, id FROM roles WHERE name = ANY($2)
		`, user.ID, user.Roles)
		return database.MapPostgresError(err)
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, user.ID)
}

func (r *UserRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE users SET approved = $1, updated_at = $2 WHERE id = $3`,
		approved, time.Now(), id,
	)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// AddRole links the role to the user. Linking an already held role is a no-op.
func (r *UserRepository) AddRole(ctx context.Context, userID, roleID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING
	`, userID, roleID)
	return database.MapPostgresError(err)
}

// RemoveRole unlinks the role from the user. Removing a role the user does not hold is a no-op.
func (r *UserRepository) RemoveRole(ctx context.Context, userID, roleID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	return database.MapPostgresError(err)
}
