package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/bidpoint/backend/internal/database"
	"github.com/bidpoint/backend/internal/models"
	"github.com/bidpoint/backend/internal/search"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ItemRepository handles item and category data access. It implements search.Store.
type ItemRepository struct {
	db   *database.DB
	pool *pgxpool.Pool
}

func NewItemRepository(db *database.DB) *ItemRepository {
	return &ItemRepository{db: db, pool: db.Pool}
}

const itemFrom = ` FROM items i JOIN users u ON u.id = i.owner_id`

const itemSelect = `
	SELECT i.id, i.name, i.description, i.starting_price, i.buy_price, i.active, i.date_ends,
	       i.owner_id, u.username, i.created_at, i.updated_at` + itemFrom

func scanItemRow(row rowScanner) (*models.Item, error) {
	var item models.Item

	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.StartingPrice, &item.BuyPrice, &item.Active, &item.DateEnds,
		&item.OwnerID, &item.OwnerUsername, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	item.Categories = []models.Category{}
	return &item, nil
}

// CountMatching counts items satisfying every predicate.
func (r *ItemRepository) CountMatching(ctx context.Context, preds []search.Predicate) (int64, error) {
	q, err := compileItemFilter(preds)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+itemFrom+q.whereClause(), q.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}

	return count, nil
}

// FetchPage returns one sorted page of items satisfying every predicate, with categories loaded.
func (r *ItemRepository) FetchPage(ctx context.Context, preds []search.Predicate, sort []search.SortOrder, offset, limit int) ([]*models.Item, error) {
	q, err := compileItemFilter(preds)
	if err != nil {
		return nil, err
	}

	orderBy, err := orderByClause(sort)
	if err != nil {
		return nil, err
	}

	query := itemSelect + q.whereClause() + orderBy +
		fmt.Sprintf(" LIMIT %s OFFSET %s", q.bind(limit), q.bind(offset))

	rows, err := r.pool.Query(ctx, query, q.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}

	items, err := scanItemRows(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachCategories(ctx, items); err != nil {
		return nil, err
	}

	return items, nil
}

func scanItemRows(rows pgx.Rows) ([]*models.Item, error) {
	defer rows.Close()

	items := make([]*models.Item, 0)
	for rows.Next() {
		item, err := scanItemRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

// attachCategories loads the category associations of all items in one query.
func (r *ItemRepository) attachCategories(ctx context.Context, items []*models.Item) error {
	if len(items) == 0 {
		return nil
	}

	byID := make(map[string]*models.Item, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		byID[it.ID] = it
		ids = append(ids, it.ID)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT ic.item_id, c.id, c.name
		FROM item_categories ic
		JOIN categories c ON c.id = ic.category_id
		WHERE ic.item_id = ANY($1::uuid[])
		ORDER BY c.name
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to query item categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID string
		var c models.Category
		if err := rows.Scan(&itemID, &c.ID, &c.Name); err != nil {
			return fmt.Errorf("failed to scan item category: %w", err)
		}
		if it, ok := byID[itemID]; ok {
			it.Categories = append(it.Categories, c)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating item category rows: %w", err)
	}

	return nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}

	item, err := scanItemRow(r.pool.QueryRow(ctx, itemSelect+` WHERE i.id = $1`, id))
	if err != nil {
		return nil, err
	}

	if err := r.attachCategories(ctx, []*models.Item{item}); err != nil {
		return nil, err
	}

	return item, nil
}

// Create inserts the item and links it to the categories named in item.Categories,
// creating categories that do not exist yet.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	item.ID = uuid.New().String()
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO items (id, name, description, starting_price, buy_price, active, date_ends, owner_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, item.ID, item.Name, item.Description, item.StartingPrice, item.BuyPrice, item.Active, item.DateEnds,
			item.OwnerID, item.CreatedAt, item.UpdatedAt)
		if err != nil {
			return database.MapPostgresError(err)
		}

		for i, c := range item.Categories {
			var categoryID string
			err := tx.QueryRow(ctx, `
				INSERT INTO categories (id, name) VALUES ($1, $2)
				ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id
			`, uuid.New().String(), c.Name).Scan(&categoryID)
			if err != nil {
				return fmt.Errorf("failed to upsert category %q: %w", c.Name, err)
			}
			item.Categories[i].ID = categoryID

			if _, err := tx.Exec(ctx, `
				INSERT INTO item_categories (item_id, category_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, item.ID, categoryID); err != nil {
				return database.MapPostgresError(err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, item.ID)
}

func (r *ItemRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	return categories, nil
}
