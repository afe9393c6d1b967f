package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/bidpoint/backend/internal/models"
	"github.com/bidpoint/backend/internal/search"
	pkglogger "github.com/bidpoint/backend/pkg/logger"
)

// ItemRepository defines the interface for item catalog access
type ItemRepository interface {
	GetByID(ctx context.Context, id string) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// ItemSearcher runs filtered, paginated item queries.
type ItemSearcher interface {
	Search(ctx context.Context, c search.Criteria, page search.PageRequest) (*search.Result, error)
}

type ItemService struct {
	items    ItemRepository
	users    UserRepository
	searcher ItemSearcher
	audit    *pkglogger.AuditLogger
	logger   *slog.Logger
}

func NewItemService(items ItemRepository, users UserRepository, searcher ItemSearcher, audit *pkglogger.AuditLogger, logger *slog.Logger) *ItemService {
	return &ItemService{
		items:    items,
		users:    users,
		searcher: searcher,
		audit:    audit,
		logger:   logger,
	}
}

// CreateItem lists a new item owned by ownerUsername. Categories are
// referenced by name and created on first use. Only approved users may list.
func (s *ItemService) CreateItem(ctx context.Context, ownerUsername string, item *models.Item, categoryNames []string) (*models.Item, error) {
	owner, err := s.users.GetByUsername(ctx, ownerUsername)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get item owner", slog.String("username", ownerUsername), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if !owner.Approved {
		s.audit.Log(ctx, pkglogger.AuditEvent{
			Type:          pkglogger.EventItemCreate,
			Actor:         owner.Username,
			FailureReason: "not approved",
		})
		return nil, models.ErrUserNotApproved
	}

	item.OwnerID = owner.ID
	item.OwnerUsername = owner.Username
	item.Categories = categoriesFromNames(categoryNames)

	created, err := s.items.Create(ctx, item)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			return nil, err
		}
		s.logger.Error("failed to create item", slog.String("owner_id", owner.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("item created", slog.String("item_id", created.ID), slog.String("owner_id", owner.ID))
	s.audit.Log(ctx, pkglogger.AuditEvent{
		Type:    pkglogger.EventItemCreate,
		Actor:   owner.Username,
		Subject: created.ID,
		Success: true,
	})
	return created, nil
}

func categoriesFromNames(names []string) []models.Category {
	seen := make(map[string]bool, len(names))
	out := make([]models.Category, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, models.Category{Name: n})
	}
	return out
}

func (s *ItemService) GetItem(ctx context.Context, id string) (*models.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get item", slog.String("item_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return item, nil
}

func (s *ItemService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.items.ListCategories(ctx)
	if err != nil {
		s.logger.Error("failed to list categories", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return categories, nil
}

// SearchItems returns one page of items matching c together with the total
// match count. Client errors (bad sort key, bad page) pass through unchanged.
func (s *ItemService) SearchItems(ctx context.Context, c search.Criteria, page search.PageRequest) (*search.Result, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	result, err := s.searcher.Search(ctx, c, page)
	if err != nil {
		if errors.Is(err, models.ErrInvalidSortField) || errors.Is(err, models.ErrBadRequest) {
			return nil, err
		}
		s.logger.Error("item search failed",
			slog.Int("categories", len(c.Categories)),
			slog.String("active", c.Active.String()),
			slog.String("is_ended", c.IsEnded.String()),
			slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Debug("item search",
		slog.Int64("total", result.Total),
		slog.Int("page", page.Page),
		slog.Int("size", page.Size))
	return result, nil
}
