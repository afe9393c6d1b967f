package search

import (
	"context"
	"fmt"
	"time"

	"github.com/bidpoint/backend/internal/models"
	"golang.org/x/sync/errgroup"
)

// Store executes predicate sets against the item collection.
type Store interface {
	CountMatching(ctx context.Context, preds []Predicate) (int64, error)
	FetchPage(ctx context.Context, preds []Predicate, sort []SortOrder, offset, limit int) ([]*models.Item, error)
}

// Result is one page of matching items plus the total match count.
type Result struct {
	Items []*models.Item
	Total int64
	Page  int
	Size  int
}

// TotalPages returns the number of pages of Size needed to hold Total items.
func (r *Result) TotalPages() int {
	if r.Size <= 0 {
		return 0
	}
	return int((r.Total + int64(r.Size) - 1) / int64(r.Size))
}

// Searcher runs item searches against a Store. It holds no per-request state.
type Searcher struct {
	store Store
	now   func() time.Time
}

func NewSearcher(store Store) *Searcher {
	return &Searcher{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Search returns the requested page of items matching c and the total number
// of matches. The count and the page are computed from the same predicate set;
// the two reads are issued concurrently and are not snapshot-isolated.
func (s *Searcher) Search(ctx context.Context, c Criteria, page PageRequest) (*Result, error) {
	for _, o := range page.Sort {
		if !IsOrderable(o.Field) {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidSortField, o.Field)
		}
	}

	preds := Build(c, s.now())
	sort := withTieBreaker(page.Sort)

	var (
		total int64
		items []*models.Item
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.store.CountMatching(gctx, preds)
		if err != nil {
			return fmt.Errorf("count items: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.FetchPage(gctx, preds, sort, page.Offset(), page.Size)
		if err != nil {
			return fmt.Errorf("fetch items: %w", err)
		}
		items = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if items == nil {
		items = []*models.Item{}
	}

	return &Result{
		Items: items,
		Total: total,
		Page:  page.Page,
		Size:  page.Size,
	}, nil
}

// withTieBreaker appends id ascending so equal sort keys page deterministically.
func withTieBreaker(sort []SortOrder) []SortOrder {
	for _, o := range sort {
		if o.Field == FieldID {
			return sort
		}
	}
	out := make([]SortOrder, 0, len(sort)+1)
	out = append(out, sort...)
	return append(out, SortOrder{Field: FieldID, Direction: Asc})
}
