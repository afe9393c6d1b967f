package search

import (
	"context"
	"sort"
	"strings"

	"github.com/bidpoint/backend/internal/models"
)

// memoryStore evaluates predicate sets over an in-memory slice of items.
type memoryStore struct {
	items    []*models.Item
	countErr error
	fetchErr error

	gotCountPreds []Predicate
	gotFetchPreds []Predicate
	gotSort       []SortOrder
	gotOffset     int
	gotLimit      int
}

func (m *memoryStore) CountMatching(ctx context.Context, preds []Predicate) (int64, error) {
	m.gotCountPreds = preds
	if m.countErr != nil {
		return 0, m.countErr
	}
	return int64(len(m.filter(preds))), nil
}

func (m *memoryStore) FetchPage(ctx context.Context, preds []Predicate, order []SortOrder, offset, limit int) ([]*models.Item, error) {
	m.gotFetchPreds = preds
	m.gotSort = order
	m.gotOffset = offset
	m.gotLimit = limit
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}

	matched := m.filter(preds)
	sort.SliceStable(matched, func(i, j int) bool {
		for _, o := range order {
			c := compareField(matched[i], matched[j], o.Field)
			if c == 0 {
				continue
			}
			if o.Direction == Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	if offset >= len(matched) {
		return []*models.Item{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (m *memoryStore) filter(preds []Predicate) []*models.Item {
	out := make([]*models.Item, 0, len(m.items))
	for _, it := range m.items {
		ok := true
		for _, p := range preds {
			if !matches(it, p) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, it)
		}
	}
	return out
}

func matches(it *models.Item, p Predicate) bool {
	switch p := p.(type) {
	case Equal:
		switch p.Field {
		case FieldActive:
			return it.Active == p.Value.(bool)
		case FieldOwnerUsername:
			return it.OwnerUsername == p.Value.(string)
		}
	case Contains:
		term := strings.ToLower(p.Term)
		for _, f := range p.Fields {
			if strings.Contains(strings.ToLower(textField(it, f)), term) {
				return true
			}
		}
		return false
	case Compare:
		if p.Op == GreaterThan {
			return it.DateEnds.After(p.Value)
		}
		return it.DateEnds.Before(p.Value)
	case HasCategory:
		return it.HasCategory(p.Name)
	}
	return false
}

func textField(it *models.Item, f Field) string {
	switch f {
	case FieldName:
		return it.Name
	case FieldDescription:
		return it.Description
	}
	return ""
}

func compareField(a, b *models.Item, f Field) int {
	switch f {
	case FieldName:
		return strings.Compare(a.Name, b.Name)
	case FieldDateEnds:
		return a.DateEnds.Compare(b.DateEnds)
	default:
		return strings.Compare(a.ID, b.ID)
	}
}
