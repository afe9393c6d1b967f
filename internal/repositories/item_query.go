package repositories

import (
	"fmt"
	"strings"

	"github.com/bidpoint/backend/internal/models"
	"github.com/bidpoint/backend/internal/search"
	"github.com/lib/pq"
)

// column is a table-qualified column reference.
type column struct {
	table string
	name  string
}

func (c column) sql() string {
	return c.table + "." + pq.QuoteIdentifier(c.name)
}

// itemColumns maps search fields to columns of "items i JOIN users u".
var itemColumns = map[search.Field]column{
	search.FieldID:            {"i", "id"},
	search.FieldName:          {"i", "name"},
	search.FieldDescription:   {"i", "description"},
	search.FieldActive:        {"i", "active"},
	search.FieldDateEnds:      {"i", "date_ends"},
	search.FieldStartingPrice: {"i", "starting_price"},
	search.FieldBuyPrice:      {"i", "buy_price"},
	search.FieldCreatedAt:     {"i", "created_at"},
	search.FieldOwnerUsername: {"u", "username"},
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// itemQuery accumulates a WHERE clause and its positional arguments.
type itemQuery struct {
	where []string
	args  []any
}

func (q *itemQuery) bind(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func lookupColumn(f search.Field) (column, error) {
	c, ok := itemColumns[f]
	if !ok {
		return column{}, fmt.Errorf("unsupported item field %q", f)
	}
	return c, nil
}

// compileItemFilter turns a predicate set into a WHERE clause (empty when
// there are no predicates) and its arguments.
func compileItemFilter(preds []search.Predicate) (*itemQuery, error) {
	q := &itemQuery{}

	for _, p := range preds {
		switch p := p.(type) {
		case search.Equal:
			c, err := lookupColumn(p.Field)
			if err != nil {
				return nil, err
			}
			q.where = append(q.where, fmt.Sprintf("%s = %s", c.sql(), q.bind(p.Value)))

		case search.Contains:
			pattern := q.bind("%" + likeEscaper.Replace(p.Term) + "%")
			ors := make([]string, 0, len(p.Fields))
			for _, f := range p.Fields {
				c, err := lookupColumn(f)
				if err != nil {
					return nil, err
				}
				ors = append(ors, fmt.Sprintf("%s ILIKE %s", c.sql(), pattern))
			}
			q.where = append(q.where, "("+strings.Join(ors, " OR ")+")")

		case search.Compare:
			c, err := lookupColumn(p.Field)
			if err != nil {
				return nil, err
			}
			op := ">"
			if p.Op == search.LessThan {
				op = "<"
			}
			q.where = append(q.where, fmt.Sprintf("%s %s %s", c.sql(), op, q.bind(p.Value)))

		case search.HasCategory:
			q.where = append(q.where, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM item_categories ic JOIN categories c ON c.id = ic.category_id WHERE ic.item_id = i.id AND c.name = %s)",
				q.bind(p.Name),
			))

		default:
			return nil, fmt.Errorf("unsupported predicate %T", p)
		}
	}

	return q, nil
}

func (q *itemQuery) whereClause() string {
	if len(q.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.where, " AND ")
}

// orderByClause renders sort keys. Unknown fields yield models.ErrInvalidSortField.
func orderByClause(sort []search.SortOrder) (string, error) {
	if len(sort) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(sort))
	for _, o := range sort {
		c, ok := itemColumns[o.Field]
		if !ok || !search.IsOrderable(o.Field) {
			return "", fmt.Errorf("%w: %q", models.ErrInvalidSortField, o.Field)
		}
		dir := "ASC"
		if o.Direction == search.Desc {
			dir = "DESC"
		}
		parts = append(parts, c.sql()+" "+dir)
	}

	return " ORDER BY " + strings.Join(parts, ", "), nil
}
