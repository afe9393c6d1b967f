package search

import (
	"fmt"
	"math"
	"strings"

	"github.com/bidpoint/backend/internal/models"
)

// Criteria holds the optional item filters of a search request.
// Empty strings and FilterNone mean "no filter".
type Criteria struct {
	Categories []string
	SearchTerm string
	Active     FilterMode
	Username   string
	IsEnded    FilterMode
}

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

type SortOrder struct {
	Field     Field
	Direction Direction
}

// PageRequest is a zero-based page index, a page size and ordered sort keys.
type PageRequest struct {
	Page int
	Size int
	Sort []SortOrder
}

// Offset returns the number of rows skipped before this page. Pages far past
// any real row count saturate at math.MaxInt instead of wrapping negative.
func (p PageRequest) Offset() int {
	if p.Size > 0 && p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Page * p.Size
}

// Validate rejects negative pages and non-positive sizes.
func (p PageRequest) Validate() error {
	if p.Page < 0 {
		return fmt.Errorf("%w: page must be >= 0", models.ErrBadRequest)
	}
	if p.Size <= 0 {
		return fmt.Errorf("%w: size must be > 0", models.ErrBadRequest)
	}
	return nil
}

// orderable lists the fields an item page can be sorted by.
var orderable = map[Field]bool{
	FieldID:            true,
	FieldName:          true,
	FieldDescription:   true,
	FieldActive:        true,
	FieldDateEnds:      true,
	FieldStartingPrice: true,
	FieldBuyPrice:      true,
	FieldCreatedAt:     true,
}

// IsOrderable reports whether f is a known sortable attribute.
func IsOrderable(f Field) bool {
	return orderable[f]
}

// ParseSortOrder parses "field" or "field,asc|desc". Direction defaults to ascending.
func ParseSortOrder(s string) (SortOrder, error) {
	parts := strings.Split(s, ",")
	field := Field(strings.TrimSpace(parts[0]))
	if !IsOrderable(field) {
		return SortOrder{}, fmt.Errorf("%w: %q", models.ErrInvalidSortField, parts[0])
	}

	order := SortOrder{Field: field, Direction: Asc}
	if len(parts) > 2 {
		return SortOrder{}, fmt.Errorf("%w: malformed sort %q", models.ErrBadRequest, s)
	}
	if len(parts) == 2 {
		switch strings.ToUpper(strings.TrimSpace(parts[1])) {
		case "ASC":
		case "DESC":
			order.Direction = Desc
		default:
			return SortOrder{}, fmt.Errorf("%w: invalid sort direction %q", models.ErrBadRequest, parts[1])
		}
	}
	return order, nil
}
