package search

import (
	"fmt"
	"strings"
)

// FilterMode is a tri-state filter: require true, require false, or no constraint.
type FilterMode int

const (
	FilterNone FilterMode = iota
	FilterTrue
	FilterFalse
)

func (m FilterMode) String() string {
	switch m {
	case FilterTrue:
		return "TRUE"
	case FilterFalse:
		return "FALSE"
	default:
		return "NONE"
	}
}

// ParseFilterMode parses TRUE, FALSE or NONE (case-insensitive). An empty string is NONE.
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return FilterNone, nil
	case "TRUE":
		return FilterTrue, nil
	case "FALSE":
		return FilterFalse, nil
	default:
		return FilterNone, fmt.Errorf("invalid filter mode %q: must be one of TRUE, FALSE, NONE", s)
	}
}
