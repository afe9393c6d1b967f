package search

import "time"

// Build translates criteria into a conjunctive predicate set. now is captured
// once by the caller so every query sharing the set compares against the same instant.
//
// Unconstrained filters contribute no predicate at all.
func Build(c Criteria, now time.Time) []Predicate {
	preds := make([]Predicate, 0, len(c.Categories)+4)

	// One existential check per name: the item must carry every listed category.
	for _, name := range c.Categories {
		preds = append(preds, HasCategory{Name: name})
	}

	if c.SearchTerm != "" {
		preds = append(preds, Contains{
			Fields: []Field{FieldName, FieldDescription},
			Term:   c.SearchTerm,
		})
	}

	switch c.Active {
	case FilterTrue:
		preds = append(preds, Equal{Field: FieldActive, Value: true})
	case FilterFalse:
		preds = append(preds, Equal{Field: FieldActive, Value: false})
	}

	if c.Username != "" {
		preds = append(preds, Equal{Field: FieldOwnerUsername, Value: c.Username})
	}

	// isEnded=TRUE selects listings whose end date is still in the future.
	// The naming is kept as clients already depend on it.
	switch c.IsEnded {
	case FilterTrue:
		preds = append(preds, Compare{Field: FieldDateEnds, Op: GreaterThan, Value: now})
	case FilterFalse:
		preds = append(preds, Compare{Field: FieldDateEnds, Op: LessThan, Value: now})
	}

	return preds
}
