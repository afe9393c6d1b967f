package search

import "time"

// Field identifies an item attribute a predicate or sort key refers to.
type Field string

const (
	FieldID            Field = "id"
	FieldName          Field = "name"
	FieldDescription   Field = "description"
	FieldActive        Field = "active"
	FieldDateEnds      Field = "dateEnds"
	FieldStartingPrice Field = "startingPrice"
	FieldBuyPrice      Field = "buyPrice"
	FieldCreatedAt     Field = "createdAt"
	FieldOwnerUsername Field = "owner.username"
)

// Predicate is a single filter condition. The concrete variants are
// Equal, Contains, Compare and HasCategory; stores switch on the type.
type Predicate interface {
	isPredicate()
}

// Equal requires Field to equal Value.
type Equal struct {
	Field Field
	Value any
}

// Contains requires at least one of Fields to contain Term, ignoring case.
type Contains struct {
	Fields []Field
	Term   string
}

// CompareOp is the operator of a range comparison.
type CompareOp int

const (
	GreaterThan CompareOp = iota
	LessThan
)

// Compare requires Field to be strictly greater or less than Value.
type Compare struct {
	Field Field
	Op    CompareOp
	Value time.Time
}

// HasCategory requires the item to have at least one category association named Name.
type HasCategory struct {
	Name string
}

func (Equal) isPredicate()       {}
func (Contains) isPredicate()    {}
func (Compare) isPredicate()     {}
func (HasCategory) isPredicate() {}
