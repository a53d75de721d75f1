// Package filter turns list query parameters into a store-agnostic predicate
// and ordering. Repositories translate the resulting Query into SQL (postgres)
// or evaluate it directly (memory).
package filter

// Op defines the kinds of comparison a Condition can express.
type Op int

const (
	Eq           Op = iota // column = value
	IsNull                 // column IS NULL
	NotTrue                // column IS NOT TRUE (false or NULL)
	EqFold                 // case-insensitive equality
	ContainsFold           // case-insensitive substring match
)

func (o Op) String() string {
	switch o {
	case Eq:
		return "eq"
	case IsNull:
		return "null"
	case NotTrue:
		return "not_true"
	case EqFold:
		return "eq_fold"
	case ContainsFold:
		return "contains"
	default:
		return "unknown"
	}
}

// Condition is one conjunct of the filter predicate.
type Condition struct {
	Column string
	Op     Op
	Value  any
}

// OrderTerm is one level of the composite ordering.
type OrderTerm struct {
	Column string
	Desc   bool
}

// Query is the built predicate plus ordering and paging.
// Limit and Offset are zero when absent.
type Query struct {
	Conditions []Condition
	Order      []OrderTerm
	Limit      int
	Offset     int
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)
