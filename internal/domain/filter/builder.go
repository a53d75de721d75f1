package filter

import (
	"strconv"
	"strings"

	"folio/internal/core/apperror"
)

// Build turns opts into a Query for a resource described by schema.
//
// Predicate: live rows only (unless IncludeDeleted), published only (unless
// IncludeUnpublished), non-drafts only (unless IncludeDrafts). featured=true
// restricts to featured rows; featured=false applies no restriction.
//
// Ordering: featured group first when FeaturedFirst, then the requested sort,
// then created_at ASC and id ASC so pages are deterministic.
func Build(opts Options, schema Schema) (Query, error) {
	var q Query

	if !opts.IncludeDeleted {
		q.Conditions = append(q.Conditions, Condition{Column: ColDeletedAt, Op: IsNull})
	}
	if !opts.IncludeUnpublished {
		q.Conditions = append(q.Conditions, Condition{Column: ColIsPublished, Op: Eq, Value: true})
	}
	if !opts.IncludeDrafts {
		q.Conditions = append(q.Conditions, Condition{Column: ColIsDraft, Op: NotTrue})
	}
	if opts.Featured != nil && *opts.Featured {
		q.Conditions = append(q.Conditions, Condition{Column: ColIsFeatured, Op: Eq, Value: true})
	}
	if opts.Category != "" && schema.CategoryColumn != "" {
		q.Conditions = append(q.Conditions, Condition{
			Column: schema.CategoryColumn,
			Op:     ContainsFold,
			Value:  opts.Category,
		})
	}

	extras, err := buildExtras(opts.Extras, schema.Extras)
	if err != nil {
		return Query{}, err
	}
	q.Conditions = append(q.Conditions, extras...)

	order, err := buildOrder(opts, schema)
	if err != nil {
		return Query{}, err
	}
	q.Order = order

	q.Limit = opts.Limit
	q.Offset = opts.Skip

	return q, nil
}

func buildExtras(values map[string]string, declared []Extra) ([]Condition, error) {
	var conds []Condition
	for _, ex := range declared {
		raw, ok := values[ex.Param]
		if !ok || raw == "" {
			continue
		}

		switch ex.Kind {
		case ExtraBool:
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, apperror.NewValidation(ex.Param + " must be a boolean").
					WithDetail("field", ex.Param).
					WithDetail("value", raw)
			}
			conds = append(conds, Condition{Column: ex.Column, Op: Eq, Value: v})
		case ExtraContains:
			conds = append(conds, Condition{Column: ex.Column, Op: ContainsFold, Value: raw})
		default:
			conds = append(conds, Condition{Column: ex.Column, Op: EqFold, Value: raw})
		}
	}
	return conds, nil
}

func buildOrder(opts Options, schema Schema) ([]OrderTerm, error) {
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = schema.DefaultSortBy
	}

	dir, err := parseDirection(opts.SortOrder, schema.DefaultSortOrder)
	if err != nil {
		return nil, err
	}

	var order []OrderTerm
	if opts.FeaturedFirst {
		order = append(order, OrderTerm{Column: ColIsFeatured, Desc: true})
	}

	seen := map[string]bool{ColIsFeatured: opts.FeaturedFirst}
	if sortBy != "" {
		col, ok := schema.Sortable[sortBy]
		if !ok {
			return nil, apperror.NewValidation("unsupported sortBy field").
				WithDetail("field", "sortBy").
				WithDetail("value", sortBy)
		}
		if !seen[col] {
			order = append(order, OrderTerm{Column: col, Desc: dir == Desc})
			seen[col] = true
		}
	}

	for _, col := range []string{ColCreatedAt, ColID} {
		if !seen[col] {
			order = append(order, OrderTerm{Column: col})
		}
	}

	return order, nil
}

func parseDirection(raw string, fallback Direction) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		if fallback == "" {
			return Asc, nil
		}
		return fallback, nil
	case "asc", "ascending":
		return Asc, nil
	case "desc", "descending":
		return Desc, nil
	default:
		return "", apperror.NewValidation("sortOrder must be asc or desc").
			WithDetail("field", "sortOrder").
			WithDetail("value", raw)
	}
}
