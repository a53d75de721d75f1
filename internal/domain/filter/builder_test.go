package filter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/core/apperror"
)

func testSchema() Schema {
	return Schema{
		Sortable: map[string]string{
			"displayOrder": ColDisplayOrder,
			"createdAt":    ColCreatedAt,
			"title":        "title",
		},
		CategoryColumn: "category",
		Extras: []Extra{
			{Param: ParamCompany, Column: "company", Kind: ExtraContains},
			{Param: ParamIsCurrent, Column: "is_current", Kind: ExtraBool},
			{Param: ParamEmploymentType, Column: "employment_type", Kind: ExtraExact},
		},
		DefaultSortBy:    "displayOrder",
		DefaultSortOrder: Asc,
	}
}

func mustParse(t *testing.T, raw string) Options {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	opts, err := ParseOptions(values)
	require.NoError(t, err)
	return opts
}

func TestBuild_DefaultPredicate(t *testing.T) {
	q, err := Build(Options{}, testSchema())
	require.NoError(t, err)

	assert.Equal(t, []Condition{
		{Column: ColDeletedAt, Op: IsNull},
		{Column: ColIsPublished, Op: Eq, Value: true},
		{Column: ColIsDraft, Op: NotTrue},
	}, q.Conditions)
	assert.Equal(t, []OrderTerm{
		{Column: ColDisplayOrder},
		{Column: ColCreatedAt},
		{Column: ColID},
	}, q.Order)
	assert.Zero(t, q.Limit)
	assert.Zero(t, q.Offset)
}

func TestBuild_IncludeFlagsDropRestrictions(t *testing.T) {
	opts := mustParse(t, "includeUnpublished=true&includeDrafts=1")
	opts.IncludeDeleted = true

	q, err := Build(opts, testSchema())
	require.NoError(t, err)
	assert.Empty(t, q.Conditions)
}

func TestBuild_FeaturedIsAsymmetric(t *testing.T) {
	q, err := Build(mustParse(t, "featured=true"), testSchema())
	require.NoError(t, err)
	assert.Contains(t, q.Conditions, Condition{Column: ColIsFeatured, Op: Eq, Value: true})

	q, err = Build(mustParse(t, "featured=false"), testSchema())
	require.NoError(t, err)
	for _, c := range q.Conditions {
		assert.NotEqual(t, ColIsFeatured, c.Column, "featured=false must not restrict")
	}
}

func TestBuild_CategoryIsContainsFold(t *testing.T) {
	q, err := Build(mustParse(t, "category=Web"), testSchema())
	require.NoError(t, err)
	assert.Contains(t, q.Conditions, Condition{Column: "category", Op: ContainsFold, Value: "Web"})
}

func TestBuild_CategoryIgnoredWithoutColumn(t *testing.T) {
	schema := testSchema()
	schema.CategoryColumn = ""

	q, err := Build(mustParse(t, "category=Web"), schema)
	require.NoError(t, err)
	assert.Len(t, q.Conditions, 3)
}

func TestBuild_FeaturedFirstComposite(t *testing.T) {
	q, err := Build(mustParse(t, "featuredFirst=true&sortBy=title&sortOrder=desc"), testSchema())
	require.NoError(t, err)

	assert.Equal(t, []OrderTerm{
		{Column: ColIsFeatured, Desc: true},
		{Column: "title", Desc: true},
		{Column: ColCreatedAt},
		{Column: ColID},
	}, q.Order)
}

func TestBuild_TieBreakNotDuplicated(t *testing.T) {
	q, err := Build(mustParse(t, "sortBy=createdAt&sortOrder=desc"), testSchema())
	require.NoError(t, err)

	assert.Equal(t, []OrderTerm{
		{Column: ColCreatedAt, Desc: true},
		{Column: ColID},
	}, q.Order)
}

func TestBuild_UnknownSortRejected(t *testing.T) {
	_, err := Build(mustParse(t, "sortBy=password"), testSchema())
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	_, err = Build(mustParse(t, "sortOrder=sideways"), testSchema())
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestBuild_LimitAndSkip(t *testing.T) {
	q, err := Build(mustParse(t, "limit=10&skip=20"), testSchema())
	require.NoError(t, err)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 20, q.Offset)
}

func TestBuild_Extras(t *testing.T) {
	q, err := Build(mustParse(t, "company=acme&isCurrent=true&employmentType=Full-Time&relationship=client"), testSchema())
	require.NoError(t, err)

	assert.Contains(t, q.Conditions, Condition{Column: "company", Op: ContainsFold, Value: "acme"})
	assert.Contains(t, q.Conditions, Condition{Column: "is_current", Op: Eq, Value: true})
	assert.Contains(t, q.Conditions, Condition{Column: "employment_type", Op: EqFold, Value: "Full-Time"})
	for _, c := range q.Conditions {
		assert.NotEqual(t, "relationship", c.Column, "undeclared extras are ignored")
	}
}

func TestBuild_BadBoolExtra(t *testing.T) {
	_, err := Build(Options{Extras: map[string]string{ParamIsCurrent: "maybe"}}, testSchema())
	assert.True(t, apperror.IsValidation(err))
}

func TestParseOptions_Errors(t *testing.T) {
	cases := []string{
		"limit=ten",
		"limit=-1",
		"skip=1.5",
		"featured=yes",
		"includeDrafts=nope",
	}
	for _, raw := range cases {
		t.Run(raw, func(t *testing.T) {
			values, err := url.ParseQuery(raw)
			require.NoError(t, err)
			_, err = ParseOptions(values)
			assert.True(t, apperror.IsValidation(err))
		})
	}
}

func TestParseOptions_FeaturedTriState(t *testing.T) {
	assert.Nil(t, mustParse(t, "").Featured)

	opts := mustParse(t, "featured=false")
	require.NotNil(t, opts.Featured)
	assert.False(t, *opts.Featured)
}

func TestSortable_PanicsOnUnknownName(t *testing.T) {
	assert.Panics(t, func() { Sortable(nil, "nope") })
}
