package work

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/core/apperror"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":          "hello-world",
		"  Go & Postgres!  ":   "go-postgres",
		"Café Ordering App v2": "café-ordering-app-v2",
		"":                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestEnsureSlug_KeepsExplicit(t *testing.T) {
	w := &Work{Title: "Some Title", Slug: "custom"}
	require.NoError(t, ensureSlug(context.Background(), w))
	assert.Equal(t, "custom", w.Slug)

	w = &Work{Title: "Some Title"}
	require.NoError(t, ensureSlug(context.Background(), w))
	assert.Equal(t, "some-title", w.Slug)
}

func TestValidate_RequiresTitleAndDescription(t *testing.T) {
	err := (&Work{Description: "d"}).Validate(context.Background())
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "title", appErr.Details["field"])

	err = (&Work{Title: "t"}).Validate(context.Background())
	assert.True(t, apperror.IsValidation(err))

	assert.NoError(t, (&Work{Title: "t", Description: "d"}).Validate(context.Background()))
}
