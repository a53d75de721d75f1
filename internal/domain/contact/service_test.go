package contact_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/core/apperror"
	"folio/internal/core/id"
	"folio/internal/domain/contact"
	"folio/internal/infrastructure/storage/memory"
)

func validMessage() *contact.Message {
	return &contact.Message{
		Name:  "  Ada ",
		Email: "ada@example.com",
		Body:  "Let's work together",
	}
}

func TestSubmit(t *testing.T) {
	svc := contact.NewService(memory.NewContactStore())
	ctx := context.Background()

	m := validMessage()
	require.NoError(t, svc.Submit(ctx, m))
	assert.False(t, id.IsNil(m.ID))
	assert.Equal(t, "Ada", m.Name)
	assert.False(t, m.IsRead)

	items, total, err := svc.List(ctx, contact.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, m.ID, items[0].ID)
}

func TestSubmit_Validation(t *testing.T) {
	svc := contact.NewService(memory.NewContactStore())
	ctx := context.Background()

	cases := []func(m *contact.Message){
		func(m *contact.Message) { m.Name = " " },
		func(m *contact.Message) { m.Email = "not-an-email" },
		func(m *contact.Message) { m.Body = "" },
		func(m *contact.Message) { m.Body = strings.Repeat("x", 5001) },
	}
	for _, mutate := range cases {
		m := validMessage()
		mutate(m)
		assert.True(t, apperror.IsValidation(svc.Submit(ctx, m)))
	}
}

func TestMarkReadAndDelete(t *testing.T) {
	svc := contact.NewService(memory.NewContactStore())
	ctx := context.Background()

	m := validMessage()
	require.NoError(t, svc.Submit(ctx, m))

	read, err := svc.MarkRead(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	items, _, err := svc.List(ctx, contact.ListFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, svc.Delete(ctx, m.ID))
	assert.True(t, apperror.IsNotFound(svc.Delete(ctx, m.ID)), "delete is physical and final")

	_, err = svc.MarkRead(ctx, m.ID)
	assert.True(t, apperror.IsNotFound(err))
}
