// Package contact handles messages sent through the public contact form.
// Messages are physically deleted; there is no restore.
package contact

import (
	"context"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"folio/internal/core/apperror"
	"folio/internal/core/entity"
	"folio/internal/core/id"
)

const maxMessageLength = 5000

// Message is one contact form submission.
type Message struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Subject   string    `db:"subject" json:"subject"`
	Body      string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"isRead"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Validate implements entity.Validatable.
func (m *Message) Validate(ctx context.Context) error {
	if err := entity.RequireText("name", m.Name); err != nil {
		return err
	}
	if err := entity.RequireText("email", m.Email); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return apperror.NewValidation("email is invalid").WithDetail("field", "email")
	}
	if err := entity.RequireText("message", m.Body); err != nil {
		return err
	}
	if utf8.RuneCountInString(m.Body) > maxMessageLength {
		return apperror.NewValidation("message is too long").
			WithDetail("field", "message").
			WithDetail("max", maxMessageLength)
	}
	return nil
}

func (m *Message) normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Subject = strings.TrimSpace(m.Subject)
	m.Body = strings.TrimSpace(m.Body)
}

// ListFilter selects messages for the admin inbox.
type ListFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

// Repository defines persistence for contact messages.
type Repository interface {
	Create(ctx context.Context, m *Message) error
	// List returns newest first.
	List(ctx context.Context, f ListFilter) ([]*Message, int64, error)
	MarkRead(ctx context.Context, id id.ID) (*Message, error)
	Delete(ctx context.Context, id id.ID) error
}
