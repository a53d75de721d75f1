package work

import (
	"context"
	"strings"
	"unicode"

	"folio/internal/core/tx"
	"folio/internal/domain"
)

// Service provides business logic for Works.
// Uses composition with domain.ContentService for the lifecycle operations.
type Service struct {
	*domain.ContentService[*Work]
}

// NewService creates a new Work service.
func NewService(repo domain.ContentRepository[*Work], txm tx.Manager) *Service {
	base := domain.NewContentService(domain.ContentServiceConfig[*Work]{
		Repo:      repo,
		TxManager: txm,
		Resource:  Resource,
		New:       New,
	})

	base.Hooks().On(domain.BeforeCreate, ensureSlug)
	base.Hooks().On(domain.BeforeUpdate, ensureSlug)

	return &Service{ContentService: base}
}

// ensureSlug derives the slug from the title when none was given.
func ensureSlug(_ context.Context, w *Work) error {
	if strings.TrimSpace(w.Slug) == "" {
		w.Slug = Slugify(w.Title)
	}
	return nil
}

// Slugify lowercases s and joins its letter/digit runs with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}
	return b.String()
}
