package contact

import (
	"context"
	"time"

	"folio/internal/core/apperror"
	"folio/internal/core/id"
	"folio/pkg/logger"
)

const resourceName = "contact"

// Service provides the contact inbox.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new contact service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates and stores a new message.
func (s *Service) Submit(ctx context.Context, m *Message) error {
	m.normalize()
	if err := m.Validate(ctx); err != nil {
		return err
	}

	m.ID = id.New()
	m.IsRead = false
	m.CreatedAt = s.now()

	if err := s.repo.Create(ctx, m); err != nil {
		return normalizeErr(err, m.ID)
	}

	logger.Info(ctx, "contact message received", "id", m.ID)
	return nil
}

// List returns the inbox page and the total matching count.
func (s *Service) List(ctx context.Context, f ListFilter) ([]*Message, int64, error) {
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, normalizeErr(err, id.ID{})
	}
	return items, total, nil
}

// MarkRead flags a message as read.
func (s *Service) MarkRead(ctx context.Context, msgID id.ID) (*Message, error) {
	m, err := s.repo.MarkRead(ctx, msgID)
	if err != nil {
		return nil, normalizeErr(err, msgID)
	}
	return m, nil
}

// Delete removes a message permanently.
func (s *Service) Delete(ctx context.Context, msgID id.ID) error {
	if err := s.repo.Delete(ctx, msgID); err != nil {
		return normalizeErr(err, msgID)
	}
	return nil
}

func normalizeErr(err error, msgID id.ID) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(resourceName, msgID.String())
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewStoreFailure(resourceName, err)
}
