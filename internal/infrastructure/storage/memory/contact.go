package memory

import (
	"context"
	"slices"
	"sync"

	"folio/internal/core/apperror"
	"folio/internal/core/id"
	"folio/internal/domain/contact"
)

var _ contact.Repository = (*ContactStore)(nil)

// ContactStore keeps contact messages in memory.
type ContactStore struct {
	mu   sync.RWMutex
	msgs map[id.ID]contact.Message
}

// NewContactStore creates an empty inbox.
func NewContactStore() *ContactStore {
	return &ContactStore{msgs: make(map[id.ID]contact.Message)}
}

func (s *ContactStore) Create(ctx context.Context, m *contact.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs[m.ID] = *m
	return nil
}

func (s *ContactStore) List(ctx context.Context, f contact.ListFilter) ([]*contact.Message, int64, error) {
	s.mu.RLock()
	var out []*contact.Message
	for _, m := range s.msgs {
		if f.UnreadOnly && m.IsRead {
			continue
		}
		cp := m
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *contact.Message) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareValues(b.ID, a.ID)
	})

	total := int64(len(out))
	if f.Offset > 0 {
		out = out[min(f.Offset, len(out)):]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (s *ContactStore) MarkRead(ctx context.Context, msgID id.ID) (*contact.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.msgs[msgID]
	if !ok {
		return nil, apperror.NewNotFound("contact", msgID.String())
	}
	m.IsRead = true
	s.msgs[msgID] = m
	return &m, nil
}

func (s *ContactStore) Delete(ctx context.Context, msgID id.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.msgs[msgID]; !ok {
		return apperror.NewNotFound("contact", msgID.String())
	}
	delete(s.msgs, msgID)
	return nil
}
