package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/folio/folio/internal/model"
)

// MemoryStore keeps contact messages in process memory.
// Data is lost on restart; intended for development without a database.
type MemoryStore struct {
	mu       sync.RWMutex
	contacts map[string]model.ContactMessage
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{contacts: make(map[string]model.ContactMessage)}
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// CreateContact stores a copy of msg.
func (s *MemoryStore) CreateContact(ctx context.Context, msg *model.ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.contacts[msg.ID] = *msg
	s.mu.Unlock()
	return nil
}

// ListContacts returns contact messages newest-first, ties broken by id.
func (s *MemoryStore) ListContacts(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]*model.ContactMessage, 0, len(s.contacts))
	for _, c := range s.contacts {
		c := c
		out = append(out, &c)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// GetContactByID retrieves a contact message by id.
func (s *MemoryStore) GetContactByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	c, ok := s.contacts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}
