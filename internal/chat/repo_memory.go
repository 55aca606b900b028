package chat

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests and local development.
type MemoryStore struct {
	mu       sync.Mutex
	chats    map[string]Chat
	messages map[string][]Message

	// FailAppend forces the next AppendMessages to fail without writing.
	FailAppend error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		chats:    make(map[string]Chat),
		messages: make(map[string][]Message),
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) CreateChat(_ context.Context, c Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[c.ID] = c
	return nil
}

func (s *MemoryStore) GetChat(_ context.Context, orgID, id string) (Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[id]
	if !ok || (orgID != "" && c.OrgID != orgID) {
		return Chat{}, ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) ListByUser(_ context.Context, orgID, userID string) ([]Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Chat
	for _, c := range s.chats {
		if c.UserID == userID && (orgID == "" || c.OrgID == orgID) {
			out = append(out, c)
		}
	}
	sortChats(out)
	return out, nil
}

func (s *MemoryStore) ListByOrg(_ context.Context, orgID string) ([]Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Chat
	for _, c := range s.chats {
		if orgID == "" || c.OrgID == orgID {
			out = append(out, c)
		}
	}
	sortChats(out)
	return out, nil
}

func (s *MemoryStore) TouchChat(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[id]
	if !ok {
		return ErrNotFound
	}
	c.UpdatedAt = at
	s.chats[id] = c
	return nil
}

func (s *MemoryStore) DeleteChat(_ context.Context, orgID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[id]
	if !ok || (orgID != "" && c.OrgID != orgID) {
		return ErrNotFound
	}
	delete(s.chats, id)
	delete(s.messages, id)
	return nil
}

func (s *MemoryStore) AppendMessages(_ context.Context, chatID string, msgs ...Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAppend != nil {
		return s.FailAppend
	}
	s.messages[chatID] = append(s.messages[chatID], msgs...)
	return nil
}

func (s *MemoryStore) ListMessages(_ context.Context, chatID string, limit int) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.messages[chatID]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]Message, len(all))
	copy(out, all)
	return out, nil
}

func sortChats(cs []Chat) {
	sort.Slice(cs, func(i, j int) bool {
		if !cs[i].UpdatedAt.Equal(cs[j].UpdatedAt) {
			return cs[i].UpdatedAt.After(cs[j].UpdatedAt)
		}
		return cs[i].ID < cs[j].ID
	})
}
