package user

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and local development.
// The cascade hooks let the fake mirror what the SQL transaction deletes.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]User

	// PurgeOwned, when set, removes everything owned by the user
	// (grants, chats, messages) as part of DeleteCascade. An error
	// aborts the delete and leaves the user in place.
	PurgeOwned func(ctx context.Context, userID string) error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]User)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Create(_ context.Context, u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *MemoryStore) Get(_ context.Context, orgID, id string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || (orgID != "" && u.OrgID != orgID) {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) GetByEmail(_ context.Context, email string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *MemoryStore) ListByOrg(_ context.Context, orgID string) ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []User
	for _, u := range s.users {
		if orgID == "" || u.OrgID == orgID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return ErrNotFound
	}
	s.users[u.ID] = u
	return nil
}

func (s *MemoryStore) DeleteCascade(ctx context.Context, orgID, id string) error {
	s.mu.Lock()
	u, ok := s.users[id]
	if !ok || (orgID != "" && u.OrgID != orgID) {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.mu.Unlock()

	if s.PurgeOwned != nil {
		if err := s.PurgeOwned(ctx, id); err != nil {
			return err
		}
	}

	s.mu.Lock()
	delete(s.users, id)
	s.mu.Unlock()
	return nil
}
